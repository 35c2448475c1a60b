package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"songs-downloader/internal/model"
	"songs-downloader/internal/poller"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdinIsTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// sortedJobs orders a snapshot for stable rendering: newest submissions
// first, key as tie-breaker.
func sortedJobs(snap map[string]model.Job) []model.Job {
	jobs := make([]model.Job, 0, len(snap))
	for _, job := range snap {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt != jobs[j].CreatedAt {
			return jobs[i].CreatedAt > jobs[j].CreatedAt
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}

// renderUntilDone redraws a one-line summary until the polling loop exits,
// then prints the final line. Output stays on one line via CR + clear, like a
// download progress meter.
func renderUntilDone(h *poller.Handle, summary func() string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-h.Done():
			fmt.Printf("\r\033[2K%s\n", summary())
			return
		case <-ticker.C:
			fmt.Printf("\r\033[2K%s", summary())
		}
	}
}

func jobSummaryLine(job model.Job) string {
	var b strings.Builder
	title := job.Title
	if title == "" {
		title = job.URL
	}
	fmt.Fprintf(&b, "%s: %s", title, job.Status)
	switch job.Status {
	case model.StatusDownloading:
		fmt.Fprintf(&b, " %d%%", job.Progress)
	case model.StatusComplete:
		if job.DownloadURL != "" {
			fmt.Fprintf(&b, " -> %s", job.DownloadURL)
		}
	case model.StatusError:
		if job.Error != "" {
			fmt.Fprintf(&b, " (%s)", job.Error)
		}
	}
	return b.String()
}
