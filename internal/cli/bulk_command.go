package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"songs-downloader/internal/manager"
	"songs-downloader/internal/model"
)

func runBulk(args []string) error {
	fs := flag.NewFlagSet("bulk", flag.ContinueOnError)
	file := fs.String("file", "", "file with one URL per line")
	urls := fs.String("urls", "", "comma-separated URL list")
	configPath := fs.String("config", "", "config file path")
	jsonOut := fs.Bool("json", false, "print final per-item states as JSON")
	dl := addDownloadFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := collectBulkURLs(*file, *urls)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("at least one URL is required (--file or --urls)")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	kind, format, quality := dl.displayMeta()
	bulkID, h, err := a.manager.SubmitBulk(context.Background(), manager.BulkOptions{
		URLs:     list,
		Advanced: dl.advanced(),
		Type:     kind,
		Format:   format,
		Quality:  quality,
	})
	if err != nil {
		return err
	}
	fmt.Printf("batch %s accepted (%d items)\n", bulkID, len(list))

	renderUntilDone(h, func() string {
		completed, failed := batchProgress(a, bulkID, len(list))
		return fmt.Sprintf("batch %s: %d/%d complete, %d failed", bulkID, completed, len(list), failed)
	})

	items := batchJobs(a, bulkID, len(list))
	if *jsonOut {
		return printJSON(items)
	}
	for _, job := range items {
		fmt.Println(" ", jobSummaryLine(job))
	}
	if _, failed := batchProgress(a, bulkID, len(list)); failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(list))
	}
	return nil
}

func collectBulkURLs(file, urls string) ([]string, error) {
	var raw []string
	switch {
	case strings.TrimSpace(file) != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read URL file: %w", err)
		}
		raw = strings.Split(string(data), "\n")
	case strings.TrimSpace(urls) != "":
		raw = strings.Split(urls, ",")
	}

	out := make([]string, 0, len(raw))
	for _, u := range raw {
		if v := strings.TrimSpace(u); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func batchJobs(a *app, bulkID string, n int) []model.Job {
	jobs := make([]model.Job, 0, n)
	for i := 0; i < n; i++ {
		if job, ok := a.manager.Get(model.BatchKey(bulkID, i)); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// batchProgress recomputes the aggregate counters from the per-item list.
func batchProgress(a *app, bulkID string, n int) (completed, failed int) {
	for _, job := range batchJobs(a, bulkID, n) {
		switch job.Status {
		case model.StatusComplete:
			completed++
		case model.StatusError:
			failed++
		}
	}
	return completed, failed
}
