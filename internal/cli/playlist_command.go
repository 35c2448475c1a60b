package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"songs-downloader/internal/manager"
)

func runPlaylist(args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	urlFlag := fs.String("url", "", "playlist URL (required)")
	items := fs.String("items", "", "item range, e.g. 1-5 or 1,3,5 or 1-3,5-7 (empty downloads all)")
	title := fs.String("title", "", "display title (defaults to \"Playlist\")")
	configPath := fs.String("config", "", "config file path")
	jsonOut := fs.Bool("json", false, "print the final job state as JSON")
	dl := addDownloadFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*urlFlag) == "" {
		return fmt.Errorf("--url is required")
	}
	// Validate before acquiring the lock or touching the backend.
	if strings.TrimSpace(*items) != "" {
		if err := manager.ValidatePlaylistRange(*items); err != nil {
			return err
		}
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	kind, format, quality := dl.displayMeta()
	key, h, err := a.manager.SubmitPlaylist(context.Background(), manager.SingleOptions{
		URL:       *urlFlag,
		Title:     *title,
		Advanced:  dl.advanced(),
		Type:      kind,
		Format:    format,
		Quality:   quality,
		ItemRange: strings.TrimSpace(*items),
	})
	if err != nil {
		return err
	}

	renderUntilDone(h, func() string {
		job, _ := a.manager.Get(key)
		return jobSummaryLine(job)
	})

	job, _ := a.manager.Get(key)
	if *jsonOut {
		return printJSON(job)
	}
	if job.Error != "" {
		return fmt.Errorf("playlist download failed: %s", job.Error)
	}
	return nil
}
