package poller

import (
	"context"
	"fmt"
	"time"

	"songs-downloader/internal/api"
)

const (
	DefaultSearchInterval = time.Second
	DefaultSearchAttempts = 30
)

// SearchFetcher fetches the status of a submitted search.
type SearchFetcher interface {
	SearchStatus(ctx context.Context, searchID string) (api.SearchStatusResponse, error)
}

// PollSearch polls a search until it completes, fails, or the attempt budget
// runs out. Unlike download loops, search polling is bounded: a search that
// never completes is reported as an error rather than polled forever.
func PollSearch(ctx context.Context, fetcher SearchFetcher, searchID string, interval time.Duration, maxAttempts int) (api.SearchStatusResponse, error) {
	if interval <= 0 {
		interval = DefaultSearchInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultSearchAttempts
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return api.SearchStatusResponse{}, ctx.Err()
		case <-ticker.C:
		}

		resp, err := fetcher.SearchStatus(ctx, searchID)
		if err != nil {
			return api.SearchStatusResponse{}, fmt.Errorf("search status: %w", err)
		}
		switch resp.Status {
		case "complete":
			return resp, nil
		case "error":
			return api.SearchStatusResponse{}, fmt.Errorf("search %s failed", searchID)
		}
	}
	return api.SearchStatusResponse{}, fmt.Errorf("search %s did not complete after %d attempts", searchID, maxAttempts)
}
