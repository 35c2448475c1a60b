package poller

import (
	"context"
	"sync"
	"time"

	"songs-downloader/internal/api"
	"songs-downloader/internal/model"
	"songs-downloader/internal/registry"
)

// FetchFailedMessage is the error recorded on a job when a status poll fails.
const FetchFailedMessage = "Failed to fetch status"

const DefaultInterval = 2 * time.Second

// JobFetcher fetches the status of a single remote job. *api.Client
// satisfies it.
type JobFetcher interface {
	DownloadStatus(ctx context.Context, downloadID string) (api.StatusResponse, error)
}

// BatchFetcher fetches per-item status for a whole batch.
type BatchFetcher interface {
	BulkStatus(ctx context.Context, bulkID string) (api.BulkStatusResponse, error)
}

// Poller drives reconciliation loops against the registry. Each loop runs on
// a fixed wall-clock interval; ticks do not wait for the previous fetch, so a
// slow response can overlap a later one. Every tick carries a monotonic
// sequence number and the merge step discards responses older than the last
// one applied, which closes the stale-overwrite window that overlap opens.
type Poller struct {
	registry *registry.Registry
	interval time.Duration
}

func New(reg *registry.Registry, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{registry: reg, interval: interval}
}

// Handle is the caller-owned stop capability for one polling loop. Loops also
// stop themselves on terminal status and on fetch failure; Stop is idempotent
// either way.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (h *Handle) Stop() {
	h.once.Do(h.cancel)
}

// Done is closed once the loop has fully exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

type loopState struct {
	mu      sync.Mutex
	lastSeq uint64
}

// apply runs fn only if seq is newer than the last applied sequence.
func (s *loopState) apply(seq uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.lastSeq {
		return
	}
	s.lastSeq = seq
	fn()
}

// WatchJob starts the reconciliation loop for one job. Remote status is
// merged into the registry entry at localKey until the job reaches a terminal
// state. A failed fetch is fatal to the loop: the entry is marked error and
// no further ticks are scheduled.
func (p *Poller) WatchJob(ctx context.Context, fetcher JobFetcher, remoteID, localKey string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	state := &loopState{}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var seq uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			seq++
			go p.pollJobOnce(ctx, fetcher, remoteID, localKey, seq, state, h)
		}
	}()
	return h
}

func (p *Poller) pollJobOnce(ctx context.Context, fetcher JobFetcher, remoteID, localKey string, seq uint64, state *loopState, h *Handle) {
	status, err := fetcher.DownloadStatus(ctx, remoteID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		state.apply(seq, func() {
			p.markError(localKey, FetchFailedMessage)
		})
		h.Stop()
		return
	}

	terminal := false
	state.apply(seq, func() {
		terminal = p.mergeRemote(localKey, status)
	})
	if terminal {
		h.Stop()
	}
}

// WatchBatch starts the reconciliation loop for a batch of itemCount jobs
// submitted under batchID. Items are merged positionally under
// "<batchID>-<index>". The loop stops once every item is terminal. A failed
// fetch marks every non-terminal item as errored and stops the loop, matching
// single-job behavior.
func (p *Poller) WatchBatch(ctx context.Context, fetcher BatchFetcher, batchID string, itemCount int) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	state := &loopState{}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var seq uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			seq++
			go p.pollBatchOnce(ctx, fetcher, batchID, itemCount, seq, state, h)
		}
	}()
	return h
}

func (p *Poller) pollBatchOnce(ctx context.Context, fetcher BatchFetcher, batchID string, itemCount int, seq uint64, state *loopState, h *Handle) {
	resp, err := fetcher.BulkStatus(ctx, batchID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		state.apply(seq, func() {
			for i := 0; i < itemCount; i++ {
				p.markError(model.BatchKey(batchID, i), FetchFailedMessage)
			}
		})
		h.Stop()
		return
	}

	allDone := false
	state.apply(seq, func() {
		allDone = len(resp.Downloads) > 0
		for i, item := range resp.Downloads {
			p.mergeRemote(model.BatchKey(batchID, i), api.StatusResponse{
				Status:      item.Status,
				Progress:    item.Progress,
				Title:       item.Title,
				DownloadURL: item.DownloadURL,
				Error:       item.Error,
			})
			if !model.IsTerminal(item.Status) {
				allDone = false
			}
		}
	})
	if allDone {
		h.Stop()
	}
}

// mergeRemote applies one remote status report to the registry entry at key
// and reports whether the merged status is terminal. Reports landing on an
// already-terminal entry (including a user-cancelled one) are discarded: the
// registry itself stays permissive, keeping reports off terminal entries is
// this loop's job.
func (p *Poller) mergeRemote(key string, status api.StatusResponse) bool {
	current, ok := p.registry.Get(key)
	if !ok || model.IsTerminal(current.Status) {
		return true
	}

	upd := model.Update{
		Progress: &status.Progress,
	}
	if model.IsKnownStatus(status.Status) {
		upd.Status = &status.Status
	}
	if status.Title != "" {
		upd.Title = &status.Title
	}
	if status.DownloadURL != "" {
		upd.DownloadURL = &status.DownloadURL
	}
	if status.Error != "" {
		upd.Error = &status.Error
	}
	p.registry.Update(key, upd)
	return model.IsTerminal(status.Status)
}

func (p *Poller) markError(key, message string) {
	current, ok := p.registry.Get(key)
	if !ok || model.IsTerminal(current.Status) {
		return
	}
	errStatus := model.StatusError
	p.registry.Update(key, model.Update{
		Status: &errStatus,
		Error:  &message,
	})
}
