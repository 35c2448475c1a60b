package manager

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"songs-downloader/internal/api"
	"songs-downloader/internal/model"
	"songs-downloader/internal/poller"
	"songs-downloader/internal/registry"
)

// Backend is the remote download service surface the manager needs.
// *api.Client satisfies it.
type Backend interface {
	SubmitDownload(ctx context.Context, req api.DownloadRequest) (api.DownloadResponse, error)
	DownloadStatus(ctx context.Context, downloadID string) (api.StatusResponse, error)
	SubmitBulk(ctx context.Context, req api.BulkRequest) (api.BulkResponse, error)
	BulkStatus(ctx context.Context, bulkID string) (api.BulkStatusResponse, error)
	SubmitSearch(ctx context.Context, req api.SearchRequest) (api.SearchResponse, error)
	SearchStatus(ctx context.Context, searchID string) (api.SearchStatusResponse, error)
}

var playlistRangeRe = regexp.MustCompile(`^(\d+|\d+-\d+)(,(\d+|\d+-\d+))*$`)

// ValidatePlaylistRange rejects malformed custom item ranges before any
// request is sent. Accepted shapes: "1-5", "1,3,5", "1-3,5-7".
func ValidatePlaylistRange(itemRange string) error {
	if !playlistRangeRe.MatchString(strings.TrimSpace(itemRange)) {
		return fmt.Errorf("invalid playlist range %q (use formats like 1-5, 1,3,5, or 1-3,5-7)", itemRange)
	}
	return nil
}

// Manager owns the registry, the backend client, and one polling handle per
// submission. It is the surface the CLI and the panel talk to.
type Manager struct {
	backend  Backend
	registry *registry.Registry
	poller   *poller.Poller

	searchInterval time.Duration
	searchAttempts int

	mu      sync.Mutex
	handles map[string]*poller.Handle
}

func New(backend Backend, reg *registry.Registry, p *poller.Poller) *Manager {
	return &Manager{
		backend:        backend,
		registry:       reg,
		poller:         p,
		searchInterval: poller.DefaultSearchInterval,
		searchAttempts: poller.DefaultSearchAttempts,
		handles:        make(map[string]*poller.Handle),
	}
}

// SetSearchPolicy overrides the search polling interval and attempt budget.
func (m *Manager) SetSearchPolicy(interval time.Duration, attempts int) {
	if interval > 0 {
		m.searchInterval = interval
	}
	if attempts > 0 {
		m.searchAttempts = attempts
	}
}

// SingleOptions carries the submission parameters for one download.
type SingleOptions struct {
	URL       string
	Title     string
	Advanced  api.AdvancedOptions
	Type      string
	Format    string
	Quality   string
	ItemRange string
}

// SubmitSingle registers a job, submits it to the backend, and starts its
// polling loop. The entry is created before the request so a submission
// failure is visible on it as a terminal error.
func (m *Manager) SubmitSingle(ctx context.Context, opts SingleOptions) (string, *poller.Handle, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return "", nil, fmt.Errorf("download URL is required")
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = url
	}

	key := uuid.NewString()
	m.registry.Add(key, model.Job{
		Title:     title,
		URL:       url,
		Status:    model.StatusDownloading,
		Type:      opts.Type,
		Format:    opts.Format,
		Quality:   opts.Quality,
		ItemRange: opts.ItemRange,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})

	resp, err := m.backend.SubmitDownload(ctx, api.DownloadRequest{
		URL:             url,
		Title:           title,
		AdvancedOptions: opts.Advanced,
	})
	if err != nil {
		errStatus := model.StatusError
		msg := err.Error()
		m.registry.Update(key, model.Update{Status: &errStatus, Error: &msg})
		return key, nil, fmt.Errorf("submit download: %w", err)
	}

	m.registry.Update(key, model.Update{RemoteID: &resp.DownloadID})
	h := m.poller.WatchJob(ctx, m.backend, resp.DownloadID, key)
	m.trackHandle(key, h)
	return key, h, nil
}

// SubmitPlaylist submits a playlist URL as one tracked job, optionally
// restricted to a validated item range.
func (m *Manager) SubmitPlaylist(ctx context.Context, opts SingleOptions) (string, *poller.Handle, error) {
	itemRange := strings.TrimSpace(opts.ItemRange)
	if itemRange != "" {
		if err := ValidatePlaylistRange(itemRange); err != nil {
			return "", nil, err
		}
		opts.Advanced.CustomArgs = strings.TrimSpace(opts.Advanced.CustomArgs + " --playlist-items " + itemRange)
		opts.ItemRange = itemRange
	}
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = "Playlist"
	}
	return m.SubmitSingle(ctx, opts)
}

// BulkOptions carries the submission parameters for a batch.
type BulkOptions struct {
	URLs     []string
	Advanced api.AdvancedOptions
	Type     string
	Format   string
	Quality  string
}

// SubmitBulk submits a batch. Entries are created only once the backend has
// accepted the batch and assigned its identifier; a failed submission leaves
// the registry untouched.
func (m *Manager) SubmitBulk(ctx context.Context, opts BulkOptions) (string, *poller.Handle, error) {
	urls := make([]string, 0, len(opts.URLs))
	for _, u := range opts.URLs {
		if v := strings.TrimSpace(u); v != "" {
			urls = append(urls, v)
		}
	}
	if len(urls) == 0 {
		return "", nil, fmt.Errorf("at least one URL is required")
	}

	resp, err := m.backend.SubmitBulk(ctx, api.BulkRequest{
		URLs:            urls,
		AdvancedOptions: opts.Advanced,
	})
	if err != nil {
		return "", nil, fmt.Errorf("submit bulk download: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, u := range urls {
		m.registry.Add(model.BatchKey(resp.BulkID, i), model.Job{
			Title:     fmt.Sprintf("URL %d", i+1),
			URL:       u,
			Status:    model.StatusQueued,
			Type:      opts.Type,
			Format:    opts.Format,
			Quality:   opts.Quality,
			CreatedAt: now,
		})
	}

	h := m.poller.WatchBatch(ctx, m.backend, resp.BulkID, len(urls))
	m.trackHandle(resp.BulkID, h)
	return resp.BulkID, h, nil
}

var batchKeyRe = regexp.MustCompile(`^(.+)-(\d+)$`)

// ResumeActive restarts polling loops for entries persisted by a previous
// process that are still in an active state. Batch members are regrouped by
// their positional keys so each batch gets a single loop again.
func (m *Manager) ResumeActive(ctx context.Context) {
	batchSizes := make(map[string]int)
	batchActive := make(map[string]bool)
	for key, job := range m.registry.Snapshot() {
		if job.RemoteID != "" {
			if model.IsActive(job.Status) && !m.hasHandle(key) {
				h := m.poller.WatchJob(ctx, m.backend, job.RemoteID, key)
				m.trackHandle(key, h)
			}
			continue
		}
		parts := batchKeyRe.FindStringSubmatch(key)
		if parts == nil {
			continue
		}
		batchID := parts[1]
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		// The loop needs the full member count, finished entries included,
		// so positional merges line up with the backend's array.
		if idx+1 > batchSizes[batchID] {
			batchSizes[batchID] = idx + 1
		}
		if model.IsActive(job.Status) {
			batchActive[batchID] = true
		}
	}
	for batchID, count := range batchSizes {
		if !batchActive[batchID] || m.hasHandle(batchID) {
			continue
		}
		h := m.poller.WatchBatch(ctx, m.backend, batchID, count)
		m.trackHandle(batchID, h)
	}
}

// Search submits a query and polls for results with a bounded budget.
func (m *Manager) Search(ctx context.Context, query, searchType string) ([]api.SearchResult, error) {
	resp, err := m.backend.SubmitSearch(ctx, api.SearchRequest{
		Query:      strings.TrimSpace(query),
		SearchType: searchType,
	})
	if err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	status, err := poller.PollSearch(ctx, m.backend, resp.SearchID, m.searchInterval, m.searchAttempts)
	if err != nil {
		return nil, err
	}
	return status.Results, nil
}

// Cancel flips the entry to cancelled and stops its polling loop, so a later
// tick cannot overwrite the locally chosen state.
func (m *Manager) Cancel(key string) {
	m.stopHandle(key)
	m.registry.Cancel(key)
}

// StopAll cancels every active entry and stops every polling loop.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for key, h := range m.handles {
		h.Stop()
		delete(m.handles, key)
	}
	m.mu.Unlock()
	m.registry.StopAll()
}

// Remove deletes one entry, stopping its loop first if it has one.
func (m *Manager) Remove(key string) {
	m.stopHandle(key)
	m.registry.Remove(key)
}

// RemoveAll stops every loop and empties the registry.
func (m *Manager) RemoveAll() {
	m.mu.Lock()
	for key, h := range m.handles {
		h.Stop()
		delete(m.handles, key)
	}
	m.mu.Unlock()
	m.registry.RemoveAll()
}

func (m *Manager) ClearFinished() {
	m.registry.ClearFinished()
}

func (m *Manager) Snapshot() map[string]model.Job {
	return m.registry.Snapshot()
}

func (m *Manager) ActiveCount() int {
	return m.registry.ActiveCount()
}

func (m *Manager) Rollup() registry.Counters {
	return m.registry.Rollup()
}

func (m *Manager) Get(key string) (model.Job, bool) {
	return m.registry.Get(key)
}

func (m *Manager) trackHandle(key string, h *poller.Handle) {
	m.mu.Lock()
	m.handles[key] = h
	m.mu.Unlock()
}

func (m *Manager) hasHandle(key string) bool {
	m.mu.Lock()
	_, ok := m.handles[key]
	m.mu.Unlock()
	return ok
}

func (m *Manager) stopHandle(key string) {
	m.mu.Lock()
	if h, ok := m.handles[key]; ok {
		h.Stop()
		delete(m.handles, key)
	}
	m.mu.Unlock()
}
