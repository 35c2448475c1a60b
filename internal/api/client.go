package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote download backend. The base URL is injected at
// construction so tests can point it at a fake server.
type Client struct {
	baseURL string
	http    *http.Client
}

type Options struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", base, err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// SubmitDownload starts a single or playlist job.
func (c *Client) SubmitDownload(ctx context.Context, req DownloadRequest) (DownloadResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return DownloadResponse{}, fmt.Errorf("download URL is required")
	}
	var resp DownloadResponse
	if err := c.postJSON(ctx, "/download", req, &resp); err != nil {
		return DownloadResponse{}, err
	}
	if strings.TrimSpace(resp.DownloadID) == "" {
		return DownloadResponse{}, fmt.Errorf("backend did not return a download_id")
	}
	return resp, nil
}

// DownloadStatus fetches the current state of one job.
func (c *Client) DownloadStatus(ctx context.Context, downloadID string) (StatusResponse, error) {
	if strings.TrimSpace(downloadID) == "" {
		return StatusResponse{}, fmt.Errorf("download id is required")
	}
	var resp StatusResponse
	if err := c.getJSON(ctx, "/download_status/"+url.PathEscape(downloadID), &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// SubmitBulk starts a batch of jobs and returns the batch identifier.
func (c *Client) SubmitBulk(ctx context.Context, req BulkRequest) (BulkResponse, error) {
	if len(req.URLs) == 0 {
		return BulkResponse{}, fmt.Errorf("at least one URL is required")
	}
	var resp BulkResponse
	if err := c.postJSON(ctx, "/bulk_download", req, &resp); err != nil {
		return BulkResponse{}, err
	}
	if strings.TrimSpace(resp.BulkID) == "" {
		return BulkResponse{}, fmt.Errorf("backend did not return a bulk_id")
	}
	return resp, nil
}

// BulkStatus fetches per-item state for a whole batch.
func (c *Client) BulkStatus(ctx context.Context, bulkID string) (BulkStatusResponse, error) {
	if strings.TrimSpace(bulkID) == "" {
		return BulkStatusResponse{}, fmt.Errorf("bulk id is required")
	}
	var resp BulkStatusResponse
	if err := c.getJSON(ctx, "/bulk_status/"+url.PathEscape(bulkID), &resp); err != nil {
		return BulkStatusResponse{}, err
	}
	return resp, nil
}

// SubmitSearch starts a search and returns its identifier.
func (c *Client) SubmitSearch(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return SearchResponse{}, fmt.Errorf("search query is required")
	}
	var resp SearchResponse
	if err := c.postJSON(ctx, "/search", req, &resp); err != nil {
		return SearchResponse{}, err
	}
	if strings.TrimSpace(resp.SearchID) == "" {
		return SearchResponse{}, fmt.Errorf("backend did not return a search_id")
	}
	return resp, nil
}

// SearchStatus fetches the state of a previously submitted search.
func (c *Client) SearchStatus(ctx context.Context, searchID string) (SearchStatusResponse, error) {
	if strings.TrimSpace(searchID) == "" {
		return SearchStatusResponse{}, fmt.Errorf("search id is required")
	}
	var resp SearchStatusResponse
	if err := c.getJSON(ctx, "/search_status/"+url.PathEscape(searchID), &resp); err != nil {
		return SearchStatusResponse{}, err
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "songs-downloader")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend request failed (%d) for %s: %s",
			resp.StatusCode, req.URL.Path, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", req.URL.Path, err)
	}
	return nil
}
