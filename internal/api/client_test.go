package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestSubmitDownload_SendsWireFormat(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(DownloadResponse{DownloadID: "r1"})
	}))

	resp, err := client.SubmitDownload(context.Background(), DownloadRequest{
		URL:   "https://youtube.com/watch?v=abc",
		Title: "Track",
		AdvancedOptions: AdvancedOptions{
			AudioFormat:  "mp3",
			AudioQuality: "0",
			AddMetadata:  true,
		},
	})
	if err != nil {
		t.Fatalf("submit download: %v", err)
	}
	if resp.DownloadID != "r1" {
		t.Fatalf("download id = %q, want r1", resp.DownloadID)
	}
	if gotPath != "/download" {
		t.Fatalf("path = %q, want /download", gotPath)
	}
	opts, ok := gotBody["advancedOptions"].(map[string]any)
	if !ok {
		t.Fatalf("advancedOptions missing from body: %v", gotBody)
	}
	if opts["audioFormat"] != "mp3" {
		t.Fatalf("audioFormat = %v, want mp3", opts["audioFormat"])
	}
}

func TestSubmitDownload_MissingDownloadIDIsError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))

	if _, err := client.SubmitDownload(context.Background(), DownloadRequest{URL: "https://a"}); err == nil {
		t.Fatalf("expected error for response without download_id")
	}
}

func TestDownloadStatus_DecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download_status/r1" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(StatusResponse{
			Status:      "downloading",
			Progress:    40,
			Title:       "Track",
			DownloadURL: "",
		})
	}))

	status, err := client.DownloadStatus(context.Background(), "r1")
	if err != nil {
		t.Fatalf("download status: %v", err)
	}
	if status.Status != "downloading" || status.Progress != 40 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestBulkStatus_PreservesItemOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(BulkStatusResponse{
			Downloads: []BulkItem{
				{Title: "first", Status: "complete", Progress: 100},
				{Title: "second", Status: "downloading", Progress: 30},
				{Title: "third", Status: "queued"},
			},
		})
	}))

	resp, err := client.BulkStatus(context.Background(), "b1")
	if err != nil {
		t.Fatalf("bulk status: %v", err)
	}
	if len(resp.Downloads) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Downloads))
	}
	if resp.Downloads[0].Title != "first" || resp.Downloads[2].Title != "third" {
		t.Fatalf("item order not preserved: %+v", resp.Downloads)
	}
}

func TestDo_NonSuccessStatusSurfacesBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))

	_, err := client.DownloadStatus(context.Background(), "r1")
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestDo_MalformedJSONIsError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	if _, err := client.DownloadStatus(context.Background(), "r1"); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
