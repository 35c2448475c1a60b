package model

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestUpdateApply_MergesOnlySetFields(t *testing.T) {
	job := Job{
		ID:       "k1",
		Title:    "Original",
		URL:      "https://youtube.com/watch?v=abc",
		Status:   StatusDownloading,
		Progress: 40,
	}

	Update{
		Status:      strPtr(StatusComplete),
		Progress:    intPtr(100),
		DownloadURL: strPtr("https://host/file.mp3"),
	}.Apply(&job)

	if job.Status != StatusComplete || job.Progress != 100 {
		t.Fatalf("merge missed status/progress: %+v", job)
	}
	if job.DownloadURL != "https://host/file.mp3" {
		t.Fatalf("merge missed download url: %+v", job)
	}
	if job.Title != "Original" || job.URL != "https://youtube.com/watch?v=abc" {
		t.Fatalf("merge clobbered unset fields: %+v", job)
	}
}

func TestUpdateApply_EmptyStringsDoNotClobber(t *testing.T) {
	job := Job{ID: "k1", Title: "Kept", DownloadURL: "https://host/file.mp3"}

	Update{Title: strPtr(""), DownloadURL: strPtr("")}.Apply(&job)

	if job.Title != "Kept" || job.DownloadURL != "https://host/file.mp3" {
		t.Fatalf("empty update clobbered fields: %+v", job)
	}
}

func TestUpdateApply_ClampsProgress(t *testing.T) {
	job := Job{ID: "k1", Status: StatusDownloading, Progress: 40}

	Update{Progress: intPtr(180)}.Apply(&job)
	if job.Progress != 100 {
		t.Fatalf("progress above 100 not clamped: %d", job.Progress)
	}

	Update{Progress: intPtr(-5)}.Apply(&job)
	if job.Progress != 0 {
		t.Fatalf("progress below 0 not clamped: %d", job.Progress)
	}
}

func TestBatchKey(t *testing.T) {
	if got := BatchKey("bulk-7f3a", 2); got != "bulk-7f3a-2" {
		t.Fatalf("unexpected batch key %q", got)
	}
}
