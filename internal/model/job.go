package model

import "fmt"

// Job is one user-requested download tracked under a client-generated key.
// Batch members share their batch identifier and are keyed positionally.
type Job struct {
	ID          string `json:"id"`
	RemoteID    string `json:"remote_id,omitempty"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`

	// Display metadata copied through from the submission form. No behavior
	// hangs off these.
	Type      string `json:"type,omitempty"`
	Format    string `json:"format,omitempty"`
	Quality   string `json:"quality,omitempty"`
	ItemRange string `json:"item_range,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Update is a partial merge applied to an existing Job. Nil fields keep the
// current value.
type Update struct {
	Title       *string
	Status      *string
	Progress    *int
	DownloadURL *string
	Error       *string
	RemoteID    *string
	URL         *string
}

// Apply merges u into job. Progress is clamped to 0..100 so a misbehaving
// backend cannot push the displayed value out of range.
func (u Update) Apply(job *Job) {
	if u.Title != nil && *u.Title != "" {
		job.Title = *u.Title
	}
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Progress != nil {
		job.Progress = ClampProgress(*u.Progress)
	}
	if u.DownloadURL != nil && *u.DownloadURL != "" {
		job.DownloadURL = *u.DownloadURL
	}
	if u.Error != nil && *u.Error != "" {
		job.Error = *u.Error
	}
	if u.RemoteID != nil && *u.RemoteID != "" {
		job.RemoteID = *u.RemoteID
	}
	if u.URL != nil && *u.URL != "" {
		job.URL = *u.URL
	}
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// BatchKey builds the registry key for one member of a batch. The backend
// reports batch members positionally, so the index is part of the identity.
func BatchKey(batchID string, index int) string {
	return fmt.Sprintf("%s-%d", batchID, index)
}
