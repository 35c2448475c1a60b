package api

// AdvancedOptions mirrors the backend's download option object. Field names
// follow the wire format the backend expects.
type AdvancedOptions struct {
	AudioFormat    string `json:"audioFormat,omitempty"`
	AudioQuality   string `json:"audioQuality,omitempty"`
	EmbedThumbnail bool   `json:"embedThumbnail,omitempty"`
	AddMetadata    bool   `json:"addMetadata,omitempty"`
	KeepVideo      bool   `json:"keepVideo,omitempty"`
	VideoQuality   string `json:"videoQuality,omitempty"`
	VideoFPS       string `json:"videoFPS,omitempty"`
	VideoFormat    string `json:"videoFormat,omitempty"`
	EmbedSubtitles bool   `json:"embedSubtitles,omitempty"`
	CustomArgs     string `json:"customArgs,omitempty"`
}

type DownloadRequest struct {
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	AdvancedOptions AdvancedOptions `json:"advancedOptions"`
}

type DownloadResponse struct {
	DownloadID string `json:"download_id"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
	Error       string `json:"error"`
}

type BulkRequest struct {
	URLs            []string        `json:"urls"`
	AdvancedOptions AdvancedOptions `json:"advancedOptions"`
}

type BulkResponse struct {
	BulkID string `json:"bulk_id"`
}

// BulkItem is one member of the bulk status array. Members are identified by
// array position; the backend keeps the ordering stable across polls.
type BulkItem struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
	Error       string `json:"error"`
}

type BulkStatusResponse struct {
	Downloads []BulkItem `json:"downloads"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

type SearchResponse struct {
	SearchID string `json:"search_id"`
}

type SearchResult struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Source    string `json:"source"`
}

type SearchStatusResponse struct {
	Status  string         `json:"status"`
	Results []SearchResult `json:"results"`
}
