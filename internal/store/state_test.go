package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"songs-downloader/internal/model"
)

func TestLoadJobs_MissingFileYieldsEmpty(t *testing.T) {
	s := New(t.TempDir())

	jobs := s.LoadJobs()
	if len(jobs) != 0 {
		t.Fatalf("expected empty collection, got %d entries", len(jobs))
	}
}

func TestLoadJobs_CorruptFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.WriteFile(s.StatePath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if jobs := s.LoadJobs(); len(jobs) != 0 {
		t.Fatalf("expected empty collection for corrupt state, got %d entries", len(jobs))
	}
}

func TestLoadJobs_SchemaVersionMismatchYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	env := StateEnvelope{
		SchemaVersion: StateSchemaVersion + 1,
		Jobs: map[string]model.Job{
			"k1": {ID: "k1", Status: model.StatusQueued},
		},
	}
	if err := WriteJSON(s.StatePath(), env); err != nil {
		t.Fatalf("seed future-version state: %v", err)
	}

	if jobs := s.LoadJobs(); len(jobs) != 0 {
		t.Fatalf("expected empty collection for unknown schema version, got %d entries", len(jobs))
	}
}

func TestSaveJobs_RoundTripPreservesAllFields(t *testing.T) {
	s := New(t.TempDir())

	jobs := map[string]model.Job{
		"k1": {
			ID:          "k1",
			RemoteID:    "r1",
			Title:       "Track One",
			URL:         "https://youtube.com/watch?v=abc",
			Status:      model.StatusComplete,
			Progress:    100,
			DownloadURL: "https://host/file.mp3",
			Type:        "audio",
			Format:      "mp3",
			Quality:     "0",
			CreatedAt:   "2026-08-28T10:00:00Z",
		},
		"bulk-1-0": {
			ID:        "bulk-1-0",
			Title:     "URL 1",
			URL:       "https://youtube.com/watch?v=def",
			Status:    model.StatusError,
			Error:     "unavailable",
			ItemRange: "1-3,5",
		},
	}

	if err := s.SaveJobs(jobs); err != nil {
		t.Fatalf("save jobs: %v", err)
	}

	reloaded := New(filepath.Dir(s.StatePath())).LoadJobs()
	if !reflect.DeepEqual(jobs, reloaded) {
		t.Fatalf("round-trip mismatch:\nbefore: %+v\nafter:  %+v", jobs, reloaded)
	}
}

func TestThemeRoundTripAndDefault(t *testing.T) {
	s := New(t.TempDir())

	if got := s.LoadTheme(); got != ThemeDark {
		t.Fatalf("expected dark default, got %q", got)
	}
	if err := s.SaveTheme(ThemeLight); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if got := s.LoadTheme(); got != ThemeLight {
		t.Fatalf("expected light after save, got %q", got)
	}
	if err := s.SaveTheme("solarized"); err != nil {
		t.Fatalf("save invalid theme: %v", err)
	}
	if got := s.LoadTheme(); got != ThemeDark {
		t.Fatalf("expected invalid theme to normalize to dark, got %q", got)
	}
}
