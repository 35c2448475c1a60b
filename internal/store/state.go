package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"songs-downloader/internal/model"
)

// StateSchemaVersion tags the persisted jobs snapshot. A snapshot carrying a
// different version is treated the same as a corrupt one: loaded as empty.
const StateSchemaVersion = 1

const (
	stateFileName = "downloads.json"
	themeFileName = "theme"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// StateEnvelope is the on-disk layout of the jobs snapshot.
type StateEnvelope struct {
	SchemaVersion int                  `json:"schema_version"`
	UpdatedAt     string               `json:"updated_at"`
	Jobs          map[string]model.Job `json:"jobs"`
}

// Store persists the job collection and the selected theme under a state
// directory. The jobs snapshot and the theme live under separate keys.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) StatePath() string {
	return filepath.Join(s.dir, stateFileName)
}

func (s *Store) themePath() string {
	return filepath.Join(s.dir, themeFileName)
}

// LoadJobs reads the persisted snapshot. Absence, corruption, or a schema
// version mismatch all yield an empty collection, never an error.
func (s *Store) LoadJobs() map[string]model.Job {
	var env StateEnvelope
	if err := ReadJSON(s.StatePath(), &env); err != nil {
		return map[string]model.Job{}
	}
	if env.SchemaVersion != StateSchemaVersion || env.Jobs == nil {
		return map[string]model.Job{}
	}
	return env.Jobs
}

// SaveJobs writes the full collection. Callers treat a write failure as
// non-fatal: the in-memory collection stays authoritative for the session.
func (s *Store) SaveJobs(jobs map[string]model.Job) error {
	env := StateEnvelope{
		SchemaVersion: StateSchemaVersion,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Jobs:          jobs,
	}
	return WriteJSON(s.StatePath(), env)
}

func (s *Store) LoadTheme() string {
	data, err := os.ReadFile(s.themePath())
	if err != nil {
		return ThemeDark
	}
	theme := strings.TrimSpace(string(data))
	if theme != ThemeDark && theme != ThemeLight {
		return ThemeDark
	}
	return theme
}

func (s *Store) SaveTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		theme = ThemeDark
	}
	return WriteBytes(s.themePath(), []byte(theme+"\n"))
}
