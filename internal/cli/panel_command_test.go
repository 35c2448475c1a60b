package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPanelBoolFieldSupportsYN(t *testing.T) {
	m := panelModel{
		mode: panelModeForm,
		form: newPanelForm(80),
	}
	m.form.Index = findFieldIndexByKey(m.form, "embed_thumbnail")
	if m.form.Index < 0 {
		t.Fatal("embed_thumbnail field not found")
	}

	model, _ := m.updateForm(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m2 := model.(panelModel)
	if got := m2.form.currentField().Value; got != "n" {
		t.Fatalf("expected embed_thumbnail value n after 'n', got %q", got)
	}

	model, _ = m2.updateForm(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m3 := model.(panelModel)
	if got := m3.form.currentField().Value; got != "y" {
		t.Fatalf("expected embed_thumbnail value y after 'y', got %q", got)
	}
}

func TestPanelSelectFieldCyclesWithArrows(t *testing.T) {
	m := panelModel{
		mode: panelModeForm,
		form: newPanelForm(80),
	}
	m.form.Index = findFieldIndexByKey(m.form, "audio_format")
	if m.form.Index < 0 {
		t.Fatal("audio_format field not found")
	}
	if got := m.form.currentField().Value; got != "mp3" {
		t.Fatalf("expected default mp3, got %q", got)
	}

	model, _ := m.updateForm(tea.KeyMsg{Type: tea.KeyRight})
	m2 := model.(panelModel)
	if got := m2.form.currentField().Value; got != "m4a" {
		t.Fatalf("expected m4a after right, got %q", got)
	}

	model, _ = m2.updateForm(tea.KeyMsg{Type: tea.KeyLeft})
	m3 := model.(panelModel)
	if got := m3.form.currentField().Value; got != "mp3" {
		t.Fatalf("expected mp3 after left, got %q", got)
	}
}

func TestPanelFormRequiresURL(t *testing.T) {
	f := newPanelForm(80)
	if _, _, err := f.toSubmitOptions(); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestPanelFormAudioDefaults(t *testing.T) {
	f := newPanelForm(80)
	setFieldValue(f, "url", "https://example.com/watch?v=abc")

	opts, isPlaylist, err := f.toSubmitOptions()
	if err != nil {
		t.Fatalf("toSubmitOptions: %v", err)
	}
	if isPlaylist {
		t.Fatal("expected single download, not playlist")
	}
	if opts.Type != "audio" || opts.Format != "mp3" || opts.Quality != "0" {
		t.Fatalf("unexpected display meta: %q %q %q", opts.Type, opts.Format, opts.Quality)
	}
	if opts.Advanced.KeepVideo {
		t.Fatal("audio mode must not set keepVideo")
	}
	if opts.Advanced.AudioFormat != "mp3" || !opts.Advanced.EmbedThumbnail || !opts.Advanced.AddMetadata {
		t.Fatalf("unexpected audio options: %+v", opts.Advanced)
	}
}

func TestPanelFormVideoMode(t *testing.T) {
	f := newPanelForm(80)
	setFieldValue(f, "url", "https://example.com/watch?v=abc")
	setFieldValue(f, "mode", "video")
	setFieldValue(f, "video_quality", "720p")
	setFieldValue(f, "video_format", "mp4")

	opts, _, err := f.toSubmitOptions()
	if err != nil {
		t.Fatalf("toSubmitOptions: %v", err)
	}
	if opts.Type != "video" || opts.Format != "mp4" || opts.Quality != "720p" {
		t.Fatalf("unexpected display meta: %q %q %q", opts.Type, opts.Format, opts.Quality)
	}
	if !opts.Advanced.KeepVideo || opts.Advanced.VideoQuality != "720p" || opts.Advanced.VideoFormat != "mp4" {
		t.Fatalf("unexpected video options: %+v", opts.Advanced)
	}
	if opts.Advanced.AudioFormat != "" {
		t.Fatalf("video mode must not carry audio format, got %q", opts.Advanced.AudioFormat)
	}
}

func TestPanelFormPlaylistItems(t *testing.T) {
	f := newPanelForm(80)
	setFieldValue(f, "url", "https://example.com/playlist?list=x")
	setFieldValue(f, "items", "1-3,5")

	opts, isPlaylist, err := f.toSubmitOptions()
	if err != nil {
		t.Fatalf("toSubmitOptions: %v", err)
	}
	if !isPlaylist {
		t.Fatal("expected playlist submission when items set")
	}
	if opts.ItemRange != "1-3,5" {
		t.Fatalf("unexpected item range %q", opts.ItemRange)
	}

	setFieldValue(f, "items", "1-")
	if _, _, err := f.toSubmitOptions(); err == nil {
		t.Fatal("expected error for malformed item range")
	}
}

func findFieldIndexByKey(f *panelForm, key string) int {
	if f == nil {
		return -1
	}
	for i, field := range f.Fields {
		if field.Key == key {
			return i
		}
	}
	return -1
}

func setFieldValue(f *panelForm, key, value string) {
	idx := findFieldIndexByKey(f, key)
	if idx >= 0 {
		f.Fields[idx].Value = value
	}
}
