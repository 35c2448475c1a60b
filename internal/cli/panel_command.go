package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"songs-downloader/internal/api"
	"songs-downloader/internal/manager"
	"songs-downloader/internal/model"
	"songs-downloader/internal/registry"
	"songs-downloader/internal/store"
)

type panelMode int

const (
	panelModeBrowse panelMode = iota
	panelModeForm
	panelModeConfirmRemove
)

type panelFieldKind int

const (
	panelFieldString panelFieldKind = iota
	panelFieldBool
	panelFieldSelect
)

type panelFormField struct {
	Key      string
	Label    string
	Help     string
	Kind     panelFieldKind
	Value    string
	Options  []string
	Required bool
}

type panelForm struct {
	Fields     []panelFormField
	Index      int
	Input      textinput.Model
	Error      string
	Submitting bool
}

// panelStyles is the theme-dependent chrome. Both palettes carry the same
// roles so the render code never branches on the theme name.
type panelStyles struct {
	title lipgloss.Style
	muted lipgloss.Style
	error lipgloss.Style
	ok    lipgloss.Style
	sel   lipgloss.Style
	panel lipgloss.Style
}

func panelStylesFor(theme string) panelStyles {
	if theme == store.ThemeLight {
		return panelStyles{
			title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("89")),
			muted: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			error: lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("22")).Bold(true),
			sel:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("133")).Bold(true),
			panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return panelStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		sel:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true),
		panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

type panelModel struct {
	app    *app
	theme  string
	styles panelStyles

	jobs     []model.Job
	counters registry.Counters
	cursor   int
	width    int
	height   int
	mode     panelMode
	form     *panelForm
	bar      progress.Model

	confirmRemoveKey string
	statusMessage    string
	fatalErr         error
}

type panelTickMsg time.Time

type panelSubmitMsg struct {
	key string
	err error
}

// panelRefreshInterval drives the re-render of in-flight progress. The poll
// loops update the registry on their own cadence; this only repaints.
const panelRefreshInterval = 500 * time.Millisecond

func runManagerPanel(args []string) error {
	fs := flag.NewFlagSet("manager", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("manager requires an interactive terminal (TTY)")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	// Re-attach poll loops for entries that were still active when the last
	// instance exited.
	a.manager.ResumeActive(context.Background())

	theme := a.store.LoadTheme()
	m := panelModel{
		app:    a,
		theme:  theme,
		styles: panelStylesFor(theme),
		mode:   panelModeBrowse,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
	m.reload()

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("manager requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(panelModel); ok {
		return fm.fatalErr
	}
	return nil
}

func (m *panelModel) reload() {
	m.jobs = sortedJobs(m.app.manager.Snapshot())
	m.counters = m.app.manager.Rollup()
	if len(m.jobs) == 0 {
		m.cursor = 0
	} else if m.cursor > len(m.jobs)-1 {
		m.cursor = len(m.jobs) - 1
	}
}

func panelTick() tea.Cmd {
	return tea.Tick(panelRefreshInterval, func(t time.Time) tea.Msg {
		return panelTickMsg(t)
	})
}

func (m panelModel) Init() tea.Cmd {
	return panelTick()
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form.Input.Width = clampInt(m.width-8, 20, 120)
		}
		return m, nil
	case panelTickMsg:
		m.reload()
		return m, panelTick()
	case panelSubmitMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.Error = msg.err.Error()
				m.form.Submitting = false
			}
			return m, nil
		}
		m.mode = panelModeBrowse
		m.form = nil
		m.statusMessage = "submitted: " + msg.key
		m.reload()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case panelModeBrowse:
		return m.updateBrowse(keyMsg)
	case panelModeForm:
		return m.updateForm(keyMsg)
	case panelModeConfirmRemove:
		return m.updateConfirmRemove(keyMsg)
	default:
		return m, nil
	}
}

func (m panelModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.jobs)-1 {
			m.cursor++
		}
		return m, nil
	case "n":
		m.mode = panelModeForm
		m.form = newPanelForm(m.width)
		m.statusMessage = ""
		return m, nil
	case "c":
		if job, ok := m.selectedJob(); ok {
			if !model.IsActive(job.Status) {
				m.statusMessage = "not active: " + job.ID
				return m, nil
			}
			m.app.manager.Cancel(job.ID)
			m.statusMessage = "cancelled: " + job.ID
			m.reload()
		}
		return m, nil
	case "d":
		if job, ok := m.selectedJob(); ok {
			m.mode = panelModeConfirmRemove
			m.confirmRemoveKey = job.ID
		}
		return m, nil
	case "f":
		before := m.counters.Total
		m.app.manager.ClearFinished()
		m.reload()
		m.statusMessage = fmt.Sprintf("cleared %d finished", before-m.counters.Total)
		return m, nil
	case "s":
		n := m.app.manager.ActiveCount()
		m.app.manager.StopAll()
		m.reload()
		m.statusMessage = fmt.Sprintf("stopped %d active", n)
		return m, nil
	case "t":
		if m.theme == store.ThemeDark {
			m.theme = store.ThemeLight
		} else {
			m.theme = store.ThemeDark
		}
		m.styles = panelStylesFor(m.theme)
		if err := m.app.store.SaveTheme(m.theme); err != nil {
			m.statusMessage = "error: " + err.Error()
		} else {
			m.statusMessage = "theme: " + m.theme
		}
		return m, nil
	case "r":
		m.reload()
		return m, nil
	}
	return m, nil
}

func (m panelModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = panelModeBrowse
		return m, nil
	}
	if m.form.Submitting {
		return m, nil
	}

	key := strings.ToLower(msg.String())
	switch key {
	case "ctrl+c", "esc":
		m.mode = panelModeBrowse
		m.form = nil
		m.statusMessage = "submission cancelled"
		return m, nil
	case "up", "shift+tab":
		m.form.commitInput()
		if m.form.Index > 0 {
			m.form.Index--
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case "down", "tab":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 {
			m.form.Index++
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case " ", "space", "left", "right", "h", "l":
		switch m.form.currentField().Kind {
		case panelFieldBool:
			m.form.toggleBoolField()
			return m, nil
		case panelFieldSelect:
			if key == "left" || key == "h" {
				m.form.prevSelectOption()
			} else {
				m.form.nextSelectOption()
			}
			return m, nil
		}
	case "y":
		if m.form.currentField().Kind == panelFieldBool {
			m.form.setBoolField(true)
			return m, nil
		}
	case "n":
		if m.form.currentField().Kind == panelFieldBool {
			m.form.setBoolField(false)
			return m, nil
		}
	case "enter", "ctrl+s":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 && key != "ctrl+s" {
			m.form.Index++
			m.form.loadFieldIntoInput()
			return m, nil
		}
		opts, isPlaylist, err := m.form.toSubmitOptions()
		if err != nil {
			m.form.Error = err.Error()
			return m, nil
		}
		m.form.Error = ""
		m.form.Submitting = true
		return m, submitDownloadCmd(m.app, opts, isPlaylist)
	}

	kind := m.form.currentField().Kind
	if kind == panelFieldBool || kind == panelFieldSelect {
		return m, nil
	}
	var cmd tea.Cmd
	m.form.Input, cmd = m.form.Input.Update(msg)
	m.form.Fields[m.form.Index].Value = m.form.Input.Value()
	return m, cmd
}

func (m panelModel) updateConfirmRemove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "n":
		m.mode = panelModeBrowse
		m.confirmRemoveKey = ""
		m.statusMessage = "remove cancelled"
		return m, nil
	case "y", "enter":
		key := strings.TrimSpace(m.confirmRemoveKey)
		m.mode = panelModeBrowse
		m.confirmRemoveKey = ""
		if key == "" {
			m.statusMessage = "remove cancelled"
			return m, nil
		}
		m.app.manager.Remove(key)
		m.statusMessage = "removed: " + key
		m.reload()
		return m, nil
	}
	return m, nil
}

func (m panelModel) selectedJob() (model.Job, bool) {
	if len(m.jobs) == 0 || m.cursor < 0 || m.cursor >= len(m.jobs) {
		return model.Job{}, false
	}
	return m.jobs[m.cursor], true
}

func (m panelModel) View() string {
	if m.fatalErr != nil {
		return m.styles.error.Render("fatal: " + m.fatalErr.Error())
	}
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	switch m.mode {
	case panelModeForm:
		return m.viewForm()
	case panelModeConfirmRemove:
		return m.viewConfirmRemove()
	default:
		return m.viewBrowse()
	}
}

func (m panelModel) viewBrowse() string {
	header := m.styles.title.Render("songs-downloader manager") + "\n" +
		m.styles.muted.Render("up/down: move | n: new download | c: cancel | d: remove | f: clear finished | s: stop all | t: theme | q: quit")

	if m.width < 90 {
		list := m.renderListPanel(m.width)
		details := m.renderDetailsPanel(m.width)
		body := lipgloss.JoinVertical(lipgloss.Left, list, details)
		status := m.renderStatusLine(m.width)
		return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
	}

	leftW := clampInt(m.width/2, 34, 64)
	rightW := m.width - leftW - 1
	list := m.renderListPanel(leftW)
	details := m.renderDetailsPanel(rightW)
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, details)
	status := m.renderStatusLine(m.width)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func statusGlyph(status string) string {
	switch status {
	case model.StatusQueued:
		return "."
	case model.StatusDownloading:
		return ">"
	case model.StatusComplete:
		return "+"
	case model.StatusError:
		return "!"
	case model.StatusCancelled:
		return "x"
	default:
		return "?"
	}
}

func (m panelModel) renderListPanel(width int) string {
	total := len(m.jobs)
	maxRows := clampInt(m.height-12, 4, 20)
	start, end := listWindow(total, m.cursor, maxRows)

	lines := make([]string, 0, maxRows+3)
	if total == 0 {
		lines = append(lines, m.styles.muted.Render("No downloads tracked."))
		lines = append(lines, m.styles.muted.Render("Press n to submit one."))
	}
	if start > 0 {
		lines = append(lines, m.styles.muted.Render("..."))
	}
	for i := start; i < end; i++ {
		job := m.jobs[i]
		title := defaultIfEmpty(job.Title, job.URL)
		line := fmt.Sprintf("[%s] %s  %s", statusGlyph(job.Status), title, job.Status)
		if job.Status == model.StatusDownloading {
			line = fmt.Sprintf("%s %d%%", line, job.Progress)
		}
		line = truncateRunes(line, maxInt(width-6, 10))
		if i == m.cursor {
			line = m.styles.sel.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < total {
		lines = append(lines, m.styles.muted.Render("..."))
	}

	return m.styles.panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (m panelModel) renderDetailsPanel(width int) string {
	lines := []string{}
	job, ok := m.selectedJob()
	if !ok {
		lines = append(lines, "No download selected")
		lines = append(lines, "")
		lines = append(lines, "Press n to open the submission form.")
	} else {
		lines = append(lines, "Download Details")
		lines = append(lines, "")
		lines = append(lines, kv("key", job.ID))
		if job.RemoteID != "" {
			lines = append(lines, kv("remote_id", job.RemoteID))
		}
		lines = append(lines, kv("title", defaultIfEmpty(job.Title, "(none)")))
		lines = append(lines, kv("url", defaultIfEmpty(job.URL, "(none)")))
		lines = append(lines, kv("status", job.Status))
		lines = append(lines, kv("type", defaultIfEmpty(job.Type, "audio")))
		if job.Format != "" {
			lines = append(lines, kv("format", job.Format))
		}
		if job.Quality != "" {
			lines = append(lines, kv("quality", job.Quality))
		}
		if job.ItemRange != "" {
			lines = append(lines, kv("items", job.ItemRange))
		}
		switch job.Status {
		case model.StatusDownloading, model.StatusQueued:
			lines = append(lines, "")
			lines = append(lines, m.bar.ViewAs(float64(job.Progress)/100))
		case model.StatusComplete:
			if job.DownloadURL != "" {
				lines = append(lines, kv("file", job.DownloadURL))
			}
		case model.StatusError:
			lines = append(lines, m.styles.error.Render(kv("error", job.Error)))
		}
	}

	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return m.styles.panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (m panelModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		c := m.counters
		msg = fmt.Sprintf("%d tracked: %d queued, %d downloading, %d complete, %d error, %d cancelled",
			c.Total, c.Queued, c.Downloading, c.Complete, c.Errored, c.Cancelled)
	}
	style := m.styles.muted
	if strings.HasPrefix(strings.ToLower(msg), "error:") {
		style = m.styles.error
	} else if strings.HasPrefix(strings.ToLower(msg), "submitted") {
		style = m.styles.ok
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}

func (m panelModel) viewForm() string {
	if m.form == nil {
		return ""
	}
	header := m.styles.title.Render("New Download")
	hints := m.styles.muted.Render("tab/shift+tab or up/down: move | left/right/space: toggle | y/n: set yes/no | enter: next/submit | ctrl+s: submit | esc: cancel")

	lines := make([]string, 0, len(m.form.Fields)+6)
	for i, f := range m.form.Fields {
		prefix := "  "
		if i == m.form.Index {
			prefix = "> "
		}
		display := strings.TrimSpace(f.Value)
		if f.Kind == panelFieldBool {
			v, _ := parseBool(display)
			display = yesNo(v)
		}
		if display == "" {
			display = m.styles.muted.Render("(empty)")
		}
		if f.Kind == panelFieldSelect {
			display = "[" + display + "]"
		}
		line := fmt.Sprintf("%s%s: %s", prefix, f.Label, display)
		lines = append(lines, wrapOrTrim(line, maxInt(m.width-6, 20)))
	}

	curr := m.form.currentField()
	inputLabel := fmt.Sprintf("\n%s\n", curr.Label)
	inputHelp := ""
	if strings.TrimSpace(curr.Help) != "" {
		inputHelp = m.styles.muted.Render(curr.Help) + "\n"
	}
	input := m.form.Input.View()
	status := ""
	if m.form.Submitting {
		status = m.styles.muted.Render("\nSubmitting...")
	}
	if strings.TrimSpace(m.form.Error) != "" {
		status = "\n" + m.styles.error.Render(m.form.Error)
	}

	panel := m.styles.panel.Width(maxInt(m.width, 40)).Render(strings.Join(lines, "\n") + inputLabel + inputHelp + input + status)
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, panel)
}

func (m panelModel) viewConfirmRemove() string {
	text := fmt.Sprintf(
		"Remove download '%s'?\n\nThis drops it from local tracking only.\nThe backend keeps any finished file.\n\nPress y or Enter to confirm, n or Esc to cancel.",
		m.confirmRemoveKey,
	)
	boxW := clampInt(m.width-8, 36, 80)
	boxH := clampInt(m.height-6, 9, 14)
	panel := m.styles.panel.Width(boxW).Height(boxH).Render(text)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func submitDownloadCmd(a *app, opts manager.SingleOptions, isPlaylist bool) tea.Cmd {
	return func() tea.Msg {
		var key string
		var err error
		if isPlaylist {
			key, _, err = a.manager.SubmitPlaylist(context.Background(), opts)
		} else {
			key, _, err = a.manager.SubmitSingle(context.Background(), opts)
		}
		if err != nil {
			return panelSubmitMsg{err: err}
		}
		return panelSubmitMsg{key: key}
	}
}

func newPanelForm(width int) *panelForm {
	f := &panelForm{
		Fields: []panelFormField{
			{Key: "url", Label: "URL", Help: "Track, video, or playlist URL", Kind: panelFieldString, Required: true},
			{Key: "title", Label: "Title", Help: "Optional display title", Kind: panelFieldString},
			{Key: "mode", Label: "Mode", Help: "Audio extracts the track; video keeps the picture", Kind: panelFieldSelect, Value: "audio", Options: []string{"audio", "video"}},
			{Key: "audio_format", Label: "Audio Format", Help: "Ignored in video mode", Kind: panelFieldSelect, Value: "mp3", Options: []string{"mp3", "m4a", "opus", "flac", "wav"}},
			{Key: "audio_quality", Label: "Audio Quality", Help: "0 best .. 9 worst; ignored in video mode", Kind: panelFieldSelect, Value: "0", Options: []string{"0", "2", "5", "9"}},
			{Key: "video_quality", Label: "Video Quality", Help: "Ignored in audio mode", Kind: panelFieldSelect, Value: "best", Options: []string{"best", "1080p", "720p"}},
			{Key: "video_format", Label: "Video Format", Help: "Ignored in audio mode", Kind: panelFieldSelect, Value: "mkv", Options: []string{"mkv", "mp4"}},
			{Key: "embed_thumbnail", Label: "Embed Thumbnail", Help: "Audio mode only", Kind: panelFieldBool, Value: "y"},
			{Key: "add_metadata", Label: "Add Metadata", Help: "Write track tags", Kind: panelFieldBool, Value: "y"},
			{Key: "embed_subtitles", Label: "Embed Subtitles", Help: "Video mode only", Kind: panelFieldBool, Value: "n"},
			{Key: "items", Label: "Playlist Items", Help: "Optional range like 1-5 or 1,3,5; empty downloads everything", Kind: panelFieldString},
		},
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 1024
	input.Width = clampInt(width-8, 20, 120)
	f.Input = input
	f.loadFieldIntoInput()
	f.Input.Focus()
	return f
}

func (f *panelForm) currentField() panelFormField {
	if len(f.Fields) == 0 {
		return panelFormField{}
	}
	if f.Index < 0 {
		f.Index = 0
	}
	if f.Index >= len(f.Fields) {
		f.Index = len(f.Fields) - 1
	}
	return f.Fields[f.Index]
}

func (f *panelForm) commitInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	f.Fields[f.Index].Value = strings.TrimSpace(f.Input.Value())
}

func (f *panelForm) loadFieldIntoInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	f.Input.SetValue(f.Fields[f.Index].Value)
	f.Input.CursorEnd()
}

func (f *panelForm) toggleBoolField() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != panelFieldBool {
		return
	}
	v, ok := parseBool(curr.Value)
	if !ok {
		v = false
	}
	curr.Value = boolToYN(!v)
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *panelForm) setBoolField(v bool) {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != panelFieldBool {
		return
	}
	curr.Value = boolToYN(v)
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *panelForm) nextSelectOption() {
	f.stepSelectOption(1)
}

func (f *panelForm) prevSelectOption() {
	f.stepSelectOption(-1)
}

func (f *panelForm) stepSelectOption(delta int) {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != panelFieldSelect || len(curr.Options) == 0 {
		return
	}
	current := strings.TrimSpace(curr.Value)
	pos := 0
	for i, opt := range curr.Options {
		if strings.EqualFold(opt, current) {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(curr.Options)) % len(curr.Options)
	curr.Value = curr.Options[pos]
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *panelForm) toSubmitOptions() (manager.SingleOptions, bool, error) {
	if f == nil {
		return manager.SingleOptions{}, false, errors.New("internal form error")
	}
	vals := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		v := strings.TrimSpace(field.Value)
		if field.Required && v == "" {
			return manager.SingleOptions{}, false, fmt.Errorf("%s is required", strings.ToLower(field.Label))
		}
		switch field.Kind {
		case panelFieldBool:
			if _, ok := parseBool(v); !ok {
				return manager.SingleOptions{}, false, fmt.Errorf("%s must be y or n", strings.ToLower(field.Label))
			}
		case panelFieldSelect:
			matched := false
			for _, opt := range field.Options {
				if strings.EqualFold(opt, v) {
					v = opt
					matched = true
					break
				}
			}
			if !matched {
				return manager.SingleOptions{}, false, fmt.Errorf("%s has invalid value", strings.ToLower(field.Label))
			}
		}
		vals[field.Key] = v
	}

	items := vals["items"]
	if items != "" {
		if err := manager.ValidatePlaylistRange(items); err != nil {
			return manager.SingleOptions{}, false, err
		}
	}

	video := vals["mode"] == "video"
	embedThumbnail, _ := parseBool(vals["embed_thumbnail"])
	addMetadata, _ := parseBool(vals["add_metadata"])
	embedSubtitles, _ := parseBool(vals["embed_subtitles"])

	advanced := api.AdvancedOptions{KeepVideo: video}
	kind, format, quality := "audio", vals["audio_format"], vals["audio_quality"]
	if video {
		advanced.VideoQuality = vals["video_quality"]
		advanced.VideoFPS = "any"
		advanced.VideoFormat = vals["video_format"]
		advanced.EmbedSubtitles = embedSubtitles
		advanced.AddMetadata = true
		kind, format, quality = "video", vals["video_format"], vals["video_quality"]
	} else {
		advanced.AudioFormat = vals["audio_format"]
		advanced.AudioQuality = vals["audio_quality"]
		advanced.EmbedThumbnail = embedThumbnail
		advanced.AddMetadata = addMetadata
	}

	return manager.SingleOptions{
		URL:       vals["url"],
		Title:     vals["title"],
		Advanced:  advanced,
		Type:      kind,
		Format:    format,
		Quality:   quality,
		ItemRange: items,
	}, items != "", nil
}
