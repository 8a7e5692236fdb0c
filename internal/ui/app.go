package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/designtutor/internal/emoji"
	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/logger"
	"github.com/yildizm/designtutor/internal/render"
	"github.com/yildizm/designtutor/internal/session"
	"github.com/yildizm/designtutor/internal/ui/components"
)

const (
	sidebarWidth  = 30
	defaultWidth  = 100
	defaultHeight = 30
)

// Locales is the locale collaborator of the UI
type Locales interface {
	locale.Provider
	locale.Translator
	Next() string
	Name(tag string) string
}

// CopyRecorder counts copy actions
type CopyRecorder interface {
	CopyPerformed()
}

// Options configures the application model
type Options struct {
	Orchestrator *session.Orchestrator
	Renderer     *render.Renderer
	Locales      Locales
	Clipboard    render.Clipboard
	Recorder     CopyRecorder
	Theme        Theme

	// CopyFeedback is how long a copied block keeps its badge
	CopyFeedback time.Duration

	// InitialPath is uploaded as soon as the program starts
	InitialPath string

	Logger *logger.Logger
}

// Model is the Bubble Tea model of the tutor. Update is the only place the
// session changes; uploads and copies run as commands.
type Model struct {
	opts   Options
	styles *Styles
	keys   keyMap

	session session.Session
	notice  string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	doc      *render.Document
	summary  render.Summary
	layout   *render.Layout
	selected int
	feedback *render.CopyFeedback

	width  int
	height int
}

// NewModel creates the model in the upload screen
func NewModel(opts Options) (*Model, error) {
	if opts.Orchestrator == nil {
		return nil, errors.New("ui: orchestrator is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("ui: renderer is required")
	}
	if opts.Locales == nil {
		return nil, errors.New("ui: locales are required")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = render.SystemClipboard{}
	}
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = render.DefaultCopyFeedback
	}
	if opts.Theme.Name == "" {
		opts.Theme = DefaultTheme
	}

	styles := NewStyles(opts.Theme)

	ti := textinput.New()
	ti.Prompt = emoji.GetEmoji("upload") + " "
	ti.Placeholder = opts.Locales.T("upload.placeholder")
	ti.CharLimit = 4096
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(opts.Theme.Primary)

	m := &Model{
		opts:     opts,
		styles:   styles,
		keys:     keys,
		session:  opts.Orchestrator.Session(),
		input:    ti,
		spinner:  s,
		viewport: viewport.New(defaultWidth-sidebarWidth-1, defaultHeight-4),
		help:     help.New(),
		selected: -1,
		feedback: render.NewCopyFeedback(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	return m, nil
}

// Session returns the snapshot the model last rendered
func (m *Model) Session() session.Session {
	return m.session
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if path := m.opts.InitialPath; path != "" {
		cmds = append(cmds, func() tea.Msg { return submitMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitMsg:
		return m, m.upload(msg.path)

	case resolutionMsg:
		return m.handleResolution(session.Resolution(msg))

	case copyDoneMsg:
		return m.handleCopyDone(msg)

	case copyExpiredMsg:
		if m.feedback.Expire(msg.index, msg.gen) {
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.Phase != session.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// inputActive reports whether keystrokes go to the path input
func (m *Model) inputActive() bool {
	return m.session.Phase != session.PhaseResult
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlL {
		m.switchLocale()
		return m, nil
	}

	if m.inputActive() {
		switch msg.Type {
		case tea.KeyEnter:
			return m, m.upload(m.input.Value())
		case tea.KeyEsc:
			if m.session.Phase == session.PhaseIdle {
				m.input.SetValue("")
				m.notice = ""
				return m, nil
			}
			return m, m.reset()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		return m, m.reset()
	case key.Matches(msg, m.keys.Locale):
		m.switchLocale()
		return m, nil
	case key.Matches(msg, m.keys.NextCode):
		m.focus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCode):
		m.focus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// upload hands path to the orchestrator and schedules its tasks. A
// rejected file only sets the notice.
func (m *Model) upload(path string) tea.Cmd {
	path = cleanPath(path)
	if path == "" {
		return nil
	}

	_, tasks, err := m.opts.Orchestrator.Upload(path)
	if err != nil {
		m.notice = m.opts.Orchestrator.Rejection(err)
		return nil
	}

	m.notice = ""
	m.session = m.opts.Orchestrator.Session()
	m.clearResult()
	return tea.Batch(taskCmds(tasks), m.spinner.Tick)
}

func (m *Model) handleResolution(res session.Resolution) (tea.Model, tea.Cmd) {
	sess, changed := m.opts.Orchestrator.Apply(res)
	if !changed {
		return m, nil
	}
	m.session = sess

	if res.Kind == session.AnalysisResolved && sess.Phase == session.PhaseResult {
		m.showResult()
	}
	return m, nil
}

func (m *Model) showResult() {
	m.input.Blur()
	m.doc = render.Parse(m.session.Result.Tutorial)
	m.summary = render.Summarize(m.session.Result, m.opts.Locales)
	m.selected = -1
	m.feedback.Clear()
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) clearResult() {
	m.doc = nil
	m.layout = nil
	m.summary = render.Summary{}
	m.selected = -1
	m.feedback.Clear()
	m.viewport.SetContent("")
}

func (m *Model) reset() tea.Cmd {
	m.session = m.opts.Orchestrator.Reset()
	m.clearResult()
	m.notice = ""
	m.input.SetValue("")
	m.input.Focus()
	return textinput.Blink
}

// switchLocale activates the next catalog. Uploads started afterwards
// carry the new locale; the current result is only relabeled.
func (m *Model) switchLocale() {
	next := m.opts.Locales.Next()
	if err := m.opts.Locales.SetLocale(next); err != nil {
		m.opts.Logger.Warn("locale switch failed: %v", err)
		return
	}
	m.input.Placeholder = m.opts.Locales.T("upload.placeholder")
	if m.doc != nil {
		m.summary = render.Summarize(m.session.Result, m.opts.Locales)
		m.refresh()
	}
}

// focus moves the code block selection by delta, wrapping around, and
// scrolls the block into view
func (m *Model) focus(delta int) {
	if m.doc == nil || len(m.doc.Blocks) == 0 {
		return
	}

	n := len(m.doc.Blocks)
	switch {
	case m.selected < 0 && delta > 0:
		m.selected = 0
	case m.selected < 0:
		m.selected = n - 1
	default:
		m.selected = ((m.selected+delta)%n + n) % n
	}

	m.refresh()
	if m.layout != nil && m.selected < len(m.layout.BlockLines) {
		m.viewport.SetYOffset(m.layout.BlockLines[m.selected])
	}
}

func (m *Model) copySelected() tea.Cmd {
	if m.doc == nil || len(m.doc.Blocks) == 0 {
		return nil
	}
	if m.selected < 0 {
		m.focus(1)
	}

	doc, index := m.doc, m.selected
	block := doc.Block(index)
	clip := m.opts.Clipboard
	return func() tea.Msg {
		return copyDoneMsg{doc: doc, index: index, err: render.Copy(clip, block)}
	}
}

func (m *Model) handleCopyDone(msg copyDoneMsg) (tea.Model, tea.Cmd) {
	if msg.doc != m.doc {
		return m, nil
	}
	if msg.err != nil {
		m.opts.Logger.Warn("copy failed: %v", msg.err)
		m.notice = msg.err.Error()
		return m, nil
	}

	m.notice = ""
	gen := m.feedback.Mark(msg.index)
	if m.opts.Recorder != nil {
		m.opts.Recorder.CopyPerformed()
	}
	m.refresh()
	return m, expireCopy(m.opts.CopyFeedback, msg.index, gen)
}

// refresh re-renders the tutorial into the viewport
func (m *Model) refresh() {
	if m.doc == nil {
		return
	}
	layout, err := m.opts.Renderer.Layout(m.doc, render.BlockState{
		Selected: m.selected,
		Copied:   m.feedback.IsCopied,
	})
	if err != nil {
		m.opts.Logger.Warn("render failed: %v", err)
		m.notice = err.Error()
		return
	}
	m.layout = layout
	m.viewport.SetContent(layout.Content)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.input.Width = max(min(width-10, 60), 10)

	helpHeight := lipgloss.Height(m.help.View(m.keys))
	m.viewport.Width = max(width-sidebarWidth-1, 20)
	m.viewport.Height = max(height-helpHeight-3, 3)
}

// View implements tea.Model
func (m *Model) View() string {
	var body string
	switch m.session.Phase {
	case session.PhaseLoading:
		body = m.viewLoading()
	case session.PhaseError:
		body = m.viewError()
	case session.PhaseResult:
		body = m.viewResult()
	default:
		body = m.viewIdle()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
}

func (m *Model) t(key string) string {
	return m.opts.Locales.T(key)
}

func (m *Model) viewIdle() string {
	s := m.styles
	features := lipgloss.JoinHorizontal(lipgloss.Top,
		m.feature("upload", "features.upload"),
		m.feature("analyze", "features.analyze"),
		m.feature("learn", "features.learn"),
	)

	footer := s.Muted.Render(strings.Join([]string{
		m.t("hero.title"),
		m.t("footer.tagline"),
		emoji.GetEmoji("globe") + " " + m.opts.Locales.Name(m.opts.Locales.Locale()),
	}, " · "))

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(m.t("hero.title")),
		s.Subtitle.Render(m.t("hero.subtitle")),
		"",
		m.uploadBox(m.t("upload.drag")),
		"",
		features,
		"",
		footer,
	)
}

func (m *Model) feature(icon, prefix string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		emoji.GetEmoji(icon)+" "+m.styles.Accent.Render(m.t(prefix+".title")),
		m.styles.Muted.Render(m.t(prefix+".description")),
	)
	return m.styles.Feature.Render(content)
}

// uploadBox is the path input with its hint, format line and any notice
func (m *Model) uploadBox(hint string) string {
	parts := []string{
		hint,
		m.styles.Input.Render(m.input.View()),
		m.styles.Muted.Render(m.t("upload.formats")),
	}
	if m.notice != "" {
		parts = append(parts, m.styles.ErrorBox.Render(emoji.GetEmoji("warning")+" "+m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) previewLine() string {
	if m.session.Preview == nil {
		return ""
	}
	return m.styles.Muted.Render(m.t("tutorial.preview") + ": " + m.session.Preview.Summary())
}

func (m *Model) viewLoading() string {
	parts := []string{
		m.spinner.View() + " " + m.styles.Title.Render(m.t("upload.analyzing")),
		m.styles.Muted.Render(m.t("upload.wait")),
	}
	if line := m.previewLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, "", m.uploadBox(m.t("upload.clickToChange")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewError() string {
	parts := []string{
		m.styles.ErrorBox.Render(emoji.GetEmoji("error") + " " + m.session.ErrorMessage),
	}
	if line := m.previewLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, "", m.uploadBox(m.t("upload.clickToChange")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewResult() string {
	s := m.styles
	header := s.Header.Width(m.width).Render(
		s.Title.Render(m.t("hero.title")) + "  " +
			s.Muted.Render(emoji.GetEmoji("back")+" "+m.t("tutorial.newAnalysis")+" (n)"),
	)

	main := m.viewport.View()
	if m.notice != "" {
		main = lipgloss.JoinVertical(lipgloss.Left, s.ErrorBox.Render(m.notice), main)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, s.Sidebar.Render(m.sidebar()), " ", main),
	)
}

func (m *Model) sidebar() string {
	palette := components.Palette{
		Title:  m.styles.Theme.Primary,
		Value:  m.styles.Theme.Accent,
		Muted:  m.styles.Theme.Muted,
		Border: m.styles.Theme.Border,
	}

	dashboard := components.NewStatsDashboard(1)
	dashboard.AddCard(components.NewStatsCard(m.t("tutorial.estimatedTime"), m.summary.Time).SetIcon(emoji.GetEmoji("time")))
	dashboard.AddCard(components.NewStatsCard(m.t("tutorial.difficulty"), m.summary.Difficulty).SetIcon(emoji.GetEmoji("difficulty")))
	dashboard.AddCard(components.NewStatsCard(m.t("tutorial.components"), m.summary.Detected).SetIcon(emoji.GetEmoji("components")))
	dashboard.SetCardWidth(sidebarWidth - 2)

	parts := []string{}
	if line := m.previewLine(); line != "" {
		parts = append(parts, lipgloss.NewStyle().Width(sidebarWidth-2).Render(line), "")
	}
	parts = append(parts, dashboard.Render(palette))

	list := components.NewComponentList(m.t("tutorial.componentsFound"), m.summary.Components, m.summary.Hidden)
	list.Width = sidebarWidth - 2
	if rendered := list.Render(palette); rendered != "" {
		parts = append(parts, "", rendered)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// cleanPath trims whitespace and the quotes terminals add to dropped files
func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if q := path[0]; (q == '"' || q == '\'') && path[len(path)-1] == q {
			path = path[1 : len(path)-1]
		}
	}
	return path
}
