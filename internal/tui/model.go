package tui

import (
	"log/slog"

	"github.com/Mr-Dark-debug/lobsters/internal/browser"
	"github.com/Mr-Dark-debug/lobsters/internal/format"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/render"
	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/Mr-Dark-debug/lobsters/internal/viewport"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultScrollStep is how many columns one horizontal scroll moves.
const DefaultScrollStep = 10

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Options configures a Model. Zero fields take defaults.
type Options struct {
	Formatter  format.Formatter
	Opener     browser.Opener
	Keys       *KeyMap
	ScrollStep int
	Logger     *slog.Logger
}

// Model is the root BubbleTea model of the story viewer. It owns the
// selection state and the formatted lines, and draws them with a
// render.Renderer on every View.
type Model struct {
	stories    []lobsters.Story
	formatter  format.Formatter
	renderer   render.Renderer
	opener     browser.Opener
	keys       KeyMap
	scrollStep int
	logger     *slog.Logger

	state *viewport.State
	lines []text.Line

	width  int
	height int

	err error
}

// NewModel creates a viewer for stories with the first story selected.
// It fails with viewport.ErrNoItems for an empty list and with the
// formatter's error when a story cannot be formatted.
func NewModel(stories []lobsters.Story, opts Options) (Model, error) {
	state, err := viewport.New(len(stories))
	if err != nil {
		return Model{}, err
	}

	m := Model{
		stories:    stories,
		formatter:  opts.Formatter,
		renderer:   render.Renderer{Frame: render.ProgramFrame},
		opener:     opts.Opener,
		keys:       DefaultKeyMap(),
		scrollStep: opts.ScrollStep,
		logger:     opts.Logger,
		state:      state,
	}
	if opts.Keys != nil {
		m.keys = *opts.Keys
	}
	if m.opener == nil {
		m.opener = browser.System{}
	}
	if m.scrollStep <= 0 {
		m.scrollStep = DefaultScrollStep
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Selected returns the index of the selected story.
func (m Model) Selected() int { return m.state.Selected() }

// RowOffset returns the first visible row.
func (m Model) RowOffset() int { return m.state.RowOffset() }

// ColOffset returns the horizontal scroll in columns.
func (m Model) ColOffset() int { return m.state.ColOffset() }

// Lines returns the formatted lines for the current selection.
func (m Model) Lines() []text.Line { return m.lines }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

// openedMsg reports the outcome of handing a URL to the opener.
type openedMsg struct {
	url string
	err error
}

// ────────────────────────────────────────────────────────────
// Init / Update
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if err := m.state.Reconcile(m.height); err != nil {
			return m.fail(err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleAction(m.keys.Action(msg))

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("could not open url", "url", msg.url, "error", msg.err)
		} else {
			m.logger.Debug("opened url", "url", msg.url)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleAction(a Action) (tea.Model, tea.Cmd) {
	switch a {
	case ActionQuit:
		return m, tea.Quit

	case ActionNext:
		if m.state.SelectNext() {
			return m.selectionChanged()
		}

	case ActionPrev:
		if m.state.SelectPrev() {
			return m.selectionChanged()
		}

	case ActionScrollRight:
		m.state.ScrollH(m.scrollStep)

	case ActionScrollLeft:
		m.state.ScrollH(-m.scrollStep)

	case ActionOpenTarget:
		return m, m.open(m.stories[m.state.Selected()].TargetURL())

	case ActionOpenComments:
		return m, m.open(m.stories[m.state.Selected()].CommentsURL)
	}
	return m, nil
}

func (m Model) selectionChanged() (tea.Model, tea.Cmd) {
	if err := m.refresh(); err != nil {
		return m.fail(err)
	}
	if m.height > 0 {
		if err := m.state.Reconcile(m.height); err != nil {
			return m.fail(err)
		}
	}
	return m, nil
}

// refresh rebuilds the lines so the highlight follows the selection.
func (m *Model) refresh() error {
	lines, err := m.formatter.FormatAll(m.stories, m.state.Selected())
	if err != nil {
		return err
	}
	m.lines = lines
	return nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.logger.Error("viewer stopped", "error", err)
	m.err = err
	return m, tea.Quit
}

func (m Model) open(url string) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		return openedMsg{url: url, err: opener.Open(url)}
	}
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.err != nil {
		return ""
	}
	if m.width == 0 {
		return loadingStyle.Render("Loading stories...")
	}

	out, err := m.renderer.RenderString(m.lines, m.state.RowOffset(), m.state.ColOffset(),
		render.Size{Width: m.width, Height: m.height})
	if err != nil {
		return ""
	}
	return out
}
