// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// View represents the ask view with question input, answer and sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar

	pipeline driving.RetrievalPipeline
	ctx      context.Context

	limit  int
	result *domain.RetrievalResult

	width      int
	height     int
	ready      bool
	err        error
	asking     bool
	focusInput bool // true = typing a question, false = browsing sources
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, pipeline driving.RetrievalPipeline) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		sources:    list.NewSourceList(s),
		statusbar:  status.NewBar(s, km),
		pipeline:   pipeline,
		ctx:        context.Background(),
		limit:      domain.DefaultResultLimit,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context queries run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// A question is in flight.
	if v.asking {
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			return v, v.ask(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if msg.Type == tea.KeyEnter {
		doc := v.sources.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		id, title := doc.ID, doc.Title
		return v, func() tea.Msg {
			return messages.DocumentSelected{ID: id, Title: title, Origin: messages.ViewAsk}
		}
	}

	switch msg.String() {
	case "up", "k", "down", "j":
		v.sources, _ = v.sources.Update(msg)
	case "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case "+", "=":
		if v.limit < domain.MaxResultLimit {
			v.limit++
		}
	case "-":
		if v.limit > domain.MinResultLimit {
			v.limit--
		}
	}

	return v, nil
}

// ask starts a query and returns the command that runs it.
func (v *View) ask(question string) tea.Cmd {
	v.asking = true
	v.err = nil
	v.statusbar.SetState(status.StateAsking)
	v.statusbar.SetMessage("")
	v.input.Blur()

	pipeline := v.pipeline
	ctx := v.ctx
	q := domain.Query{Question: question, ResultLimit: v.limit}

	return func() tea.Msg {
		if pipeline == nil {
			return messages.AnswerReceived{Err: ErrNoPipeline}
		}
		result, err := pipeline.Query(ctx, q)
		return messages.AnswerReceived{Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.asking = false

	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.result = msg.Result
	v.sources.SetDocuments(msg.Result.Documents)
	v.statusbar.SetSourceCount(len(msg.Result.Documents))
	if msg.Result.ElapsedSeconds != nil {
		v.statusbar.SetElapsed(*msg.Result.ElapsedSeconds)
	}
	if msg.Result.Degraded {
		v.statusbar.SetState(status.StateDegraded)
	} else {
		v.statusbar.SetState(status.StateAnswered)
	}

	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("normaq"), "",
		v.input.View(),
		v.styles.Muted.Render(fmt.Sprintf("  retrieving up to %d documents  [+/-] change", v.limit)), "",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		sections = append(sections, v.renderAnswer(), "", v.sources.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() string {
	width := v.width - 4
	if width < 20 {
		width = 20
	}

	answer := v.styles.Answer.Width(width).Render(strings.TrimSpace(v.result.Answer))
	if !v.result.Degraded {
		footer := ""
		if v.result.ModelName != nil {
			footer = "  " + *v.result.ModelName
		}
		return answer + "\n" + v.styles.Muted.Render(footer)
	}
	return answer + "\n" + v.styles.Degraded.Render("  The generation model did not answer. Showing retrieved documents only.")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Reserve room for header, input, answer and status bar.
	v.sources.SetDimensions(width, height-14)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current question text.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the question text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Result returns the last answer, or nil.
func (v *View) Result() *domain.RetrievalResult {
	return v.result
}

// Limit returns the number of documents a question retrieves.
func (v *View) Limit() int {
	return v.limit
}

// SelectedIndex returns the index of the selected source.
func (v *View) SelectedIndex() int {
	return v.sources.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.focusInput = true
	v.asking = false
	v.input.Focus()
	v.input.SetValue("")
	v.sources.SetDocuments(nil)
	v.result = nil
	v.err = nil
	v.statusbar.Clear()
}
