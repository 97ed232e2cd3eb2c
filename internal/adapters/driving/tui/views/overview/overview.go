// Package overview provides the service status view for the TUI.
package overview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// ErrNoStatusService is returned when no status service is configured.
var ErrNoStatusService = errors.New("status service not available")

// View shows the configured providers and store.
type View struct {
	styles  *styles.Styles
	service driving.StatusService
	ctx     context.Context

	status  *driving.Status
	err     error
	loading bool
	width   int
	height  int
}

// NewView creates a new status view. service may be nil.
func NewView(s *styles.Styles, service driving.StatusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context status probes run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init returns the command that loads the status.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	service := v.service
	ctx := v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.StatusLoaded{Err: ErrNoStatusService}
		}
		st, err := service.Status(ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

// Update handles messages for the status view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.StatusLoaded:
		v.loading = false
		v.status = msg.Status
		v.err = msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.Init()
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the status view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Status"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Checking providers..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.status != nil:
		b.WriteString(v.renderStatus())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] refresh  [esc] back"))
	return b.String()
}

func (v *View) renderStatus() string {
	st := v.status
	rows := [][2]string{
		{"Store", fmt.Sprintf("%s (%s)", st.StoreBackend, st.DistanceMetric)},
		{"Documents", fmt.Sprintf("%d", st.DocumentCount)},
		{"Embedding", fmt.Sprintf("%s, %d dimensions", st.EmbeddingModel, st.EmbeddingDimensions)},
	}

	generation := v.styles.Error.Render("unavailable")
	if st.GenerationAvailable {
		generation = v.styles.Success.Render("available")
	}
	model := st.GenerationModel
	if model == "" {
		model = "not configured"
	}
	rows = append(rows, [2]string{"Generation", model + "  " + generation})

	if len(st.AvailableModels) > 0 {
		rows = append(rows, [2]string{"Models", strings.Join(st.AvailableModels, ", ")})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, v.styles.Subtitle.Render(fmt.Sprintf("%-11s", r[0]))+" "+r[1])
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the last loaded status.
func (v *View) Status() *driving.Status {
	return v.status
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
