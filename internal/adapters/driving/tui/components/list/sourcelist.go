// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/normaq/internal/core/domain"
)

// SourceList displays the documents an answer was built from.
type SourceList struct {
	documents []domain.Document
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewSourceList creates an empty source list.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *SourceList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.documents)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.documents))), "")

	// Each entry takes two lines.
	visibleCount := (l.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.documents) {
		end = len(l.documents)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderDocument(i, &l.documents[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *SourceList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	maxTitleLen := l.width - 24
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title, cut := domain.Truncate(doc.Title, maxTitleLen-len(domain.Ellipsis))
	if cut {
		title += domain.Ellipsis
	}

	score := "-"
	scoreStyle := l.styles.Muted
	if doc.Similarity != nil {
		score = fmt.Sprintf("%.2f", *doc.Similarity)
		scoreStyle = l.styles.Similarity(*doc.Similarity)
	}

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(fmt.Sprintf("%s%d. %-*s  %s", indicator, index+1, maxTitleLen, title, score))
	} else {
		titleLine = l.styles.Normal.Render(fmt.Sprintf("%s%d. %-*s  ", indicator, index+1, maxTitleLen, title)) +
			scoreStyle.Render(score)
	}

	maxPreviewLen := l.width - 20
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	preview, cut := domain.Truncate(strings.Join(strings.Fields(doc.Content), " "), maxPreviewLen)
	if cut {
		preview += domain.Ellipsis
	}

	return titleLine + "\n" +
		l.styles.Kind.Render("     ["+doc.Kind.String()+"] ") +
		l.styles.Muted.Render(preview)
}

// SetDocuments replaces the list contents and resets the selection.
func (l *SourceList) SetDocuments(docs []domain.Document) {
	l.documents = docs
	l.selected = 0
}

// Documents returns the current documents.
func (l *SourceList) Documents() []domain.Document {
	return l.documents
}

// Selected returns the index of the selected document.
func (l *SourceList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SourceList) SetSelected(index int) {
	if index >= 0 && index < len(l.documents) {
		l.selected = index
	}
}

// SelectedDocument returns the selected document, or nil if none.
func (l *SourceList) SelectedDocument() *domain.Document {
	if l.selected < 0 || l.selected >= len(l.documents) {
		return nil
	}
	return &l.documents[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of documents.
func (l *SourceList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *SourceList) IsEmpty() bool {
	return len(l.documents) == 0
}
