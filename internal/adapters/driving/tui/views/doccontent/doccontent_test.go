package doccontent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/normaq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// MockCatalog implements driving.DocumentCatalog for testing.
type MockCatalog struct {
	GetFunc func(ctx context.Context, id string) (*domain.Document, error)
}

func (m *MockCatalog) List(_ context.Context, _, _ *int) (*domain.Page, error) {
	return &domain.Page{}, nil
}

func (m *MockCatalog) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockCatalog) GetPreview(_ context.Context, _ string) (*domain.DocumentPreview, error) {
	return nil, domain.ErrNotFound
}

func (m *MockCatalog) Create(_ context.Context, _ driving.CreateDocumentRequest) (string, error) {
	return "", nil
}

func (m *MockCatalog) Import(_ context.Context, _ []driving.CreateDocumentRequest) ([]string, error) {
	return nil, nil
}

func (m *MockCatalog) Update(_ context.Context, _ string, _ driving.UpdateDocumentRequest) (*domain.Document, error) {
	return nil, nil
}

func (m *MockCatalog) Delete(_ context.Context, _ string) error { return nil }

func (m *MockCatalog) Count(_ context.Context) (int, error) { return 0, nil }

func testDocument(lines int) *domain.Document {
	parts := make([]string, lines)
	for i := range parts {
		parts[i] = "Paragraph line"
	}
	return &domain.Document{
		ID:        "doc-1",
		Title:     "Leave Policy",
		Kind:      domain.KindPolicy,
		Content:   strings.Join(parts, "\n"),
		CreatedAt: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
}

func catalogFor(doc *domain.Document) *MockCatalog {
	return &MockCatalog{
		GetFunc: func(_ context.Context, id string) (*domain.Document, error) {
			if id != doc.ID {
				return nil, domain.ErrNotFound
			}
			return doc, nil
		},
	}
}

func openAndLoad(t *testing.T, v *View, id string, origin messages.ViewType) *View {
	t.Helper()
	cmd := v.Open(messages.DocumentSelected{ID: id, Title: "From selection", Origin: origin})
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockCatalog{})

	require.NotNil(t, view)
	assert.Nil(t, view.Document())
	assert.Equal(t, messages.ViewDocuments, view.Origin())
	assert.Nil(t, view.Init())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	assert.NotNil(t, view.styles)
}

func TestView_OpenLoadsDocument(t *testing.T) {
	view := NewView(nil, catalogFor(testDocument(3)))
	view.SetDimensions(100, 30)

	view = openAndLoad(t, view, "doc-1", messages.ViewAsk)

	require.NotNil(t, view.Document())
	assert.NoError(t, view.Err())
	assert.Len(t, view.Lines(), 3)
	assert.Equal(t, messages.ViewAsk, view.Origin())

	out := view.View()
	assert.Contains(t, out, "Leave Policy")
	assert.Contains(t, out, "policy")
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "Paragraph line")
}

func TestView_OpenShowsLoadingTitle(t *testing.T) {
	view := NewView(nil, catalogFor(testDocument(1)))
	view.Open(messages.DocumentSelected{ID: "doc-1", Title: "From selection"})

	out := view.View()

	assert.Contains(t, out, "From selection")
	assert.Contains(t, out, "Loading content...")
}

func TestView_LoadError(t *testing.T) {
	view := NewView(nil, catalogFor(testDocument(1)))

	view = openAndLoad(t, view, "missing", messages.ViewDocuments)

	assert.ErrorIs(t, view.Err(), domain.ErrNotFound)
	assert.Contains(t, view.View(), "Error:")
}

func TestView_NoCatalog(t *testing.T) {
	view := NewView(nil, nil)

	view = openAndLoad(t, view, "doc-1", messages.ViewDocuments)

	assert.ErrorIs(t, view.Err(), ErrNoCatalog)
}

func TestView_WrapsLongLines(t *testing.T) {
	doc := testDocument(1)
	doc.Content = strings.Repeat("word ", 40)
	view := NewView(nil, catalogFor(doc))
	view.SetDimensions(44, 30) // 40 columns of content

	view = openAndLoad(t, view, "doc-1", messages.ViewDocuments)

	require.Greater(t, len(view.Lines()), 1)
	for _, line := range view.Lines() {
		assert.LessOrEqual(t, len(strings.TrimRight(line, " ")), 40)
	}
}

func TestView_Scrolling(t *testing.T) {
	view := NewView(nil, catalogFor(testDocument(50)))
	view.SetDimensions(100, 18) // ten visible lines
	view = openAndLoad(t, view, "doc-1", messages.ViewDocuments)

	press := func(s string) {
		var msg tea.KeyMsg
		switch s {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		case "pgup":
			msg = tea.KeyMsg{Type: tea.KeyPgUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
		view, _ = view.Update(msg)
	}

	press("k")
	assert.Equal(t, 0, view.ScrollOffset())

	press("down")
	press("j")
	assert.Equal(t, 2, view.ScrollOffset())

	press("pgdown")
	assert.Equal(t, 12, view.ScrollOffset())

	press("G")
	assert.Equal(t, 40, view.ScrollOffset())

	press("j")
	assert.Equal(t, 40, view.ScrollOffset())

	press("pgup")
	assert.Equal(t, 30, view.ScrollOffset())

	press("g")
	assert.Equal(t, 0, view.ScrollOffset())

	assert.Contains(t, view.View(), "Line 1-10 of 50")
}

func TestView_EscReturnsToOrigin(t *testing.T) {
	tests := []messages.ViewType{messages.ViewAsk, messages.ViewDocuments}

	for _, origin := range tests {
		t.Run(origin.String(), func(t *testing.T) {
			view := NewView(nil, catalogFor(testDocument(1)))
			view = openAndLoad(t, view, "doc-1", origin)

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
			require.NotNil(t, cmd)

			assert.Equal(t, messages.ViewChanged{View: origin}, cmd())
		})
	}
}

func TestView_EmptyContent(t *testing.T) {
	view := NewView(nil, nil)

	view, _ = view.Update(messages.DocumentContentLoaded{Document: &domain.Document{ID: "x", Title: "Empty"}})

	assert.Contains(t, view.View(), "(No content)")
}

func TestView_ErrorOccurred(t *testing.T) {
	view := NewView(nil, nil)

	view, _ = view.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, view.Err(), "boom")
}
