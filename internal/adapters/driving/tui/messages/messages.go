// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// AnswerReceived carries the pipeline result back to the model.
type AnswerReceived struct {
	Result *domain.RetrievalResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewDocuments lists stored documents.
	ViewDocuments
	// ViewDocContent shows one document in full.
	ViewDocContent
	// ViewStatus shows provider and store status.
	ViewStatus
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewStatus:
		return "status"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries one page of the catalog listing.
type DocumentsLoaded struct {
	Page *domain.Page
	Err  error
}

// DocumentSelected signals a document was chosen for the content view.
// Origin is the view to return to.
type DocumentSelected struct {
	ID     string
	Title  string
	Origin ViewType
}

// DocumentContentLoaded carries a full document.
type DocumentContentLoaded struct {
	Document *domain.Document
	Err      error
}

// DocumentDeleted signals a document was removed from the catalog.
type DocumentDeleted struct {
	ID  string
	Err error
}

// StatusLoaded carries the service status.
type StatusLoaded struct {
	Status *driving.Status
	Err    error
}
