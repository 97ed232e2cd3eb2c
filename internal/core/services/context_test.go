package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

func TestContextAssembler_Build_Empty(t *testing.T) {
	a := NewContextAssembler()

	assert.Equal(t, NoDocumentsContext, a.Build(nil))
	assert.Equal(t, NoDocumentsContext, a.Build([]domain.Document{}))
}

func TestContextAssembler_Build_Format(t *testing.T) {
	a := NewContextAssembler()
	docs := []domain.Document{
		{Title: "Privacy Policy", Content: "Personal data is kept for five years."},
		{Title: "Leave Procedure", Content: "Requests go to the line manager."},
	}

	got := a.Build(docs)

	want := "Document 1 - Privacy Policy:\nPersonal data is kept for five years.\n" +
		"\n" +
		"Document 2 - Leave Procedure:\nRequests go to the line manager.\n"
	assert.Equal(t, want, got)
}

func TestContextAssembler_Build_Truncates(t *testing.T) {
	a := NewContextAssembler()
	long := strings.Repeat("a", 600)

	got := a.Build([]domain.Document{{Title: "Long", Content: long}})

	assert.Equal(t, "Document 1 - Long:\n"+strings.Repeat("a", 500)+"...\n", got)
}

func TestContextAssembler_Build_ExactLimitNotTruncated(t *testing.T) {
	a := NewContextAssembler()
	exact := strings.Repeat("b", 500)

	got := a.Build([]domain.Document{{Title: "Exact", Content: exact}})

	assert.Equal(t, "Document 1 - Exact:\n"+exact+"\n", got)
}

func TestContextAssembler_Build_CountsCharacters(t *testing.T) {
	a := NewContextAssembler()
	content := strings.Repeat("é", 501)

	got := a.Build([]domain.Document{{Title: "Accents", Content: content}})

	assert.Equal(t, "Document 1 - Accents:\n"+strings.Repeat("é", 500)+"...\n", got)
}

func TestContextAssembler_Build_KeepsOrder(t *testing.T) {
	a := NewContextAssembler()
	docs := []domain.Document{{Title: "B"}, {Title: "A"}, {Title: "C"}}

	got := a.Build(docs)

	assert.Less(t, strings.Index(got, "Document 1 - B"), strings.Index(got, "Document 2 - A"))
	assert.Less(t, strings.Index(got, "Document 2 - A"), strings.Index(got, "Document 3 - C"))
}
