package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument is a file handed in for ingestion, before its text is extracted.
type RawDocument struct {
	// Name is the file name or path. It drives MIME detection and the fallback title.
	Name string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// FallbackTitle derives a readable title from the file name.
// "remote_work-policy.md" becomes "remote work policy".
func (r *RawDocument) FallbackTitle() string {
	name := filepath.Base(r.Name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
