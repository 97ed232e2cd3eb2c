package driven

// ContentSplitter divides long extracted text into sections that are stored
// as separate documents.
type ContentSplitter interface {
	// Name returns the splitter name for logging.
	Name() string

	// Split returns the sections of content in order. Content that fits in
	// one section is returned unchanged as the only element.
	Split(content string) []string
}
