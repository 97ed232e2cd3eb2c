package driven

// PromptStore provides access to generation prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the built-in default
	// or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer composes the grounded answer prompt.
	// The template expects two %s placeholders: the context block, then the question.
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in PromptAnswer template.
const DefaultAnswerPrompt = `Context from normative documents:
%s

User question: %s

Instructions:
- Answer based ONLY on the information in the context above
- If the context does not contain the answer, say so clearly
- Keep the answer concise and professional
- Cite the document numbers you used
- Do not add information that is not in the context

Answer:`
