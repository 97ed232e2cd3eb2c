package domain

import (
	"fmt"
	"strings"
)

// Query limits.
const (
	// MinResultLimit is the smallest accepted result_limit.
	MinResultLimit = 1

	// MaxResultLimit is the largest accepted result_limit.
	MaxResultLimit = 20

	// DefaultResultLimit is used when a caller does not set result_limit.
	DefaultResultLimit = 5
)

// Query is a natural-language question with a bound on retrieved documents.
type Query struct {
	// Question is the user's question.
	Question string `json:"question"`

	// ResultLimit is the maximum number of documents to retrieve (1-20).
	ResultLimit int `json:"result_limit"`
}

// Validate checks the question is non-blank and the limit is within range.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewQueryError("question", "must not be blank")
	}
	if q.ResultLimit < MinResultLimit || q.ResultLimit > MaxResultLimit {
		return NewQueryError("result_limit",
			fmt.Sprintf("must be between %d and %d", MinResultLimit, MaxResultLimit))
	}
	return nil
}

// RetrievalResult is the outcome of one pipeline invocation.
// Documents keep the order the store returned them in.
type RetrievalResult struct {
	// Answer is the generated text, or an explanatory message when generation failed.
	Answer string `json:"answer"`

	// Documents are the retrieved documents, most similar first.
	Documents []Document `json:"documents"`

	// OriginalQuestion is the question as asked.
	OriginalQuestion string `json:"original_question"`

	// ElapsedSeconds is the wall-clock time spent answering.
	ElapsedSeconds *float64 `json:"elapsed_seconds,omitempty"`

	// ModelName is the generation model that produced the answer.
	ModelName *string `json:"model_name,omitempty"`

	// Degraded is true when generation failed and Answer holds the degradation message.
	Degraded bool `json:"degraded,omitempty"`
}
