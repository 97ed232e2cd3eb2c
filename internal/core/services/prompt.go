package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/logger"
)

// answerPlaceholders is the number of %s verbs an answer template must carry.
const answerPlaceholders = 2

// composeAnswerPrompt fills the answer template with the context block and the
// question. A missing store, a load error or a template with the wrong number
// of placeholders falls back to driven.DefaultAnswerPrompt.
func composeAnswerPrompt(prompts driven.PromptStore, contextText, question string) string {
	template := driven.DefaultAnswerPrompt
	if prompts != nil {
		loaded, err := prompts.Load(driven.PromptAnswer)
		switch {
		case err != nil:
			logger.Warn("Failed to load answer prompt, using default: %v", err)
		case strings.Count(loaded, "%s") != answerPlaceholders || strings.Count(loaded, "%") != answerPlaceholders:
			logger.Warn("Answer prompt must contain exactly two %%s placeholders, using default")
		default:
			template = loaded
		}
	}
	return fmt.Sprintf(template, contextText, question)
}
