package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/peoplebot-poc/server/internal/people"
)

//go:embed template/answer_prompt.txt
var answerSystemPrompt string

// RenderAnswerSystem renders the answer system prompt and triggers prompt
// callbacks. facts may be the zero value when nobody was resolved; the
// template tells the model not to invent personal details in that case.
func RenderAnswerSystem(ctx context.Context, locale string, facts people.Facts, profileText string) (string, error) {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("answer prompt facts: %w", err)
	}

	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(answerSystemPrompt),
	)
	vars := map[string]any{
		"Locale":      locale,
		"FactsJSON":   string(factsJSON),
		"ProfileText": profileText,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("answer prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("answer prompt render: empty result")
	}
	return msgs[0].Content, nil
}
