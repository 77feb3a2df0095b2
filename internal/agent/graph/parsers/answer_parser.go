package parsers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/peoplebot-poc/server/internal/agent/model"
	errx "github.com/peoplebot-poc/server/internal/core/error"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen   = 128 * 1024 // 128KB
	defaultIntent   = "genel"
	maxReferenceLen = 100 // maximum number of references to keep
)

// ParseAnswer extracts the structured answer from raw model output. Models
// wrap JSON in code fences or prose often enough that the parser hunts for
// the outermost object instead of unmarshalling the content verbatim.
func ParseAnswer(content string) (answer *model.GeneratedAnswer, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "answer_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("answer parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			answer = nil
		}
	}()

	// content length guard
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "answer_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var parsed model.GeneratedAnswer
	if uerr := json.Unmarshal([]byte(raw), &parsed); uerr != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", uerr)
	}

	parsed.AnswerText = strings.TrimSpace(parsed.AnswerText)
	if parsed.AnswerText == "" {
		return nil, fmt.Errorf("model answer has empty answer_text")
	}
	parsed.Intent = strings.ToLower(strings.TrimSpace(parsed.Intent))
	if parsed.Intent == "" {
		parsed.Intent = defaultIntent
	}
	parsed.Confidence = clampConfidence(parsed.Confidence)
	parsed.References = sanitizeReferences(parsed.References)

	return &parsed, nil
}

// extractJSONObject strips code fences and returns the substring from the
// first '{' to the last '}', or empty when no object is present.
func extractJSONObject(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func clampConfidence(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sanitizeReferences(refs []model.Reference) []model.Reference {
	if len(refs) > maxReferenceLen {
		refs = refs[:maxReferenceLen]
	}
	out := make([]model.Reference, 0, len(refs))
	for _, r := range refs {
		r.Source = strings.TrimSpace(r.Source)
		r.PersonID = strings.TrimSpace(r.PersonID)
		if r.Source == "" || r.PersonID == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
