package model

import "github.com/peoplebot-poc/server/internal/people"

// Match kinds recorded in response metadata, as reported by the finder.
const (
	MatchPhone = people.MatchPhone
	MatchName  = people.MatchName
	MatchNone  = people.MatchNone
)

// ReferenceSourcePeople marks references that point at a People table row.
const ReferenceSourcePeople = "People"

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message string   `json:"message" binding:"required"`
	User    UserInfo `json:"user"`
}

// UserInfo carries whatever the channel knows about the sender. All fields
// are optional.
type UserInfo struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Locale string `json:"locale"`
}

// Reference points at a source record the answer relied on.
type Reference struct {
	Source   string `json:"source"`
	PersonID string `json:"person_id"`
}

// GeneratedAnswer is the structured output expected from the model, and the
// shape the reconciler normalizes fallbacks into.
type GeneratedAnswer struct {
	AnswerText string      `json:"answer_text"`
	Intent     string      `json:"intent"`
	Confidence float64     `json:"confidence"`
	References []Reference `json:"references"`
}

// ResponseTiming carries per-stage latencies in milliseconds.
type ResponseTiming struct {
	SheetsMS int64 `json:"sheets"`
	LLMMS    int64 `json:"llm"`
	TotalMS  int64 `json:"total"`
}

// ResponseMeta describes how the response was produced. Fixed shape; no
// free-form map, so keys cannot drift between pipeline stages.
type ResponseMeta struct {
	LocaleUsed     string         `json:"locale_used"`
	RequestID      string         `json:"request_id"`
	Match          string         `json:"match"`
	Fallback       bool           `json:"fallback"`
	PersonNotFound bool           `json:"person_not_found"`
	Timing         ResponseTiming `json:"timing_ms"`
}

// ChatResponse is the outbound chat payload. The answer fields marshal at
// the top level next to meta, one flat object on the wire.
type ChatResponse struct {
	GeneratedAnswer
	Meta ResponseMeta `json:"meta"`
}
