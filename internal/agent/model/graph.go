package model

import (
	"github.com/cloudwego/eino/schema"

	"github.com/peoplebot-poc/server/internal/people"
)

// PipelineState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type PipelineState struct {
	RequestID  string
	Query      *ChatQuery
	Resolution *Resolution       // set by the resolver post-handler
	History    []*schema.Message // mutated only inside Eino state handlers
	Generation *GenerationResult // set by the generator post-handler

	// Per-stage latencies, written by the resolver and generator nodes
	SheetsMS int64
	LLMMS    int64

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// ChatQuery is the graph input: the inbound request plus the request id the
// handler stamped on it.
type ChatQuery struct {
	RequestID string
	Message   string
	User      UserInfo
}

// Resolution is the outcome of looking the sender up in the People table.
type Resolution struct {
	Person     *people.PersonRecord // nil when nobody matched
	Match      string               // MatchPhone, MatchName or MatchNone
	LocaleUsed string
}

// GenerationResult carries the raw model output, or the error the call
// produced, into the reconciler. Errors are values here so the graph keeps
// running and the reconciler can build the apology fallback.
type GenerationResult struct {
	Message *schema.Message
	Usage   *schema.TokenUsage
	Err     error
}
