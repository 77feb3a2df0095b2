package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/peoplebot-poc/server/internal/agent/graph/conversations"
	"github.com/peoplebot-poc/server/internal/agent/graph/parsers"
	"github.com/peoplebot-poc/server/internal/agent/graph/prompts"
	"github.com/peoplebot-poc/server/internal/agent/graph/reconcile"
	"github.com/peoplebot-poc/server/internal/agent/model"
	"github.com/peoplebot-poc/server/internal/people"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Node names used when wiring the graph.
const (
	NodeResolver        = "person_resolver"
	NodeNotFound        = "not_found_responder"
	NodePromptAssembler = "prompt_assembler"
	NodeGenerator       = "answer_generator"
	NodeReconciler      = "response_reconciler"
)

// PeopleSource yields the current People table snapshot. The TTL cache
// satisfies it in production.
type PeopleSource interface {
	Get(ctx context.Context) ([]people.PersonRecord, error)
}

// conversationKey scopes history to the resolved person. Unresolved senders
// carry no history.
func conversationKey(personID string) string {
	return "person:" + personID
}

// NewResolverPreHandler seeds the graph state from the inbound query.
func NewResolverPreHandler() func(context.Context, *model.ChatQuery, *model.PipelineState) (*model.ChatQuery, error) {
	return func(ctx context.Context, in *model.ChatQuery, s *model.PipelineState) (*model.ChatQuery, error) {
		s.RequestID = in.RequestID
		s.Query = in
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewResolverNode creates the node that resolves the sender against the
// People table. Phone wins over name; a missed phone still falls through to
// name matching.
func NewResolverNode(source PeopleSource, finder *people.Finder, defaultLocale string) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, q *model.ChatQuery) (*model.Resolution, error) {
		fetchStart := time.Now()
		records, err := source.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("load people table: %w", err)
		}
		sheetsMS := time.Since(fetchStart).Milliseconds()
		if serr := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			s.SheetsMS = sheetsMS
			return nil
		}); serr != nil {
			return nil, fmt.Errorf("failed to access state: %w", serr)
		}

		name := strings.TrimSpace(q.User.Name)
		if name == "" {
			name = people.ExtractCandidateName(q.Message)
		}

		person, match := finder.Resolve(records, q.User.Phone, name)
		res := &model.Resolution{Person: person, Match: match}

		// locale priority: request > person record > default
		switch {
		case strings.TrimSpace(q.User.Locale) != "":
			res.LocaleUsed = strings.TrimSpace(q.User.Locale)
		case res.Person != nil && res.Person.Locale != "":
			res.LocaleUsed = res.Person.Locale
		default:
			res.LocaleUsed = defaultLocale
		}

		evt := logx.Info().Str("request_id", q.RequestID).Str("match", res.Match)
		if res.Person != nil {
			evt = evt.Str("person_id", res.Person.PersonID)
		}
		evt.Msg("person resolution done")
		return res, nil
	})
}

// NewResolverPostHandler stores the resolution and loads the resolved
// person's recent history into state.
func NewResolverPostHandler(mm *conversations.MessagesManager) func(context.Context, *model.Resolution, *model.PipelineState) (*model.Resolution, error) {
	return func(ctx context.Context, out *model.Resolution, s *model.PipelineState) (*model.Resolution, error) {
		s.Resolution = out
		if out.Person != nil {
			s.History = mm.LoadRecent(ctx, conversationKey(out.Person.PersonID))
		}
		return out, nil
	}
}

// NewNotFoundCondition routes unresolved senders to the short-circuit
// responder, everyone else to prompt assembly.
func NewNotFoundCondition() func(context.Context, *model.Resolution) (string, error) {
	return func(ctx context.Context, in *model.Resolution) (string, error) {
		if in.Person == nil {
			return NodeNotFound, nil
		}
		return NodePromptAssembler, nil
	}
}

// NewNotFoundNode builds the fixed ask-who-you-are response without touching
// the chat model.
func NewNotFoundNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.Resolution) (*model.ChatResponse, error) {
		var (
			hadPhone  bool
			requestID string
			sheetsMS  int64
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			requestID = s.RequestID
			hadPhone = s.Query != nil && strings.TrimSpace(s.Query.User.Phone) != ""
			sheetsMS = s.SheetsMS
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		logx.Info().Str("request_id", requestID).Bool("had_phone", hadPhone).Msg("person not found, short-circuiting")
		resp := reconcile.NotFound(hadPhone, in.LocaleUsed, requestID)
		resp.Meta.Timing.SheetsMS = sheetsMS
		return resp, nil
	})
}

// NewPromptAssemblerNode renders the system prompt from the resolved facts
// and stitches in history plus the current user message.
func NewPromptAssemblerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.Resolution) ([]*schema.Message, error) {
		if in.Person == nil {
			return nil, fmt.Errorf("prompt assembly reached without a resolved person")
		}

		var (
			query   *model.ChatQuery
			history []*schema.Message
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			query = s.Query
			history = s.History
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		if query == nil {
			return nil, fmt.Errorf("missing query in state")
		}

		systemPrompt, err := prompts.RenderAnswerSystem(ctx, in.LocaleUsed, people.ToFacts(*in.Person), in.Person.ProfileText)
		if err != nil {
			return nil, fmt.Errorf("render answer prompt: %w", err)
		}

		messages := make([]*schema.Message, 0, len(history)+2)
		messages = append(messages, schema.SystemMessage(systemPrompt))
		messages = append(messages, history...)
		messages = append(messages, schema.UserMessage(query.Message))
		return messages, nil
	})
}

// NewGeneratorNode invokes the chat model. Generation errors become values
// so the reconciler can still produce the apology fallback; only state access
// failures abort the graph.
func NewGeneratorNode(gen Generator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in []*schema.Message) (*model.GenerationResult, error) {
		genStart := time.Now()
		out, err := gen.Generate(ctx, in)
		llmMS := time.Since(genStart).Milliseconds()
		if serr := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			s.LLMMS = llmMS
			return nil
		}); serr != nil {
			return nil, fmt.Errorf("failed to access state: %w", serr)
		}
		if err != nil {
			logx.Error().Err(err).Msg("chat model generation failed")
			return &model.GenerationResult{Err: err}, nil
		}
		result := &model.GenerationResult{Message: out}
		if out != nil && out.ResponseMeta != nil {
			result.Usage = out.ResponseMeta.Usage
		}
		return result, nil
	})
}

// NewGeneratorPostHandler records the generation in state and accounts usage
// cost for the invocation.
func NewGeneratorPostHandler(modelName string) func(context.Context, *model.GenerationResult, *model.PipelineState) (*model.GenerationResult, error) {
	return func(ctx context.Context, out *model.GenerationResult, state *model.PipelineState) (*model.GenerationResult, error) {
		state.Generation = out
		if out != nil && out.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.Usage, pricing)
			state.TotalCostUSD += totalC
			logx.Debug().
				Str("request_id", state.RequestID).
				Str("node", NodeGenerator).
				Str("model", modelName).
				Int("prompt_tokens", out.Usage.PromptTokens).
				Int("completion_tokens", out.Usage.CompletionTokens).
				Int("total_tokens", out.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")
		}
		return out, nil
	}
}

// NewReconcilerNode turns the generation result into the outbound response
// and persists the turn for resolved senders.
func NewReconcilerNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.GenerationResult) (*model.ChatResponse, error) {
		var (
			res       *model.Resolution
			query     *model.ChatQuery
			requestID string
			timing    model.ResponseTiming
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			res = s.Resolution
			query = s.Query
			requestID = s.RequestID
			timing.SheetsMS = s.SheetsMS
			timing.LLMMS = s.LLMMS
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		if res == nil {
			return nil, fmt.Errorf("missing resolution in state")
		}

		if in.Err != nil || in.Message == nil || strings.TrimSpace(in.Message.Content) == "" {
			logx.Warn().Str("request_id", requestID).Err(in.Err).Msg("generation unusable, sending fallback")
			resp := reconcile.Fallback(res, requestID)
			resp.Meta.Timing = timing
			return resp, nil
		}

		answer, perr := parsers.ParseAnswer(in.Message.Content)
		if perr != nil {
			logx.Warn().Str("request_id", requestID).Err(perr).Msg("model output did not parse, sending fallback")
			resp := reconcile.Fallback(res, requestID)
			resp.Meta.Timing = timing
			return resp, nil
		}

		resp := reconcile.Finalize(answer, res, requestID)
		resp.Meta.Timing = timing
		if res.Person != nil && query != nil {
			mm.SaveTurn(ctx, conversationKey(res.Person.PersonID), query.Message, resp.AnswerText)
		}
		return resp, nil
	})
}
