package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// newPromptHandler builds a typed PromptCallbackHandler for prompt lifecycle events.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			logx.Debug().Str("component", info.Type).Str("node", info.Name).Msg("prompt render start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			evt := logx.Debug().Str("component", info.Type).Str("node", info.Name)
			if output != nil && len(output.Result) > 0 && output.Result[0] != nil {
				evt = evt.Int("rendered_len", len(output.Result[0].Content))
			}
			evt.Msg("prompt render end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Str("component", info.Type).Str("node", info.Name).Err(err).Msg("prompt render error")
			return ctx
		},
	}
}
