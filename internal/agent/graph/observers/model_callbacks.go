package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// newModelHandler builds a typed ModelCallbackHandler to log messages around model calls.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			evt := logx.Debug().Str("component", info.Type).Str("node", info.Name)
			if input != nil {
				evt = evt.Int("messages", len(input.Messages))
				if um := lastUserContent(input.Messages); um != "" {
					evt = evt.Str("user", um)
				}
			}
			evt.Msg("model call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			evt := logx.Debug().Str("component", info.Type).Str("node", info.Name)
			if output != nil && output.Message != nil {
				evt = evt.Str("assistant", strings.TrimSpace(output.Message.Content))
			}
			evt.Msg("model call end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Str("component", info.Type).Str("node", info.Name).Err(err).Msg("model call error")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}
