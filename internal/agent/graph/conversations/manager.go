package conversations

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"github.com/peoplebot-poc/server/internal/agent/model"
	errx "github.com/peoplebot-poc/server/internal/core/error"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// MessagesManager loads and persists conversation turns around a graph run.
// A nil repository disables history entirely: loads return empty, saves are
// no-ops. Every history failure is soft; a chat never fails because Redis did.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, maxTurns int) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         maxTurns,
	}
}

// LoadRecent returns the last maxTurns messages for the conversation.
// A stored message that no longer unmarshals would fail every future load,
// so corrupt history is cleared; transport failures are left alone and the
// next turn retries.
func (cm *MessagesManager) LoadRecent(ctx context.Context, conversationID string) []*schema.Message {
	if cm.conversationRepo == nil || conversationID == "" {
		return nil
	}
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		logx.Warn().Err(err).Str("conversationID", conversationID).Msg("failed to load conversation history")
		var appErr *errx.AppError
		if !errors.As(err, &appErr) {
			if cerr := cm.conversationRepo.ClearHistory(ctx, conversationID); cerr != nil {
				logx.Warn().Err(cerr).Str("conversationID", conversationID).Msg("failed to clear corrupt conversation history")
			}
		}
		return nil
	}
	return trimTail(history.Messages, cm.maxTurns)
}

// SaveTurn appends the user message and the assistant reply.
func (cm *MessagesManager) SaveTurn(ctx context.Context, conversationID, query, reply string) {
	if cm.conversationRepo == nil || conversationID == "" {
		return
	}
	if err := cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query)); err != nil {
		logx.Warn().Err(err).Str("conversationID", conversationID).Msg("failed to save user message")
		return
	}
	if err := cm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(reply, nil)); err != nil {
		logx.Warn().Err(err).Str("conversationID", conversationID).Msg("failed to save assistant message")
	}
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) == 0 {
		return nil
	}
	if len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
