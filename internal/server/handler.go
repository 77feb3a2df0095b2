package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peoplebot-poc/server/internal/agent/graph"
	"github.com/peoplebot-poc/server/internal/agent/graph/reconcile"
	"github.com/peoplebot-poc/server/internal/agent/model"
	errx "github.com/peoplebot-poc/server/internal/core/error"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Handler serves the chat API on top of the compiled answer graph.
type Handler struct {
	runner graph.Runner
}

func NewHandler(runner graph.Runner) *Handler {
	return &Handler{runner: runner}
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(c *gin.Context) {
	start := time.Now()

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	requestID := uuid.NewString()[:8]
	log := logx.With(requestID)
	log.Info().Str("message", truncate(req.Message, 100)).Msg("chat request")

	resp, err := h.runner.Invoke(c.Request.Context(), &model.ChatQuery{
		RequestID: requestID,
		Message:   req.Message,
		User:      req.User,
	})
	if err != nil {
		log.Error().Err(err).Msg("chat pipeline failed")
		c.JSON(errorStatus(err), errorResponse(requestID))
		return
	}

	resp.Meta.Timing.TotalMS = time.Since(start).Milliseconds()
	log.Info().
		Str("intent", resp.Intent).
		Float64("confidence", resp.Confidence).
		Str("match", resp.Meta.Match).
		Int64("sheets_ms", resp.Meta.Timing.SheetsMS).
		Int64("llm_ms", resp.Meta.Timing.LLMMS).
		Int64("total_ms", resp.Meta.Timing.TotalMS).
		Msg("chat done")

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "peoplebot",
		"status":  "ok",
	})
}

// errorStatus maps wrapped collaborator failures onto their HTTP status and
// everything else onto 500.
func errorStatus(err error) int {
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// errorResponse is the fixed technical-issue body. The reply text matches the
// in-pipeline fallback so channels render both the same way.
func errorResponse(requestID string) *model.ChatResponse {
	return &model.ChatResponse{
		GeneratedAnswer: model.GeneratedAnswer{
			AnswerText: reconcile.TechnicalIssueText,
			Intent:     "genel",
			Confidence: 0,
			References: []model.Reference{},
		},
		Meta: model.ResponseMeta{
			RequestID: requestID,
			Match:     model.MatchNone,
			Fallback:  true,
		},
	}
}

// truncate cuts s to at most n runes. Slicing on rune boundaries keeps
// logged Turkish text valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
