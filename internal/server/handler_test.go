package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplebot-poc/server/internal/agent/graph/reconcile"
	"github.com/peoplebot-poc/server/internal/agent/model"
	errx "github.com/peoplebot-poc/server/internal/core/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRunner implements graph.Runner for handler testing.
type stubRunner struct {
	resp    *model.ChatResponse
	err     error
	lastIn  *model.ChatQuery
	invoked int
}

func (s *stubRunner) Invoke(ctx context.Context, in *model.ChatQuery) (*model.ChatResponse, error) {
	s.invoked++
	s.lastIn = in
	if s.err != nil {
		return nil, s.err
	}
	resp := *s.resp
	resp.Meta.RequestID = in.RequestID
	return &resp, nil
}

func performChat(router *gin.Engine, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okResponse() *model.ChatResponse {
	return &model.ChatResponse{
		GeneratedAnswer: model.GeneratedAnswer{
			AnswerText: "Merhaba Ayşe!",
			Intent:     "selamlama",
			Confidence: 0.9,
			References: []model.Reference{{Source: "People", PersonID: "p1"}},
		},
		Meta: model.ResponseMeta{LocaleUsed: "tr-TR", Match: model.MatchPhone},
	}
}

func TestChat_Success(t *testing.T) {
	runner := &stubRunner{resp: okResponse()}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, model.ChatRequest{
		Message: "Merhaba",
		User:    model.UserInfo{Phone: "05551234567"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Merhaba Ayşe!", resp.AnswerText)
	assert.Equal(t, model.MatchPhone, resp.Meta.Match)
	assert.Len(t, resp.Meta.RequestID, 8)
	assert.GreaterOrEqual(t, resp.Meta.Timing.TotalMS, int64(0))

	require.NotNil(t, runner.lastIn)
	assert.Equal(t, "Merhaba", runner.lastIn.Message)
	assert.Equal(t, "05551234567", runner.lastIn.User.Phone)
	assert.Len(t, runner.lastIn.RequestID, 8)
}

func TestChat_ResponseBodyIsFlat(t *testing.T) {
	runner := &stubRunner{resp: okResponse()}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, model.ChatRequest{Message: "Merhaba"})
	require.Equal(t, http.StatusOK, w.Code)

	// answer fields live next to meta in one flat object, no nesting
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "answer_text")
	assert.Contains(t, body, "intent")
	assert.Contains(t, body, "confidence")
	assert.Contains(t, body, "references")
	assert.Contains(t, body, "meta")
	assert.NotContains(t, body, "answer")
}

func TestChat_MissingMessageIsBadRequest(t *testing.T) {
	runner := &stubRunner{resp: okResponse()}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, map[string]any{"user": map[string]string{"name": "Ayşe"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, runner.invoked)
}

func TestChat_BlankMessageIsBadRequest(t *testing.T) {
	runner := &stubRunner{resp: okResponse()}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, map[string]any{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, runner.invoked)
}

func TestChat_SheetsOutageReturnsBadGatewayWithFixedBody(t *testing.T) {
	runner := &stubRunner{err: errx.WrapSheets(errors.New("quota exceeded"))}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, model.ChatRequest{Message: "Merhaba"})

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, reconcile.TechnicalIssueText, resp.AnswerText)
	assert.True(t, resp.Meta.Fallback)
	assert.Equal(t, 0.0, resp.Confidence)
}

func TestChat_UnclassifiedErrorIsInternal(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	router := NewRouter(NewHandler(runner))

	w := performChat(router, model.ChatRequest{Message: "Merhaba"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ş", 120)
	got := truncate(long, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 100, utf8.RuneCountInString(got))

	assert.Equal(t, "kısa", truncate("kısa", 100))
}

func TestHealth(t *testing.T) {
	router := NewRouter(NewHandler(&stubRunner{resp: okResponse()}))

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
