package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/chat"
	"medrag/internal/domain"
	"medrag/internal/ingest"
)

func setupRouter(mock *backend.MockClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	conv := chat.NewConversation(logger, mock)
	svc := ingest.NewService(logger, mock)
	return NewRouter(logger, NewChatHandler(logger, conv), NewUploadHandler(logger, svc))
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type chatResponse struct {
	Outcome  string                    `json:"outcome"`
	Pending  bool                      `json:"pending"`
	Messages []domain.Message          `json:"messages"`
	History  []domain.QueryHistoryItem `json:"history"`
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) chatResponse {
	t.Helper()
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestChatHandlerPostMessage_Answered(t *testing.T) {
	mock := &backend.MockClient{
		Answer: domain.Answer{Answer: "X", Confidence: 0.86, QueryValidated: true},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/chat/messages", map[string]string{"query": "diabetes"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeChat(t, rec)
	if resp.Outcome != "answered" || resp.Pending {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Messages) != 2 || resp.Messages[1].Content != "X" {
		t.Fatalf("unexpected messages: %+v", resp.Messages)
	}
}

func TestChatHandlerPostMessage_InvalidRequest(t *testing.T) {
	r := setupRouter(&backend.MockClient{})

	rec := performRequest(r, http.MethodPost, "/chat/messages", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestChatHandlerPostMessage_Refused(t *testing.T) {
	mock := &backend.MockClient{}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/chat/messages", map[string]string{"query": "diagnose me please"})
	resp := decodeChat(t, rec)
	if resp.Outcome != "refused" {
		t.Fatalf("expected refused, got %q", resp.Outcome)
	}
	if mock.QueryCalls != 0 {
		t.Fatalf("refusal must not reach backend")
	}
	if len(resp.Messages) != 2 || !resp.Messages[1].IsWarning {
		t.Fatalf("unexpected messages: %+v", resp.Messages)
	}
}

func TestChatHandlerPostMessage_BackendFailure(t *testing.T) {
	mock := &backend.MockClient{
		QueryErr: &backend.ProtocolError{StatusCode: 500, Status: "500 Internal Server Error", Body: "boom"},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/chat/messages", map[string]string{"query": "metformin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("backend failure must not surface as HTTP error, got %d", rec.Code)
	}
	resp := decodeChat(t, rec)
	if resp.Outcome != "failed" {
		t.Fatalf("expected failed, got %q", resp.Outcome)
	}
	last := resp.Messages[len(resp.Messages)-1]
	if !last.IsWarning {
		t.Fatalf("expected warning message, got %+v", last)
	}
}

func TestChatHandlerHistoryFlow(t *testing.T) {
	mock := &backend.MockClient{
		Answer: domain.Answer{Answer: "ok", Confidence: 0.5, QueryValidated: true},
	}
	r := setupRouter(mock)

	performRequest(r, http.MethodPost, "/chat/messages", map[string]string{"query": "diabetes"})

	rec := performRequest(r, http.MethodGet, "/history", nil)
	resp := decodeChat(t, rec)
	if len(resp.History) != 1 || resp.History[0].Query != "diabetes" {
		t.Fatalf("unexpected history: %+v", resp.History)
	}

	rec = performRequest(r, http.MethodPost, "/history/"+resp.History[0].ID, nil)
	if decodeChat(t, rec).Outcome != "answered" {
		t.Fatalf("expected history select to re-run query")
	}
	if mock.QueryCalls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", mock.QueryCalls)
	}

	rec = performRequest(r, http.MethodPost, "/history/unknown", nil)
	if decodeChat(t, rec).Outcome != "ignored" {
		t.Fatalf("expected unknown id ignored")
	}

	rec = performRequest(r, http.MethodPost, "/chat/new", nil)
	if len(decodeChat(t, rec).Messages) != 0 {
		t.Fatalf("expected empty log after new chat")
	}

	rec = performRequest(r, http.MethodDelete, "/history", nil)
	if len(decodeChat(t, rec).History) != 0 {
		t.Fatalf("expected empty history after clear")
	}
}
