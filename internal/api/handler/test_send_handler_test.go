package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/api/handler"
	"github.com/pocketlist/push-fanout/internal/push"
)

func postTestSend(t *testing.T, h *handler.TestSendHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/test", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	return rec
}

func newTestSendHandler() (*handler.TestSendHandler, *push.MockMessenger) {
	client := push.NewMockMessenger()
	dispatcher := push.NewDispatcher(client, 1000, zap.NewNop())
	return handler.NewTestSendHandler(dispatcher, zap.NewNop()), client
}

func TestSend_DeliversToToken(t *testing.T) {
	h, client := newTestSendHandler()

	rec := postTestSend(t, h, `{"token":"tok-1","title":"Ping","body":"Are you there?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["success"] != true || resp["messageId"] != "msg-tok-1" {
		t.Fatalf("unexpected response: %v", resp)
	}

	if len(client.Sent) != 1 {
		t.Fatalf("expected one send, got %d", len(client.Sent))
	}
	msg := client.Sent[0]
	if msg.Notification.Title != "Ping" || msg.Notification.Body != "Are you there?" {
		t.Fatalf("unexpected notification: %+v", msg.Notification)
	}
	if msg.Data["type"] != "test" || msg.Data["timestamp"] == "" {
		t.Fatalf("unexpected data payload: %v", msg.Data)
	}
}

func TestSend_DefaultsTitleAndBody(t *testing.T) {
	h, client := newTestSendHandler()

	rec := postTestSend(t, h, `{"token":"tok-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	msg := client.Sent[0]
	if msg.Notification.Title != "Test message" || msg.Notification.Body != "This is a test notification!" {
		t.Fatalf("expected default content, got %+v", msg.Notification)
	}
}

func TestSend_MissingToken(t *testing.T) {
	h, client := newTestSendHandler()

	rec := postTestSend(t, h, `{"title":"Ping"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(client.Sent) != 0 {
		t.Fatal("expected no provider call without a token")
	}
}

func TestSend_InvalidJSON(t *testing.T) {
	h, _ := newTestSendHandler()

	rec := postTestSend(t, h, `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
