package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/push"
)

// Defaults used when the operator omits title or body.
const (
	defaultTestTitle = "Test message"
	defaultTestBody  = "This is a test notification!"
)

// TestSendRequest is the operator-facing payload for a manual test send.
type TestSendRequest struct {
	Token string `json:"token"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// TestSendHandler delivers a single notification to one explicit token,
// bypassing recipient resolution entirely. Used to verify a device's
// registration end to end.
type TestSendHandler struct {
	dispatcher *push.Dispatcher
	logger     *zap.Logger
}

func NewTestSendHandler(dispatcher *push.Dispatcher, logger *zap.Logger) *TestSendHandler {
	return &TestSendHandler{dispatcher: dispatcher, logger: logger}
}

// Send handles POST /api/v1/notifications/test
//
// A missing token fails fast with an explicit error before any network
// call. Unlike the event pipeline, a provider failure here is surfaced to
// the caller — the operator asked for this exact send and wants to know.
func (h *TestSendHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req TestSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Title == "" {
		req.Title = defaultTestTitle
	}
	if req.Body == "" {
		req.Body = defaultTestBody
	}

	payload := push.Payload{
		Title: req.Title,
		Body:  req.Body,
		Data: map[string]string{
			"type":      "test",
			"timestamp": strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	}

	msgID, err := h.dispatcher.SendDirect(r.Context(), req.Token, payload)
	if err != nil {
		h.logger.Warn("test send failed", zap.Error(err))
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": msgID,
	})
}
