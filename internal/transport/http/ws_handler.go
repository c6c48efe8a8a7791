package http

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/app"
	"maturity-quiz-service/internal/domain"
)

type WSHandler struct {
	service       *app.AssessmentService
	logger        *zap.Logger
	defaultBankID string
	upgrader      websocket.Upgrader
}

// NewWSHandler builds the live assessment endpoint. An empty allowedOrigins
// accepts every origin.
func NewWSHandler(service *app.AssessmentService, logger *zap.Logger, defaultBankID string, allowedOrigins []string) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		service:       service,
		logger:        logger,
		defaultBankID: defaultBankID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionIndex *int `json:"questionIndex"`
	AnswerIndex   *int `json:"answerIndex"`
}

type completePayload struct {
	Contact *domain.Contact `json:"contact,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the live assessment use cases.
// Without a sessionId a fresh one is assigned and reported in the joined message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	bankID := r.URL.Query().Get("bankId")
	if bankID == "" {
		bankID = h.defaultBankID
	}
	if bankID == "" {
		returnHTTPMessage(w, http.StatusBadRequest, "badrequest", "missing bankId")
		return
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.logger.With(zap.String("sessionId", sessionID), zap.String("bankId", bankID))

	joined, err := h.service.Join(ctx, sessionID, bankID)
	if err != nil {
		_ = conn.WriteJSON(h.clientError(log, err))
		return
	}
	// Leave runs after the request context is gone.
	defer h.service.Leave(context.Background(), sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(h.clientError(log, err))
		return
	}
	defer cancel()
	log.Debug("ws session joined", zap.Int("answered", joined.Answered))

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections support one concurrent writer.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				// Keep draining so senders never block.
				for range send {
				}
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	go func() {
		defer close(updatesDone)
		forwardProgress(joined, updates, send, closeSignals)
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuestionIndex == nil || payload.AnswerIndex == nil {
				send <- errorMessage("invalid answer payload")
				continue
			}
			// Progress reaches this connection through the subscription.
			if _, err := h.service.Answer(ctx, sessionID, *payload.QuestionIndex, *payload.AnswerIndex); err != nil {
				send <- h.clientError(log, err)
			}
		case "complete":
			var payload completePayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					send <- errorMessage("invalid complete payload")
					continue
				}
			}
			submission, err := h.service.Complete(ctx, sessionID, payload.Contact)
			if err != nil {
				send <- h.clientError(log, err)
				continue
			}
			send <- outboundMessage[any]{Type: "results", Payload: submission}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// forwardProgress relays subscription updates until updates closes or done fires.
// The subscription starts with the session's latest snapshot; it is dropped only when it
// is the snapshot already sent as "joined".
func forwardProgress(joined domain.Progress, updates <-chan domain.Progress, send chan<- outboundMessage[any], done <-chan struct{}) {
	first := true
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if first {
				first = false
				if sameSnapshot(joined, update) {
					continue
				}
			}
			select {
			case send <- outboundMessage[any]{Type: "progress", Payload: update}:
			case <-done:
				return
			}
		case <-done:
			return
		}
	}
}

func sameSnapshot(a, b domain.Progress) bool {
	return a.UpdatedAt.Equal(b.UpdatedAt) && slices.Equal(a.Answers, b.Answers)
}

// clientError hides infrastructure failures from the client; they are logged instead.
func (h *WSHandler) clientError(log *zap.Logger, err error) outboundMessage[any] {
	if status, _ := errorStatus(err); status == http.StatusInternalServerError {
		log.Error("ws request failed", zap.Error(err))
		return errorMessage("internal error")
	}
	return errorMessage(err.Error())
}
