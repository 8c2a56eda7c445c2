package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/internal/metrics"
)

// TokenValidator resolves a bearer token to claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// MembershipChecker gates group topic subscriptions.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// Client frame operations.
const (
	OpJoin  = "join"
	OpLeave = "leave"
)

// ClientFrame is what a connected client sends: join a group topic when
// opening a group view, leave it when navigating away.
type ClientFrame struct {
	Op      string `json:"op"`
	GroupID string `json:"groupId"`
}

// Handler serves the realtime websocket endpoint. Each connection is
// subscribed to its user's personal topic and to the group topics it joins.
type Handler struct {
	broker        *Broker
	tokens        TokenValidator
	members       MembershipChecker
	allowedOrigin string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewHandler creates the websocket endpoint. allowedOrigin "*" or "" accepts
// any Origin header.
func NewHandler(broker *Broker, tokens TokenValidator, members MembershipChecker, allowedOrigin string, m *metrics.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		broker:        broker,
		tokens:        tokens,
		members:       members,
		allowedOrigin: allowedOrigin,
		metrics:       m,
		logger:        logger,
	}
}

// ServeHTTP authenticates the upgrade request. Browsers cannot set headers on
// a websocket handshake, so the token may also come from ?token=.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var err error
		if token, err = auth.ParseBearer(r.Header.Get("Authorization")); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
		return
	}

	server := websocket.Server{
		Handshake: h.checkOrigin,
		Handler: func(ws *websocket.Conn) {
			h.serve(ws, claims.UserID)
		},
	}
	server.ServeHTTP(w, r)
}

func (h *Handler) checkOrigin(config *websocket.Config, req *http.Request) error {
	if h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return nil
	}
	origin, err := websocket.Origin(config, req)
	if err != nil {
		return err
	}
	if origin == nil {
		return errors.New("missing origin")
	}
	allowed, err := url.Parse(h.allowedOrigin)
	if err != nil {
		return fmt.Errorf("bad allowed origin: %w", err)
	}
	if origin.Scheme != allowed.Scheme || origin.Host != allowed.Host {
		return fmt.Errorf("origin %s not allowed", origin)
	}
	return nil
}

func (h *Handler) serve(ws *websocket.Conn, userID string) {
	defer ws.Close()

	sub := h.broker.NewSubscriber()
	h.broker.Subscribe(UserTopic(userID), sub)
	h.metrics.ConnOpened()
	logger := h.logger.With("user_id", userID, "subscriber", sub.ID())
	logger.Info("Realtime connection opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range sub.Events() {
			if err := websocket.JSON.Send(ws, ev); err != nil {
				logger.Debug("Realtime write failed", "error", err)
				// Unblocks the reader loop below.
				ws.Close()
				return
			}
		}
	}()

	ctx := ws.Request().Context()
	for {
		var frame ClientFrame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			break
		}
		h.handleFrame(ctx, sub, userID, frame)
	}

	h.broker.Remove(sub)
	<-writerDone
	h.metrics.ConnClosed()
	logger.Info("Realtime connection closed")
}

func (h *Handler) handleFrame(ctx context.Context, sub *Subscriber, userID string, frame ClientFrame) {
	if frame.GroupID == "" {
		h.broker.deliver(sub, NewUserEvent(EventError, userID, "groupId required"))
		return
	}

	switch frame.Op {
	case OpJoin:
		ok, err := h.members.IsMember(ctx, frame.GroupID, userID)
		if err != nil {
			h.logger.Error("Membership check failed", "group_id", frame.GroupID, "user_id", userID, "error", err)
			h.broker.deliver(sub, NewUserEvent(EventError, userID, "membership check failed"))
			return
		}
		if !ok {
			h.broker.deliver(sub, NewUserEvent(EventError, userID, "not a member of "+frame.GroupID))
			return
		}
		h.broker.Subscribe(GroupTopic(frame.GroupID), sub)
		h.broker.deliver(sub, NewGroupEvent(EventSubscribed, frame.GroupID, nil))
	case OpLeave:
		h.broker.Unsubscribe(GroupTopic(frame.GroupID), sub)
		h.broker.deliver(sub, NewGroupEvent(EventUnsubscribed, frame.GroupID, nil))
	default:
		h.broker.deliver(sub, NewUserEvent(EventError, userID, "unknown op "+frame.Op))
	}
}
