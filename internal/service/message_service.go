package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

const (
	maxMessageRunes    = 2000
	defaultMessagePage = 100
	maxMessagePage     = 500
)

// MessageService implements the Connect MessageService. Messages are stored
// first and then broadcast to the group topic.
type MessageService struct {
	store     storage.Store
	publisher realtime.Publisher
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

var _ apiconnect.MessageServiceHandler = (*MessageService)(nil)

func NewMessageService(store storage.Store, publisher realtime.Publisher, logger *slog.Logger) *MessageService {
	return &MessageService{
		store:     store,
		publisher: publisher,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// sanitize strips markup. The output stays HTML-escaped, and the length
// limit is measured on it.
func (s *MessageService) sanitize(content string) string {
	return strings.TrimSpace(s.policy.Sanitize(content))
}

// SendMessage posts a chat message to a group. Members only.
func (s *MessageService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := requireMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "SendMessage", err)
	}

	content := s.sanitize(req.Msg.Content)
	if content == "" {
		return nil, toConnectError(s.logger, "SendMessage", invalidArgument("message is empty"))
	}
	if utf8.RuneCountInString(content) > maxMessageRunes {
		return nil, toConnectError(s.logger, "SendMessage", invalidArgument("message exceeds %d characters", maxMessageRunes))
	}

	msg := &models.Message{
		GroupID:  group.ID,
		SenderID: userID,
		Content:  content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, toConnectError(s.logger, "SendMessage", err)
	}
	for _, m := range group.Members {
		if m.ID == userID {
			msg.Sender = m
			break
		}
	}

	out := api.FromMessage(msg)
	delivered := s.publisher.Publish(realtime.NewGroupEvent(realtime.EventMessage, group.ID, out))

	s.logger.Debug("Message sent", "message_id", msg.ID, "group_id", group.ID, "delivered", delivered)
	return connect.NewResponse(&api.SendMessageResponse{Message: out}), nil
}

// ListMessages returns a group's chat history, oldest first. Members only.
func (s *MessageService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(s.logger, "ListMessages", err)
	}

	limit := pageLimit(req.Msg.Limit, defaultMessagePage, maxMessagePage)
	messages, err := s.store.ListMessagesByGroup(ctx, req.Msg.GroupID, limit)
	if err != nil {
		return nil, toConnectError(s.logger, "ListMessages", err)
	}

	return connect.NewResponse(&api.ListMessagesResponse{Messages: api.FromMessages(messages)}), nil
}
