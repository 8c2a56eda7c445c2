package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/middleware"
	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/notify"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/internal/storage/sqlite"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

const testPassword = "correct-horse"

// harness runs every service behind the auth interceptor on one test server.
type harness struct {
	store  *sqlite.SQLiteStore
	broker *realtime.Broker

	auth          apiconnect.AuthServiceClient
	groups        apiconnect.GroupServiceClient
	contributions apiconnect.ContributionServiceClient
	turns         apiconnect.TurnServiceClient
	messages      apiconnect.MessageServiceClient
	invitations   apiconnect.InvitationServiceClient
	users         apiconnect.UserServiceClient
}

// session is a registered user and their bearer token.
type session struct {
	user  *api.Profile
	token string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := realtime.NewBroker(32, nil, logger)
	jwtManager := auth.NewJWTManager("service-test-secret", time.Hour)
	recorder := activity.NewRecorder(store, broker, logger)
	workflow := membership.NewWorkflow(store, recorder, broker, notify.NewDispatcher(notify.Noop{}, nil, logger), logger)

	opts := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		apiconnect.AuthServiceRegisterProcedure,
		apiconnect.AuthServiceLoginProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(
		auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), jwtManager, store, logger), opts))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, workflow, recorder, logger), opts))
	mux.Handle(apiconnect.NewContributionServiceHandler(NewContributionService(store, recorder, logger), opts))
	mux.Handle(apiconnect.NewTurnServiceHandler(NewTurnService(store, workflow, recorder, logger), opts))
	mux.Handle(apiconnect.NewMessageServiceHandler(NewMessageService(store, broker, logger), opts))
	mux.Handle(apiconnect.NewInvitationServiceHandler(NewInvitationService(store, workflow, logger), opts))
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(store, logger), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &harness{
		store:         store,
		broker:        broker,
		auth:          apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:        apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		contributions: apiconnect.NewContributionServiceClient(http.DefaultClient, server.URL),
		turns:         apiconnect.NewTurnServiceClient(http.DefaultClient, server.URL),
		messages:      apiconnect.NewMessageServiceClient(http.DefaultClient, server.URL),
		invitations:   apiconnect.NewInvitationServiceClient(http.DefaultClient, server.URL),
		users:         apiconnect.NewUserServiceClient(http.DefaultClient, server.URL),
	}
}

func (h *harness) register(t *testing.T, email, name string) *session {
	t.Helper()
	resp, err := h.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:    email,
		Password: testPassword,
		Name:     name,
	}))
	require.NoError(t, err)
	return &session{user: resp.Msg.User, token: resp.Msg.Token}
}

// createGroup creates a weekly group with admin as its only member.
func (h *harness) createGroup(t *testing.T, admin *session, name string, amount float64) *api.Group {
	t.Helper()
	resp, err := h.groups.CreateGroup(context.Background(), as(admin, &api.CreateGroupRequest{
		Name:      name,
		Amount:    amount,
		Frequency: string(models.FrequencyWeekly),
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

func (h *harness) join(t *testing.T, s *session, groupID string) {
	t.Helper()
	_, err := h.groups.JoinGroup(context.Background(), as(s, &api.JoinGroupRequest{GroupID: groupID}))
	require.NoError(t, err)
}

// activityKinds returns the group's activity kinds, newest first.
func (h *harness) activityKinds(t *testing.T, groupID string) []models.ActivityKind {
	t.Helper()
	events, err := h.store.ListActivityByGroup(context.Background(), groupID, 100)
	require.NoError(t, err)
	kinds := make([]models.ActivityKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

// as builds a request carrying the session's token. A nil session sends none.
func as[T any](s *session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if s != nil {
		req.Header().Set("Authorization", "Bearer "+s.token)
	}
	return req
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func subscribe(t *testing.T, b *realtime.Broker, topic string) *realtime.Subscriber {
	t.Helper()
	sub := b.NewSubscriber()
	require.True(t, b.Subscribe(topic, sub))
	t.Cleanup(func() { b.Remove(sub) })
	return sub
}

// nextEvent waits for the next event of type want, skipping others.
func nextEvent(t *testing.T, sub *realtime.Subscriber, want realtime.EventType) realtime.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-sub.Events():
			require.True(t, ok, "subscriber closed")
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event received", want)
		}
	}
}
