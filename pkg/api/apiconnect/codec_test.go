package apiconnect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tontine-app/tontine/pkg/api"
)

type stubUsers struct{}

func (stubUsers) ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return connect.NewResponse(&api.ListUsersResponse{Users: []*api.User{{ID: "u2", Name: "Bob"}}}), nil
}

func (stubUsers) GetReliability(_ context.Context, req *connect.Request[api.GetReliabilityRequest]) (*connect.Response[api.GetReliabilityResponse], error) {
	if req.Msg.UserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("userId required"))
	}
	return connect.NewResponse(&api.GetReliabilityResponse{
		Reliability: &api.Reliability{UserID: req.Msg.UserID, Score: 50},
	}), nil
}

func newUserServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewUserServiceHandler(stubUsers{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCodec_PlainJSONOnTheWire(t *testing.T) {
	server := newUserServer(t)

	resp, err := http.Post(server.URL+UserServiceGetReliabilityProcedure, "application/json",
		strings.NewReader(`{"userId":"u1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "u1", decoded["reliability"]["userId"])
	assert.Equal(t, 50.0, decoded["reliability"]["score"])
}

func TestCodec_EmptyBody(t *testing.T) {
	server := newUserServer(t)

	resp, err := http.Post(server.URL+UserServiceListUsersProcedure, "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoute_UnknownProcedure(t *testing.T) {
	server := newUserServer(t)

	resp, err := http.Post(server.URL+"/"+UserServiceName+"/DeleteEverything", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_RoundTrip(t *testing.T) {
	server := newUserServer(t)
	client := NewUserServiceClient(http.DefaultClient, server.URL+"/")

	resp, err := client.GetReliability(context.Background(), connect.NewRequest(&api.GetReliabilityRequest{UserID: "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Msg.Reliability.UserID)

	_, err = client.GetReliability(context.Background(), connect.NewRequest(&api.GetReliabilityRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	users, err := client.ListUsers(context.Background(), connect.NewRequest(&api.ListUsersRequest{}))
	require.NoError(t, err)
	require.Len(t, users.Msg.Users, 1)
	assert.Equal(t, "Bob", users.Msg.Users[0].Name)
}
