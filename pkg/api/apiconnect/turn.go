package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// TurnServiceName is the fully-qualified name of the TurnService.
const TurnServiceName = "tontine.v1.TurnService"

// Procedure paths, used for routing and in interceptors.
const (
	TurnServiceCreateTurnProcedure = "/tontine.v1.TurnService/CreateTurn"
	TurnServiceListTurnsProcedure  = "/tontine.v1.TurnService/ListTurns"
	TurnServicePayTurnProcedure    = "/tontine.v1.TurnService/PayTurn"
)

// TurnServiceClient is a client for the TurnService.
type TurnServiceClient interface {
	CreateTurn(context.Context, *connect.Request[api.CreateTurnRequest]) (*connect.Response[api.CreateTurnResponse], error)
	ListTurns(context.Context, *connect.Request[api.ListTurnsRequest]) (*connect.Response[api.ListTurnsResponse], error)
	PayTurn(context.Context, *connect.Request[api.PayTurnRequest]) (*connect.Response[api.PayTurnResponse], error)
}

// NewTurnServiceClient constructs a client for the TurnService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewTurnServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TurnServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &turnServiceClient{
		createTurn: connect.NewClient[api.CreateTurnRequest, api.CreateTurnResponse](httpClient, baseURL+TurnServiceCreateTurnProcedure, opts...),
		listTurns:  connect.NewClient[api.ListTurnsRequest, api.ListTurnsResponse](httpClient, baseURL+TurnServiceListTurnsProcedure, opts...),
		payTurn:    connect.NewClient[api.PayTurnRequest, api.PayTurnResponse](httpClient, baseURL+TurnServicePayTurnProcedure, opts...),
	}
}

type turnServiceClient struct {
	createTurn *connect.Client[api.CreateTurnRequest, api.CreateTurnResponse]
	listTurns  *connect.Client[api.ListTurnsRequest, api.ListTurnsResponse]
	payTurn    *connect.Client[api.PayTurnRequest, api.PayTurnResponse]
}

func (c *turnServiceClient) CreateTurn(ctx context.Context, req *connect.Request[api.CreateTurnRequest]) (*connect.Response[api.CreateTurnResponse], error) {
	return c.createTurn.CallUnary(ctx, req)
}

func (c *turnServiceClient) ListTurns(ctx context.Context, req *connect.Request[api.ListTurnsRequest]) (*connect.Response[api.ListTurnsResponse], error) {
	return c.listTurns.CallUnary(ctx, req)
}

func (c *turnServiceClient) PayTurn(ctx context.Context, req *connect.Request[api.PayTurnRequest]) (*connect.Response[api.PayTurnResponse], error) {
	return c.payTurn.CallUnary(ctx, req)
}

// TurnServiceHandler is implemented by the server side of the TurnService.
type TurnServiceHandler interface {
	CreateTurn(context.Context, *connect.Request[api.CreateTurnRequest]) (*connect.Response[api.CreateTurnResponse], error)
	ListTurns(context.Context, *connect.Request[api.ListTurnsRequest]) (*connect.Response[api.ListTurnsResponse], error)
	PayTurn(context.Context, *connect.Request[api.PayTurnRequest]) (*connect.Response[api.PayTurnResponse], error)
}

// NewTurnServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTurnServiceHandler(svc TurnServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(TurnServiceName, map[string]http.Handler{
		TurnServiceCreateTurnProcedure: connect.NewUnaryHandler(TurnServiceCreateTurnProcedure, svc.CreateTurn, opts...),
		TurnServiceListTurnsProcedure:  connect.NewUnaryHandler(TurnServiceListTurnsProcedure, svc.ListTurns, opts...),
		TurnServicePayTurnProcedure:    connect.NewUnaryHandler(TurnServicePayTurnProcedure, svc.PayTurn, opts...),
	})
}
