package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// ContributionServiceName is the fully-qualified name of the ContributionService.
const ContributionServiceName = "tontine.v1.ContributionService"

// Procedure paths, used for routing and in interceptors.
const (
	ContributionServiceCreateContributionProcedure     = "/tontine.v1.ContributionService/CreateContribution"
	ContributionServiceListContributionsProcedure      = "/tontine.v1.ContributionService/ListContributions"
	ContributionServiceListGroupContributionsProcedure = "/tontine.v1.ContributionService/ListGroupContributions"
)

// ContributionServiceClient is a client for the ContributionService.
type ContributionServiceClient interface {
	CreateContribution(context.Context, *connect.Request[api.CreateContributionRequest]) (*connect.Response[api.CreateContributionResponse], error)
	ListContributions(context.Context, *connect.Request[api.ListContributionsRequest]) (*connect.Response[api.ListContributionsResponse], error)
	ListGroupContributions(context.Context, *connect.Request[api.ListGroupContributionsRequest]) (*connect.Response[api.ListGroupContributionsResponse], error)
}

// NewContributionServiceClient constructs a client for the ContributionService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewContributionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ContributionServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &contributionServiceClient{
		createContribution:     connect.NewClient[api.CreateContributionRequest, api.CreateContributionResponse](httpClient, baseURL+ContributionServiceCreateContributionProcedure, opts...),
		listContributions:      connect.NewClient[api.ListContributionsRequest, api.ListContributionsResponse](httpClient, baseURL+ContributionServiceListContributionsProcedure, opts...),
		listGroupContributions: connect.NewClient[api.ListGroupContributionsRequest, api.ListGroupContributionsResponse](httpClient, baseURL+ContributionServiceListGroupContributionsProcedure, opts...),
	}
}

type contributionServiceClient struct {
	createContribution     *connect.Client[api.CreateContributionRequest, api.CreateContributionResponse]
	listContributions      *connect.Client[api.ListContributionsRequest, api.ListContributionsResponse]
	listGroupContributions *connect.Client[api.ListGroupContributionsRequest, api.ListGroupContributionsResponse]
}

func (c *contributionServiceClient) CreateContribution(ctx context.Context, req *connect.Request[api.CreateContributionRequest]) (*connect.Response[api.CreateContributionResponse], error) {
	return c.createContribution.CallUnary(ctx, req)
}

func (c *contributionServiceClient) ListContributions(ctx context.Context, req *connect.Request[api.ListContributionsRequest]) (*connect.Response[api.ListContributionsResponse], error) {
	return c.listContributions.CallUnary(ctx, req)
}

func (c *contributionServiceClient) ListGroupContributions(ctx context.Context, req *connect.Request[api.ListGroupContributionsRequest]) (*connect.Response[api.ListGroupContributionsResponse], error) {
	return c.listGroupContributions.CallUnary(ctx, req)
}

// ContributionServiceHandler is implemented by the server side of the ContributionService.
type ContributionServiceHandler interface {
	CreateContribution(context.Context, *connect.Request[api.CreateContributionRequest]) (*connect.Response[api.CreateContributionResponse], error)
	ListContributions(context.Context, *connect.Request[api.ListContributionsRequest]) (*connect.Response[api.ListContributionsResponse], error)
	ListGroupContributions(context.Context, *connect.Request[api.ListGroupContributionsRequest]) (*connect.Response[api.ListGroupContributionsResponse], error)
}

// NewContributionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewContributionServiceHandler(svc ContributionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(ContributionServiceName, map[string]http.Handler{
		ContributionServiceCreateContributionProcedure:     connect.NewUnaryHandler(ContributionServiceCreateContributionProcedure, svc.CreateContribution, opts...),
		ContributionServiceListContributionsProcedure:      connect.NewUnaryHandler(ContributionServiceListContributionsProcedure, svc.ListContributions, opts...),
		ContributionServiceListGroupContributionsProcedure: connect.NewUnaryHandler(ContributionServiceListGroupContributionsProcedure, svc.ListGroupContributions, opts...),
	})
}
