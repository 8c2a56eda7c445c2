package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "tontine.v1.GroupService"

// Procedure paths, used for routing and in interceptors.
const (
	GroupServiceCreateGroupProcedure     = "/tontine.v1.GroupService/CreateGroup"
	GroupServiceListMyGroupsProcedure    = "/tontine.v1.GroupService/ListMyGroups"
	GroupServiceGetGroupProcedure        = "/tontine.v1.GroupService/GetGroup"
	GroupServiceUpdateGroupProcedure     = "/tontine.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure     = "/tontine.v1.GroupService/DeleteGroup"
	GroupServiceJoinGroupProcedure       = "/tontine.v1.GroupService/JoinGroup"
	GroupServiceListActivityProcedure    = "/tontine.v1.GroupService/ListActivity"
	GroupServiceGetGroupSummaryProcedure = "/tontine.v1.GroupService/GetGroupSummary"
)

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ListActivity(context.Context, *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:     connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		listMyGroups:    connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		getGroup:        connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		updateGroup:     connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		deleteGroup:     connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		joinGroup:       connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		listActivity:    connect.NewClient[api.ListActivityRequest, api.ListActivityResponse](httpClient, baseURL+GroupServiceListActivityProcedure, opts...),
		getGroupSummary: connect.NewClient[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse](httpClient, baseURL+GroupServiceGetGroupSummaryProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup     *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	listMyGroups    *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	getGroup        *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	updateGroup     *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup     *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	joinGroup       *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	listActivity    *connect.Client[api.ListActivityRequest, api.ListActivityResponse]
	getGroupSummary *connect.Client[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListActivity(ctx context.Context, req *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error) {
	return c.listActivity.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	return c.getGroupSummary.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of the GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ListActivity(context.Context, *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(GroupServiceName, map[string]http.Handler{
		GroupServiceCreateGroupProcedure:     connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceListMyGroupsProcedure:    connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...),
		GroupServiceGetGroupProcedure:        connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceUpdateGroupProcedure:     connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceDeleteGroupProcedure:     connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceJoinGroupProcedure:       connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...),
		GroupServiceListActivityProcedure:    connect.NewUnaryHandler(GroupServiceListActivityProcedure, svc.ListActivity, opts...),
		GroupServiceGetGroupSummaryProcedure: connect.NewUnaryHandler(GroupServiceGetGroupSummaryProcedure, svc.GetGroupSummary, opts...),
	})
}
