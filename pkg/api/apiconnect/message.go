package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// MessageServiceName is the fully-qualified name of the MessageService.
const MessageServiceName = "tontine.v1.MessageService"

// Procedure paths, used for routing and in interceptors.
const (
	MessageServiceSendMessageProcedure  = "/tontine.v1.MessageService/SendMessage"
	MessageServiceListMessagesProcedure = "/tontine.v1.MessageService/ListMessages"
)

// MessageServiceClient is a client for the MessageService.
type MessageServiceClient interface {
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
	ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error)
}

// NewMessageServiceClient constructs a client for the MessageService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewMessageServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MessageServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &messageServiceClient{
		sendMessage:  connect.NewClient[api.SendMessageRequest, api.SendMessageResponse](httpClient, baseURL+MessageServiceSendMessageProcedure, opts...),
		listMessages: connect.NewClient[api.ListMessagesRequest, api.ListMessagesResponse](httpClient, baseURL+MessageServiceListMessagesProcedure, opts...),
	}
}

type messageServiceClient struct {
	sendMessage  *connect.Client[api.SendMessageRequest, api.SendMessageResponse]
	listMessages *connect.Client[api.ListMessagesRequest, api.ListMessagesResponse]
}

func (c *messageServiceClient) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}

func (c *messageServiceClient) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

// MessageServiceHandler is implemented by the server side of the MessageService.
type MessageServiceHandler interface {
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
	ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error)
}

// NewMessageServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewMessageServiceHandler(svc MessageServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(MessageServiceName, map[string]http.Handler{
		MessageServiceSendMessageProcedure:  connect.NewUnaryHandler(MessageServiceSendMessageProcedure, svc.SendMessage, opts...),
		MessageServiceListMessagesProcedure: connect.NewUnaryHandler(MessageServiceListMessagesProcedure, svc.ListMessages, opts...),
	})
}
