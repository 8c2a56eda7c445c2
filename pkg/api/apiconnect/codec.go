// Package apiconnect exposes the tontine services over the Connect protocol
// with plain JSON bodies. It provides the handler and client constructors for
// each service, in the shape of generated Connect code.
package apiconnect

import (
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Codec marshals api messages with encoding/json. It registers under the
// "json" name so requests use Content-Type application/json.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// route mounts a service's procedures under its path prefix.
func route(serviceName string, handlers map[string]http.Handler) (string, http.Handler) {
	path := "/" + serviceName + "/"
	return path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func trimBase(url string) string {
	return strings.TrimRight(url, "/")
}
