package service

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/pkg/api"
)

// ProxyLoginPath is where an identity-aware proxy completes external logins.
const ProxyLoginPath = "/auth/proxy/login"

// Headers set by the proxy after it finished the provider's redirect flow.
const (
	ProxySecretHeader    = "X-Proxy-Secret"
	ForwardedUserHeader  = "X-Forwarded-User"
	ForwardedEmailHeader = "X-Forwarded-Email"
	ForwardedNameHeader  = "X-Forwarded-Preferred-Username"
)

var errProxyUnauthorized = errors.New("untrusted login proxy")

// ProxyLoginHandler exchanges a proxy-vouched external identity for a
// session token. The first login creates the account.
type ProxyLoginHandler struct {
	oauth      *auth.OAuthAuthenticator
	jwtManager *auth.JWTManager
	secret     []byte
	errors     *connect.ErrorWriter
	logger     *slog.Logger
}

// NewProxyLoginHandler trusts requests that carry secret in ProxySecretHeader.
func NewProxyLoginHandler(oauth *auth.OAuthAuthenticator, jwtManager *auth.JWTManager, secret string, logger *slog.Logger) *ProxyLoginHandler {
	return &ProxyLoginHandler{
		oauth:      oauth,
		jwtManager: jwtManager,
		secret:     []byte(secret),
		errors:     connect.NewErrorWriter(),
		logger:     logger,
	}
}

func (h *ProxyLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	given := []byte(r.Header.Get(ProxySecretHeader))
	if len(h.secret) == 0 || subtle.ConstantTimeCompare(given, h.secret) != 1 {
		h.logger.Warn("Proxy login rejected", "remote_addr", r.RemoteAddr)
		_ = h.errors.Write(w, r, connect.NewError(connect.CodeUnauthenticated, errProxyUnauthorized))
		return
	}

	externalID := strings.TrimSpace(r.Header.Get(ForwardedUserHeader))
	email := strings.ToLower(strings.TrimSpace(r.Header.Get(ForwardedEmailHeader)))
	if externalID == "" || email == "" {
		_ = h.errors.Write(w, r, toConnectError(h.logger, "ProxyLogin", invalidArgument("forwarded user and email are required")))
		return
	}
	name := strings.TrimSpace(r.Header.Get(ForwardedNameHeader))
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user, err := h.oauth.FindOrCreate(r.Context(), email, name, externalID)
	if err != nil {
		_ = h.errors.Write(w, r, toConnectError(h.logger, "ProxyLogin", err))
		return
	}
	token, err := h.jwtManager.Generate(user)
	if err != nil {
		_ = h.errors.Write(w, r, toConnectError(h.logger, "ProxyLogin", err))
		return
	}

	h.logger.Info("User logged in through proxy", "user_id", user.ID)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&api.LoginResponse{Token: token, User: api.ProfileFromUser(user)})
}
