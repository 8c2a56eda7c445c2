package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/tontine-app/tontine/internal/models"
)

// ErrBlockedEndpoint is returned for push endpoints that point at loopback,
// private, link-local or otherwise non-public addresses.
var ErrBlockedEndpoint = errors.New("push endpoint must be a public http(s) URL")

// carrier-grade NAT, not covered by netip.Addr.IsPrivate.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Push posts notifications as JSON to the user's registered push endpoint.
type Push struct {
	client *http.Client
}

// NewPush creates a push notifier whose requests time out after timeout.
// Connections to non-public addresses are refused after DNS resolution.
func NewPush(timeout time.Duration) *Push {
	dialer := &net.Dialer{Timeout: timeout, Control: guardDial}
	transport := &http.Transport{
		Proxy:               nil,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	return NewPushWithClient(&http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	})
}

// NewPushWithClient creates a push notifier that sends through client.
func NewPushWithClient(client *http.Client) *Push {
	return &Push{client: client}
}

func (p *Push) Notify(ctx context.Context, user *models.User, n Notification) error {
	if user.PushEndpoint == "" {
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, user.PushEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid push endpoint: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push to user %s failed: %w", user.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push to user %s: unexpected status %d", user.ID, resp.StatusCode)
	}
	return nil
}

// ValidateEndpoint checks a push endpoint before it is stored. Host names are
// not resolved here; the dialer of NewPush checks the resolved address.
func ValidateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Hostname() == "" || u.User != nil {
		return ErrBlockedEndpoint
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return ErrBlockedEndpoint
	}
	if addr, err := netip.ParseAddr(host); err == nil && !publicAddr(addr) {
		return ErrBlockedEndpoint
	}
	return nil
}

func guardDial(_, address string, _ syscall.RawConn) error {
	addrPort, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedEndpoint, address)
	}
	if !publicAddr(addrPort.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedEndpoint, address)
	}
	return nil
}

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}
