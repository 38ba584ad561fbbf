package efesto

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// headerAccept mirrors the browser Accept header the vendor frontend is
// known to accept.
const headerAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp," +
	"image/apng,*/*;q=0.8,application/signed-exchange;v=b3"

const loginPath = "/en/login/"

type sessionState int

const (
	sessionAbsent sessionState = iota
	sessionValid
	sessionInvalid
)

// session is the authenticated context the vendor requires on every device
// command. Sessions are never persisted across process restarts.
type session struct {
	sessionID  string // PHPSESSID cookie
	remember   string // remember cookie issued on successful login
	obtainedAt time.Time
}

// cookie renders the Cookie header value for this session. The vendor
// expects the cookies hand-built, not jar-managed.
func (s *session) cookie() string {
	if s == nil || s.sessionID == "" {
		return ""
	}
	if s.remember == "" {
		return "PHPSESSID=" + s.sessionID
	}
	return "PHPSESSID=" + s.sessionID + "; remember=" + s.remember
}

// vendorHeaders builds the header set for requests to the vendor frontend.
// Origin and Referer must both be present or the AJAX endpoint answers with
// the login page.
func vendorHeaders(baseURL, deviceID, cookie string) http.Header {
	h := http.Header{
		"Accept":       {headerAccept},
		"Content-Type": {"application/x-www-form-urlencoded"},
		"Origin":       {baseURL},
		"Referer":      {baseURL + "/en/heaters/action/manage/heater/" + deviceID + "/"},
	}
	if cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}

// sessionManager guarantees that every outgoing command carries a currently
// valid session, re-authenticating reactively when a command observes
// expiry. The vendor exposes no session-lifetime contract, so there is no
// timer-based refresh. All state transitions happen under one lock, which
// also serializes concurrent re-authentication attempts.
type sessionManager struct {
	baseURL  string
	username string
	password string
	deviceID string

	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	state   sessionState
	current *session
}

// ensure returns the cached session, performing the login exchange first if
// no valid session exists. At most one login exchange happens per call.
func (m *sessionManager) ensure(ctx context.Context) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == sessionValid {
		return m.current, nil
	}

	s, err := m.login(ctx)
	if err != nil {
		return nil, err
	}

	m.current = s
	m.state = sessionValid

	if m.logger != nil {
		m.logger.Debug("session established", "url", m.baseURL)
	}

	return s, nil
}

// invalidate marks the given session expired. A session that has already
// been replaced by a newer login is left alone, so a slow command failing
// on a stale session cannot clobber a freshly obtained one.
func (m *sessionManager) invalidate(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != s || m.state != sessionValid {
		return
	}
	m.state = sessionInvalid

	if m.logger != nil {
		m.logger.Warn("session invalidated", "age", time.Since(s.obtainedAt))
	}
}

// login performs the vendor's two-step exchange: fetch the login page for a
// PHPSESSID cookie, then post the credentials for a remember cookie. Any
// failure here, including an unreachable endpoint, is an authentication
// failure; the caller cannot interpret it as a device outcome.
func (m *sessionManager) login(ctx context.Context) (*session, error) {
	loginURL := m.baseURL + loginPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build session request: %v", ErrAuthentication, err)
	}
	req.Header = vendorHeaders(m.baseURL, m.deviceID, "")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: auth endpoint unreachable: %v", ErrAuthentication, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: login page returned HTTP %d", ErrAuthentication, resp.StatusCode)
	}

	sessionID := cookieValue(resp, "PHPSESSID")
	if sessionID == "" {
		return nil, fmt.Errorf("%w: no session cookie issued by %s", ErrAuthentication, loginURL)
	}

	form := url.Values{
		"login[username]": {m.username},
		"login[password]": {m.password},
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build login request: %v", ErrAuthentication, err)
	}
	req.Header = vendorHeaders(m.baseURL, m.deviceID, "PHPSESSID="+sessionID)

	resp, err = m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: auth endpoint unreachable: %v", ErrAuthentication, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: login returned HTTP %d", ErrAuthentication, resp.StatusCode)
	}

	// The vendor answers a successful login with a redirect carrying the
	// remember cookie. No remember cookie means the credentials were
	// rejected, regardless of the HTTP status.
	remember := cookieValue(resp, "remember")
	if remember == "" {
		return nil, fmt.Errorf("%w: credentials rejected for %q", ErrAuthentication, m.username)
	}

	return &session{
		sessionID:  sessionID,
		remember:   remember,
		obtainedAt: time.Now(),
	}, nil
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
