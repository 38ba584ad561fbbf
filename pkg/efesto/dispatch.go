package efesto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const commandPath = "/en/ajax/action/frontend/response/ajax/"

// defaultExpiryMessages are the vendor message fragments that classify a
// non-zero envelope status as session expiry. The vendor documents no
// dedicated expiry code, so the mapping lives in this one table and can be
// corrected via WithSessionExpiryMessages without touching dispatch logic.
var defaultExpiryMessages = []string{
	"login",
	"session",
	"unauthorized",
	"not authenticated",
}

// dispatcher encodes one logical command into the vendor request shape,
// sends it over the current session and normalizes the response envelope.
type dispatcher struct {
	baseURL  string
	deviceID string

	sessions   *sessionManager
	httpClient *http.Client
	logger     *slog.Logger

	expiryMessages []string
}

// call runs one command under the single-retry-after-invalidation policy:
// if the response signals an expired session, the session is invalidated,
// re-established and the command re-sent exactly once. A second expiry
// surfaces as an authentication error; nothing else is ever retried here.
func (d *dispatcher) call(ctx context.Context, method, params string) (*envelope, error) {
	env, err := d.attempt(ctx, method, params)
	if !errors.Is(err, errSessionExpired) {
		return env, err
	}

	if d.logger != nil {
		d.logger.Debug("session expired, retrying command", "method", method)
	}

	env, err = d.attempt(ctx, method, params)
	if errors.Is(err, errSessionExpired) {
		return nil, fmt.Errorf("%w: session rejected again after re-login on %s", ErrAuthentication, method)
	}
	return env, err
}

// attempt performs a single command exchange. It reports errSessionExpired
// after invalidating the session it used, so call can retry with a fresh
// one.
func (d *dispatcher) attempt(ctx context.Context, method, params string) (*envelope, error) {
	s, err := d.sessions.ensure(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"method": {method},
		"params": {params},
		"device": {d.deviceID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+commandPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build command request: %v", ErrProtocol, err)
	}
	req.Header = vendorHeaders(d.baseURL, d.deviceID, s.cookie())

	if d.logger != nil {
		d.logger.Debug("command sent", "method", method, "params", params)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		if d.logger != nil {
			d.logger.Error("command transport failure", "method", method, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to envelope parsing
	case http.StatusFound, http.StatusUnauthorized, http.StatusForbidden:
		// The vendor bounces unauthenticated AJAX calls back to the login
		// page instead of answering with a JSON envelope.
		d.sessions.invalidate(s)
		return nil, errSessionExpired
	default:
		// A vendor outage is an expected device-level outcome, reported as
		// data so callers can surface it without unwrapping errors.
		return unavailableEnvelope(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	env, err := parseEnvelope(body)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("malformed vendor response", "method", method, "error", err)
		}
		return nil, err
	}

	if env.Status > 0 && d.isExpiryMessage(env.messageText()) {
		d.sessions.invalidate(s)
		return nil, errSessionExpired
	}

	return env, nil
}

// parseEnvelope decodes a vendor response body. A null body is a known
// vendor quirk and maps to a generic device failure; anything that is not a
// JSON object with a status field is a protocol error.
func parseEnvelope(body []byte) (*envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &envelope{
			Status:  1,
			Message: json.RawMessage(`"unknown error at Efesto end"`),
		}, nil
	}

	var probe struct {
		Status *int `json:"status"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %v", ErrProtocol, err)
	}
	if probe.Status == nil {
		return nil, fmt.Errorf("%w: response envelope has no status field", ErrProtocol)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid response envelope: %v", ErrProtocol, err)
	}
	return &env, nil
}

func unavailableEnvelope() *envelope {
	return &envelope{
		Status:  1,
		Message: json.RawMessage(`"Efesto server is unavailable"`),
	}
}

func (d *dispatcher) isExpiryMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, fragment := range d.expiryMessages {
		if strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
