package efesto

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockVendor emulates the Efesto portal: cookie-based login plus the AJAX
// command endpoint. It records logins and commands so tests can assert on
// the exact number of exchanges.
type mockVendor struct {
	username string
	password string
	srv      *httptest.Server

	mu           sync.Mutex
	nextID       int
	valid        map[string]bool // remember token -> still accepted
	logins       int             // credential posts that succeeded
	commands     int
	lastMethod   string
	lastParams   string
	deviceStatus int
	deviceAlarm  int

	rejectAll   bool   // answer every command with the expiry signal
	expiryStyle string // "redirect" or "message"

	forcedStatus int // when forcedBody is set, returned for commands
	forcedBody   string
}

func newMockVendor(t *testing.T) *mockVendor {
	v := &mockVendor{
		username:    "user@example.com",
		password:    "secret",
		valid:       make(map[string]bool),
		expiryStyle: "redirect",
	}

	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, v.handleLogin)
	mux.HandleFunc(commandPath, v.handleCommand)

	v.srv = httptest.NewServer(mux)
	t.Cleanup(v.srv.Close)

	return v
}

func (v *mockVendor) newClient(t *testing.T, opts ...ClientOption) *Client {
	client, err := NewClient(v.srv.URL, v.username, v.password, "AB001122334455", opts...)
	require.NoError(t, err)
	return client
}

func (v *mockVendor) loginCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.logins
}

func (v *mockVendor) commandCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.commands
}

func (v *mockVendor) last() (method, params string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastMethod, v.lastParams
}

// revokeSessions makes every issued remember token invalid, so the next
// command observes an expired session.
func (v *mockVendor) revokeSessions() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for token := range v.valid {
		v.valid[token] = false
	}
}

// forceResponse makes every subsequent command return the given body and
// HTTP status verbatim, after the session cookie check.
func (v *mockVendor) forceResponse(httpStatus int, body string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forcedStatus = httpStatus
	v.forcedBody = body
}

func (v *mockVendor) handleLogin(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if r.Method == http.MethodGet {
		v.nextID++
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: fmt.Sprintf("php-%d", v.nextID)})
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// A failed login redirects back without a remember cookie, exactly like
	// the real portal.
	if r.PostFormValue("login[username]") != v.username || r.PostFormValue("login[password]") != v.password {
		w.Header().Set("Location", loginPath)
		w.WriteHeader(http.StatusFound)
		return
	}

	v.nextID++
	token := fmt.Sprintf("remember-%d", v.nextID)
	v.valid[token] = true
	v.logins++

	http.SetCookie(w, &http.Cookie{Name: "remember", Value: token})
	w.Header().Set("Location", "/en/heaters/")
	w.WriteHeader(http.StatusFound)
}

func (v *mockVendor) handleCommand(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.commands++

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v.lastMethod = r.PostFormValue("method")
	v.lastParams = r.PostFormValue("params")

	if v.rejectAll || !v.sessionOK(r) {
		v.writeExpiry(w)
		return
	}

	if v.forcedBody != "" {
		w.WriteHeader(v.forcedStatus)
		fmt.Fprint(w, v.forcedBody)
		return
	}

	switch v.lastMethod {
	case methodGetState:
		v.writeJSON(w, map[string]any{
			"status": 0,
			"message": map[string]any{
				"deviceStatus":          v.deviceStatus,
				"isDeviceInAlarm":       v.deviceAlarm,
				"airTemperature":        21.5,
				"smokeTemperature":      142.0,
				"realPower":             2,
				"lastSetAirTemperature": 22,
				"lastSetPower":          3,
			},
			"idle": nil,
		})
	case methodHeaterOn:
		v.deviceStatus = 4 // ON
		v.writeJSON(w, map[string]any{"status": 0, "message": "ok"})
	case methodHeaterOff:
		v.deviceStatus = 0 // OFF
		v.writeJSON(w, map[string]any{"status": 0, "message": "ok"})
	case methodWriteQueue:
		name, _, _ := strings.Cut(v.lastParams, "=")
		v.writeJSON(w, map[string]any{"status": 0, "message": map[string]int{name: 0}})
	default:
		v.writeJSON(w, map[string]any{"status": 1, "message": "unknown method"})
	}
}

func (v *mockVendor) sessionOK(r *http.Request) bool {
	for _, c := range r.Cookies() {
		if c.Name == "remember" && v.valid[c.Value] {
			return true
		}
	}
	return false
}

func (v *mockVendor) writeExpiry(w http.ResponseWriter) {
	if v.expiryStyle == "message" {
		v.writeJSON(w, map[string]any{"status": 1, "message": "Please login again"})
		return
	}
	w.Header().Set("Location", loginPath)
	w.WriteHeader(http.StatusFound)
}

func (v *mockVendor) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		panic(err)
	}
}
