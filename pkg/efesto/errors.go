package efesto

import "errors"

// Errors returned by the client. Device-level failures (a non-zero status in
// the vendor envelope) are never returned as errors; they are reported
// through CommandResult and DeviceStatus so callers can act on them.
var (
	// ErrAuthentication indicates the vendor rejected the credentials or a
	// session could not be (re-)established.
	ErrAuthentication = errors.New("authentication failed")

	// ErrTransport indicates the vendor endpoint could not be reached.
	ErrTransport = errors.New("transport failure")

	// ErrProtocol indicates the vendor response could not be understood.
	ErrProtocol = errors.New("protocol error")
)

// errSessionExpired is internal to the dispatch retry loop and never escapes
// a public operation.
var errSessionExpired = errors.New("session expired")
