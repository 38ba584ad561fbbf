// Package efesto provides a client for controlling pellet heating devices
// connected to the Efesto web service.
//
// # Basic Usage
//
//	client, err := efesto.NewClient("https://evastampaggi.efesto.web2app.it",
//	    "user@example.com", "secret", "AB001122334455")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	status, err := client.Status(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(status.DeviceStatusTranslated)
//
// # Configuration
//
// The client can be configured using functional options:
//
//	client, err := efesto.NewClient(url, user, password, device,
//	    efesto.WithRequestTimeout(5*time.Second),
//	    efesto.WithLogger(slog.Default()),
//	)
//
// # Sessions
//
// The vendor authenticates with PHP session and remember cookies. The
// client logs in lazily on the first command, caches the session and
// transparently re-authenticates once when the vendor expires it. Session
// expiry observed twice in a row on the same command surfaces as
// ErrAuthentication.
//
// # Outcomes and errors
//
// Every vendor response carries a status integer, 0 meaning success. A
// non-zero status is an expected device-level outcome (stove busy, value
// refused) and is returned as data in CommandResult or DeviceStatus, never
// as an error. Errors are reserved for failures the caller cannot interpret
// as a device outcome: ErrAuthentication, ErrTransport and ErrProtocol, all
// matchable with errors.Is.
//
// # Security
//
// The Efesto portal serves self-signed certificates, so the default HTTP
// client skips TLS verification. Supply your own client with WithHTTPClient
// to pin certificates.
package efesto
