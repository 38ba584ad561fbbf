package efesto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Client provides access to one Efesto-connected heating device. A Client is
// safe for concurrent use; the cached session is the only state shared
// between calls and it is guarded by the session manager.
type Client struct {
	baseURL  string
	deviceID string

	sessions *sessionManager
	dispatch *dispatcher
}

// NewClient creates a client for the device behind the given Efesto portal
// URL. No network traffic happens here: the session is established lazily on
// the first command and re-established whenever the vendor expires it.
func NewClient(baseURL, username, password, deviceID string, opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if deviceID == "" {
		return nil, errors.New("device ID is required")
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = newDefaultHTTPClient(cfg.requestTimeout)
	}

	sessions := &sessionManager{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		deviceID:   deviceID,
		httpClient: httpClient,
		logger:     cfg.logger,
	}

	return &Client{
		baseURL:  baseURL,
		deviceID: deviceID,
		sessions: sessions,
		dispatch: &dispatcher{
			baseURL:        baseURL,
			deviceID:       deviceID,
			sessions:       sessions,
			httpClient:     httpClient,
			logger:         cfg.logger,
			expiryMessages: cfg.expiryMessages,
		},
	}, nil
}

// Login eagerly establishes a session. Commands log in on demand, so
// calling Login is only needed to validate credentials up front.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.sessions.ensure(ctx)
	return err
}

// SystemModes returns the full device-status vocabulary in firmware order.
// The table ships with the client and only changes with firmware revisions,
// so no network call is made.
func (c *Client) SystemModes() []string {
	return SystemModes()
}

// Status fetches a fresh snapshot of the appliance. A device-level failure
// is reported through the snapshot's Status and Message, not as an error.
func (c *Client) Status(ctx context.Context) (*DeviceStatus, error) {
	env, err := c.dispatch.call(ctx, methodGetState, "1")
	if err != nil {
		return nil, err
	}
	if env.Status > 0 {
		return &DeviceStatus{Status: env.Status, Message: env.messageText()}, nil
	}

	var fields stateFields
	if err := json.Unmarshal(env.Message, &fields); err != nil {
		return nil, fmt.Errorf("%w: get-state payload: %v", ErrProtocol, err)
	}

	st := &DeviceStatus{
		Status:                 env.Status,
		DeviceStatus:           fields.DeviceStatus,
		DeviceStatusTranslated: TranslateStatus(fields.DeviceStatus),
		DeviceError:            fields.IsDeviceInAlarm,
		DeviceErrorTranslated:  TranslateAlarm(fields.IsDeviceInAlarm),
		AirTemperature:         fields.AirTemperature,
		SmokeTemperature:       fields.SmokeTemperature,
		RealPower:              fields.RealPower,
		LastSetPower:           fields.LastSetPower,
		LastSetAirTemperature:  fields.LastSetAirTemperature,
	}
	if env.Idle != nil {
		st.IdleInfo = env.Idle.Label
	}
	return st, nil
}

// SetOn ignites the stove.
func (c *Client) SetOn(ctx context.Context) (*CommandResult, error) {
	return c.power(ctx, true)
}

// SetOff shuts the stove down.
func (c *Client) SetOff(ctx context.Context) (*CommandResult, error) {
	return c.power(ctx, false)
}

func (c *Client) power(ctx context.Context, on bool) (*CommandResult, error) {
	method := methodHeaterOff
	if on {
		method = methodHeaterOn
	}

	env, err := c.dispatch.call(ctx, method, "1")
	if err != nil {
		return nil, err
	}
	return &CommandResult{Status: env.Status, Message: env.messageText()}, nil
}

// SetTemperature asks the stove for a new target room temperature. The value
// is passed through unvalidated; the vendor is authoritative on acceptable
// ranges and refuses bad values with a non-zero Status.
func (c *Client) SetTemperature(ctx context.Context, value int) (*CommandResult, error) {
	return c.writeParameter(ctx, paramAirTemperature, value)
}

// SetPower sets the stove's power (fan) level. Like SetTemperature, range
// checking is left to the vendor.
func (c *Client) SetPower(ctx context.Context, value int) (*CommandResult, error) {
	return c.writeParameter(ctx, paramPower, value)
}

func (c *Client) writeParameter(ctx context.Context, name string, value int) (*CommandResult, error) {
	env, err := c.dispatch.call(ctx, methodWriteQueue, fmt.Sprintf("%s=%d", name, value))
	if err != nil {
		return nil, err
	}
	if env.Status > 0 {
		return &CommandResult{Status: env.Status, Message: env.messageText()}, nil
	}

	// The queue ack is a map of parameter name to a per-parameter result;
	// anything above zero means that parameter was refused. Some firmware
	// revisions ack with a plain string instead, which is passed through.
	var ack map[string]int
	if err := json.Unmarshal(env.Message, &ack); err != nil {
		return &CommandResult{Status: env.Status, Message: env.messageText()}, nil
	}
	for param, code := range ack {
		if code > 0 {
			return &CommandResult{Status: code, Message: param + "-failed"}, nil
		}
	}
	return &CommandResult{Status: 0, Message: "ok"}, nil
}
