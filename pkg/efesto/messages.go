package efesto

import "encoding/json"

// Command methods accepted by the vendor's AJAX endpoint.
const (
	methodGetState   = "get-state"
	methodHeaterOn   = "heater-on"
	methodHeaterOff  = "heater-off"
	methodWriteQueue = "write-parameters-queue"
)

// Write-parameters-queue parameter names.
const (
	paramAirTemperature = "set-air-temperature"
	paramPower          = "set-power"
)

// envelope is the wire shape every vendor response shares: a status
// discriminant plus a command-specific message payload. The message field is
// a plain string on power commands, an object on get-state and a parameter
// map on write-parameters-queue, hence the RawMessage.
type envelope struct {
	Status  int             `json:"status"`
	Message json.RawMessage `json:"message"`
	Idle    *idleInfo       `json:"idle"`
}

type idleInfo struct {
	Label string `json:"idle_label"`
}

// messageText renders the message field for human consumption. A JSON
// string is unquoted; any other payload is passed through verbatim so a
// non-zero status always remains diagnosable.
func (e *envelope) messageText() string {
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	return string(e.Message)
}

// stateFields is the message object returned by get-state.
type stateFields struct {
	DeviceStatus          int     `json:"deviceStatus"`
	IsDeviceInAlarm       int     `json:"isDeviceInAlarm"`
	AirTemperature        float64 `json:"airTemperature"`
	SmokeTemperature      float64 `json:"smokeTemperature"`
	RealPower             int     `json:"realPower"`
	LastSetAirTemperature int     `json:"lastSetAirTemperature"`
	LastSetPower          int     `json:"lastSetPower"`
}

// CommandResult is the uniform outcome of a mutation command. Status 0 means
// the vendor accepted the command; any other value is a device-level failure
// described by Message. Device-level failures are expected outcomes (stove
// busy, value refused) and are never returned as errors.
type CommandResult struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Ok reports whether the vendor accepted the command.
func (r *CommandResult) Ok() bool {
	return r.Status == 0
}

// DeviceStatus is a snapshot of the appliance taken by Client.Status.
// Snapshots are built fresh on every call and never cached; the stove
// changes state on its own. When Status is non-zero the device-specific
// fields are unset and Message carries the vendor diagnostic.
type DeviceStatus struct {
	Status                 int     `json:"status"`
	Message                string  `json:"message,omitempty"`
	DeviceStatus           int     `json:"deviceStatus"`
	DeviceStatusTranslated string  `json:"deviceStatusTranslated"`
	DeviceError            int     `json:"deviceError"`
	DeviceErrorTranslated  string  `json:"deviceErrorTranslated"`
	AirTemperature         float64 `json:"airTemperature"`
	SmokeTemperature       float64 `json:"smokeTemperature"`
	RealPower              int     `json:"realPower"`
	LastSetPower           int     `json:"lastSetPower"`
	LastSetAirTemperature  int     `json:"lastSetAirTemperature"`
	IdleInfo               string  `json:"idleInfo,omitempty"`
}

// Ok reports whether the snapshot was taken successfully.
func (s *DeviceStatus) Ok() bool {
	return s.Status == 0
}
