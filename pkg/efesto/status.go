package efesto

// StatusUnknown is returned for codes outside the known tables.
const StatusUnknown = "UNKNOWN"

// deviceStatusLabels is the device-status vocabulary as enumerated by the
// Efesto firmware. The table is fixed at 20 entries and indexed directly by
// the deviceStatus code; slots the vendor left unlabeled hold "?".
var deviceStatusLabels = [20]string{
	"OFF",
	"START",
	"LOAD PELLETS",
	"FLAME LIGHT",
	"ON",
	"CLEANING FIRE-POT",
	"CLEANING FINAL",
	"ECO-STOP",
	"?",
	"NO PELLETS",
	"?",
	"CHIMNEY ALARM",
	"GRATE ERROR",
	"NTC2 ALARM",
	"NTC3 ALARM",
	"DOOR ALARM",
	"PRESS ALARM",
	"NTC1 ALARM",
	"ALARM TC1",
	"HIGH ALARM TC1",
}

// deviceAlarmLabels maps the isDeviceInAlarm register to the E-codes shown
// on the stove display. The register is a bit field, but the firmware only
// ever reports the combinations below.
var deviceAlarmLabels = map[int]string{
	0:   "None",
	1:   "E8",
	2:   "E4",
	4:   "E9 - Missing pellet",
	8:   "E7",
	16:  "E3",
	32:  "E1",
	48:  "E6",
	64:  "E2",
	72:  "E14",
	129: "E12",
	132: "E19",
	136: "E13",
}

// TranslateStatus returns the label for a device-status code. Codes outside
// the table map to StatusUnknown rather than failing; the vendor reserves
// slots the firmware may start using at any revision.
func TranslateStatus(code int) string {
	if code < 0 || code >= len(deviceStatusLabels) {
		return StatusUnknown
	}
	return deviceStatusLabels[code]
}

// TranslateAlarm returns the display E-code for an alarm register value, or
// StatusUnknown for values the firmware is not known to report.
func TranslateAlarm(code int) string {
	if label, ok := deviceAlarmLabels[code]; ok {
		return label
	}
	return StatusUnknown
}

// SystemModes returns the complete device-status vocabulary in firmware
// order. The returned slice is a copy; callers may modify it freely.
func SystemModes() []string {
	modes := make([]string, len(deviceStatusLabels))
	copy(modes, deviceStatusLabels[:])
	return modes
}
