package efesto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateStatus_KnownCodes(t *testing.T) {
	assert.Equal(t, "OFF", TranslateStatus(0))
	assert.Equal(t, "START", TranslateStatus(1))
	assert.Equal(t, "LOAD PELLETS", TranslateStatus(2))
	assert.Equal(t, "FLAME LIGHT", TranslateStatus(3))
	assert.Equal(t, "ON", TranslateStatus(4))
	assert.Equal(t, "CLEANING FIRE-POT", TranslateStatus(5))
	assert.Equal(t, "CLEANING FINAL", TranslateStatus(6))
	assert.Equal(t, "ECO-STOP", TranslateStatus(7))
	assert.Equal(t, "NO PELLETS", TranslateStatus(9))
	assert.Equal(t, "HIGH ALARM TC1", TranslateStatus(19))
}

func TestTranslateStatus_ReservedSlots(t *testing.T) {
	// The firmware reserves codes 8 and 10; they are valid but unlabeled.
	assert.Equal(t, "?", TranslateStatus(8))
	assert.Equal(t, "?", TranslateStatus(10))
}

func TestTranslateStatus_OutOfRange(t *testing.T) {
	assert.Equal(t, StatusUnknown, TranslateStatus(-1))
	assert.Equal(t, StatusUnknown, TranslateStatus(20))
	assert.Equal(t, StatusUnknown, TranslateStatus(999))
}

func TestTranslateAlarm(t *testing.T) {
	assert.Equal(t, "None", TranslateAlarm(0))
	assert.Equal(t, "E8", TranslateAlarm(1))
	assert.Equal(t, "E9 - Missing pellet", TranslateAlarm(4))
	assert.Equal(t, "E14", TranslateAlarm(72))
	assert.Equal(t, "E13", TranslateAlarm(136))
}

func TestTranslateAlarm_Unknown(t *testing.T) {
	assert.Equal(t, StatusUnknown, TranslateAlarm(5))
	assert.Equal(t, StatusUnknown, TranslateAlarm(-1))
}

func TestSystemModes_FixedTable(t *testing.T) {
	modes := SystemModes()
	require.Len(t, modes, 20)

	assert.Equal(t, "OFF", modes[0])
	assert.Equal(t, "ON", modes[4])
	assert.Equal(t, "CLEANING FIRE-POT", modes[5])
	assert.Equal(t, "HIGH ALARM TC1", modes[19])
}

func TestSystemModes_ReturnsCopy(t *testing.T) {
	first := SystemModes()
	first[0] = "mutated"

	second := SystemModes()
	assert.Equal(t, "OFF", second[0])
	require.Len(t, second, 20)
}
