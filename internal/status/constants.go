// internal/status/constants.go
package status

// Controller status block layout constants.
// These values define the published register map and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per controller.
const SlotsPerDevice = 20

// ---- LIVE SLOTS ----

// SlotHealthCode holds the input health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last input error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (seconds) input has been failing.
const SlotSecondsInError = 2

// SlotArmed is 1 while the session is armed.
const SlotArmed = 3

// SlotSessionSecondsHi and SlotSessionSecondsLo hold the armed time in seconds (32-bit, big-endian word order).
const SlotSessionSecondsHi = 4
const SlotSessionSecondsLo = 5

// SlotLastAction holds the code of the last emitted keystroke (0 = none).
const SlotLastAction = 6

// SlotActionCount holds emitted keystrokes since start, wrapping at 65536.
const SlotActionCount = 7

// SlotLiveCount is the number of live slots starting at 0.
const SlotLiveCount = 8

// ---- RESERVED RANGE ----

// Slots 8-10 are reserved for future use.
const SlotReservedStart = 8
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the first read.
const HealthUnknown uint16 = 0

// HealthOK represents a readable input.
const HealthOK uint16 = 1

// HealthError represents failing input reads.
const HealthError uint16 = 2
