// internal/status/encode.go
package status

// EncodeLive converts a Snapshot into the live slots (0..SlotLiveCount-1).
// Layout is protocol-locked.
// No IO. No side effects.
func EncodeLive(s Snapshot) []uint16 {
	regs := make([]uint16, SlotLiveCount)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	if s.Armed {
		regs[SlotArmed] = 1
	}
	regs[SlotSessionSecondsHi] = uint16(s.SessionSeconds >> 16)
	regs[SlotSessionSecondsLo] = uint16(s.SessionSeconds)
	regs[SlotLastAction] = s.LastAction
	regs[SlotActionCount] = s.ActionCount

	return regs
}

// Encode converts a Snapshot into a full status block with the device name.
func Encode(s Snapshot, name string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)
	copy(regs, EncodeLive(s))

	// Slots SlotReservedStart..SlotReservedEnd stay zero.

	nameRegs := EncodeDeviceName(name)
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], nameRegs)

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
