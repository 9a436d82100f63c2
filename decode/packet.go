package decode

import (
	"fmt"
	"strings"

	"github.com/n0rx/ook315rx/pulse"
)

// Packet is a decoded PWM bit stream together with its hexadecimal
// rendering and the index in the Clean Pulse Sequence where the sync gap
// that opened it was found.
type Packet struct {
	Bits      string // e.g. "1010"
	Hex       string // MSB-first, final byte left-shifted to fill
	SyncIndex int
}

// Decode locates the preamble/sync-gap boundary in clean using profile's
// tolerance windows, then slices the pulses after it into PWM bits.
// minCleanPulses is checked first since a too-short sequence cannot
// possibly carry a preamble.
func Decode(clean []pulse.Pulse, minCleanPulses int, profile Profile) (Packet, error) {
	if len(clean) < minCleanPulses {
		return Packet{}, fmt.Errorf("%w: %d clean pulses, need at least %d", ErrSoftDecode, len(clean), minCleanPulses)
	}

	syncIdx, ok := locateSync(clean, profile)
	if !ok {
		return Packet{}, fmt.Errorf("%w: no preamble matched", ErrSoftDecode)
	}

	var bits strings.Builder
	for i := syncIdx + 1; i < len(clean); i++ {
		p := clean[i]
		if p.Level != pulse.High {
			continue
		}
		switch {
		case p.Duration > profile.BitOneMin:
			bits.WriteByte('1')
		case p.Duration > profile.BitZeroMin:
			bits.WriteByte('0')
		}
	}
	if bits.Len() == 0 {
		return Packet{}, fmt.Errorf("%w: no payload bits after sync gap", ErrSoftDecode)
	}

	bitStr := bits.String()
	return Packet{
		Bits:      bitStr,
		Hex:       PackHex(bitStr),
		SyncIndex: syncIdx,
	}, nil
}

// PackHex packs a string of '0'/'1' characters MSB-first into bytes,
// rendered as space-separated two-digit hex. A partial final byte is
// left-shifted so its bits occupy the high end, zero-padded below —
// reversible only if the bit count is recorded alongside, which Packet
// does via len(Bits).
func PackHex(bits string) string {
	var out strings.Builder
	byteVal := 0
	bitCount := 0
	first := true
	for _, c := range bits {
		byteVal = (byteVal << 1) | int(c-'0')
		bitCount++
		if bitCount == 8 {
			if !first {
				out.WriteByte(' ')
			}
			fmt.Fprintf(&out, "%02X", byteVal)
			first = false
			byteVal = 0
			bitCount = 0
		}
	}
	if bitCount > 0 {
		byteVal <<= (8 - bitCount)
		if !first {
			out.WriteByte(' ')
		}
		fmt.Fprintf(&out, "%02X", byteVal)
	}
	return out.String()
}
