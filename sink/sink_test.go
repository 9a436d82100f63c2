package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/pulse"
)

func TestNew_withoutDiagDirHasNoFileLogger(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	assert.Nil(t, r.diagPattern)
}

func TestNew_withDiagDirRotatesOnDemand(t *testing.T) {
	r, err := New(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, r.diagPattern)

	r.Captured([]pulse.Pulse{{Level: pulse.High, Duration: 93}}, decode.Packet{Bits: "1010", Hex: "A0", SyncIndex: 0})
	assert.NotNil(t, r.diagFile)
}

func TestSpaceEvery8(t *testing.T) {
	assert.Equal(t, "10101010 11", spaceEvery8("1010101011"))
	assert.Equal(t, "1010", spaceEvery8("1010"))
}

func TestDumpPulses_wrapsEveryEightTokens(t *testing.T) {
	pulses := make([]pulse.Pulse, 9)
	for i := range pulses {
		pulses[i] = pulse.Pulse{Level: pulse.High, Duration: i}
	}
	out := dumpPulses(pulses)
	lines := 0
	for _, c := range out {
		if c == '\n' {
			lines++
		}
	}
	assert.Equal(t, 1, lines, "9 tokens wrapped every 8 should produce exactly one newline")
}
