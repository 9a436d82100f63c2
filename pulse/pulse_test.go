package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncode_alternatesAndSumsToInputLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		binary := rapid.SliceOf(rapid.SampledFrom([]byte{0, 1})).Draw(t, "binary")

		out := Encode(binary)

		sum := 0
		for i, p := range out {
			sum += p.Duration
			if i > 0 {
				assert.NotEqual(t, out[i-1].Level, p.Level, "adjacent runs must alternate")
			}
			assert.Greater(t, p.Duration, 0)
		}
		assert.Equal(t, len(binary), sum)
	})
}

func TestEncode_knownSequence(t *testing.T) {
	out := Encode([]byte{0, 0, 1, 1, 1, 0})
	require.Equal(t, []Pulse{
		{Level: Low, Duration: 2},
		{Level: High, Duration: 3},
		{Level: Low, Duration: 1},
	}, out)
}

func TestEncode_empty(t *testing.T) {
	assert.Nil(t, Encode(nil))
	assert.Nil(t, Encode([]byte{}))
}

func TestClean_trimsLeadingAndTrailingLow(t *testing.T) {
	in := []Pulse{
		{Level: Low, Duration: 500},
		{Level: High, Duration: 93},
		{Level: Low, Duration: 150},
		{Level: Low, Duration: 500}, // not reachable post-Encode, but Clean must not choke
	}
	out := Clean(in, 20)
	require.Len(t, out, 1)
	assert.Equal(t, High, out[0].Level)
}

func TestClean_dropsAndMergesShortRuns(t *testing.T) {
	// H93 L150 H5(noise) L150 H93 -- the H5 run is too short and sits
	// between two Low runs, so dropping it merges them into one Low whose
	// duration includes the dropped run: 150 + 5 + 150.
	in := []Pulse{
		{Level: High, Duration: 93},
		{Level: Low, Duration: 150},
		{Level: High, Duration: 5},
		{Level: Low, Duration: 150},
		{Level: High, Duration: 93},
	}
	out := Clean(in, 20)
	require.Equal(t, []Pulse{
		{Level: High, Duration: 93},
		{Level: Low, Duration: 305},
		{Level: High, Duration: 93},
	}, out)
}

func TestClean_allShortLeavesNothing(t *testing.T) {
	in := []Pulse{
		{Level: High, Duration: 3},
		{Level: Low, Duration: 2},
		{Level: High, Duration: 1},
	}
	assert.Empty(t, Clean(in, 20))
}

func TestClean_outputAlwaysAlternates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		minPulse := rapid.IntRange(0, 30).Draw(t, "minPulse")
		pulses := make([]Pulse, n)
		level := Low
		for i := range pulses {
			pulses[i] = Pulse{Level: level, Duration: rapid.IntRange(1, 250).Draw(t, "dur")}
			if level == Low {
				level = High
			} else {
				level = Low
			}
		}
		out := Clean(pulses, minPulse)
		for i := 1; i < len(out); i++ {
			assert.NotEqual(t, out[i-1].Level, out[i].Level)
		}
		if len(out) > 0 {
			assert.NotEqual(t, Low, out[0].Level, "leading Low must be trimmed")
			assert.NotEqual(t, Low, out[len(out)-1].Level, "trailing Low must be trimmed")
		}
	})
}
