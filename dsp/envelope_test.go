package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/radio"
)

func TestMagnitudes_decimatesAndSubtractsLeak(t *testing.T) {
	view := radio.IQView([]int16{
		10, 0, 99, 99, 99, 99, // decimation 3: sample 0, skip 1-2
		13, 4, 99, 99, 99, 99, // sample 3
	})
	cal := capture.Vector{ILeak: 10, QLeak: 0}
	mag := Magnitudes(view, cal, 3)

	require.Len(t, mag, 2)
	assert.InDelta(t, 0, mag[0], 1e-9)
	assert.InDelta(t, math.Hypot(3, 4), mag[1], 1e-9)
}

func TestSmooth_firstSampleUnchanged(t *testing.T) {
	mag := []float64{5, 10, 10, 10}
	peak := Smooth(mag, 0.2)
	assert.Equal(t, 5.0, mag[0])
	assert.Equal(t, peak, mag[len(mag)-1], "peak should settle at the final smoothed sample for a rising step")
	for i := 1; i < len(mag); i++ {
		assert.LessOrEqual(t, mag[i-1], mag[i]+1e-9, "smoothed trace should climb monotonically on a rising step")
	}
}

func TestSmooth_emptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Smooth(nil, 0.2))
}

func TestBinarize_thresholdsAtPeakRatio(t *testing.T) {
	mag := []float64{0, 10, 40, 100}
	out := Binarize(mag, 100, 0.4)
	assert.Equal(t, []byte{0, 0, 0, 1}, out)
}

func TestEnvelope_endToEnd(t *testing.T) {
	view := radio.IQView([]int16{0, 0, 0, 0, 50, 0, 0, 0})
	cal := capture.Vector{}
	binary, peak := Envelope(view, cal, 1, 0.5, 0.4)
	require.Len(t, binary, 4)
	assert.Greater(t, peak, 0.0)
	assert.Equal(t, byte(1), binary[2], "the sample carrying the burst should binarize high")
}
