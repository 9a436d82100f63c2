// Package dsp extracts a magnitude envelope from a raw IQ snapshot and
// binarizes it: decimation, DC-corrected magnitude, first-order IIR
// smoothing, peak tracking, and a peak-relative threshold. Together with
// package pulse these steps are the signal-processing core of the
// receiver.
package dsp

import (
	"math"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/radio"
)

// Magnitudes decimates view by d, subtracting the calibration vector's DC
// leakage from each retained sample before computing its magnitude. No
// anti-alias filter precedes the decimation — the IIR smoothing applied
// next stands in for it.
func Magnitudes(view radio.IQView, cal capture.Vector, d int) []float64 {
	m := view.Len() / d
	out := make([]float64, m)
	for k := 0; k < m; k++ {
		iv, qv := view.At(k * d)
		di := float64(iv) - cal.ILeak
		dq := float64(qv) - cal.QLeak
		out[k] = math.Hypot(di, dq)
	}
	return out
}

// Smooth applies a first-order IIR low-pass to mag in place —
// s[0] = mag[0], s[k] = alpha*mag[k] + (1-alpha)*s[k-1] — and returns the
// peak smoothed value. Overwriting the trace in place is deliberate:
// nothing downstream reads the raw magnitudes again.
func Smooth(mag []float64, alpha float64) (peak float64) {
	if len(mag) == 0 {
		return 0
	}
	s := mag[0]
	mag[0] = s
	peak = s
	for k := 1; k < len(mag); k++ {
		s = alpha*mag[k] + (1-alpha)*s
		mag[k] = s
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Binarize thresholds the smoothed trace at peak*peakRatio, returning one
// byte (0 or 1) per sample.
func Binarize(mag []float64, peak, peakRatio float64) []byte {
	threshold := peak * peakRatio
	out := make([]byte, len(mag))
	for k, v := range mag {
		if v > threshold {
			out[k] = 1
		}
	}
	return out
}

// Envelope runs Magnitudes, Smooth, and Binarize in sequence, returning
// the binary envelope and the peak used to derive its threshold.
func Envelope(view radio.IQView, cal capture.Vector, decimation int, alpha, peakRatio float64) (binary []byte, peak float64) {
	mag := Magnitudes(view, cal, decimation)
	peak = Smooth(mag, alpha)
	binary = Binarize(mag, peak, peakRatio)
	return binary, peak
}
