// Package capture owns the Calibration Vector and the Snapshot buffer —
// the two pieces of state that outlive a single refill.
package capture

import (
	"context"
	"fmt"
	"math"

	"github.com/n0rx/ook315rx/radio"
)

// Vector is the immutable triple produced once after the radio is
// configured and reused for the lifetime of the process.
type Vector struct {
	ILeak        float64
	QLeak        float64
	TriggerLevel float64
}

// Calibrate consumes kCal chunks to estimate per-channel DC leakage, then
// one more chunk to estimate the peak noise magnitude, and derives the
// trigger level as triggerFactor times that peak. It returns
// ErrCalibrationFailed if the observed noise peak is zero.
func Calibrate(ctx context.Context, a radio.Adapter, kCal int, triggerFactor float64) (Vector, error) {
	var iSum, qSum float64
	var n int

	for k := 0; k < kCal; k++ {
		if err := a.Refill(ctx); err != nil {
			return Vector{}, fmt.Errorf("capture: calibration refill %d/%d: %w", k+1, kCal, err)
		}
		view := a.IQView()
		for i := 0; i < view.Len(); i++ {
			iv, qv := view.At(i)
			iSum += float64(iv)
			qSum += float64(qv)
			n++
		}
	}
	if n == 0 {
		return Vector{}, fmt.Errorf("%w: no samples observed during DC calibration", ErrCalibrationFailed)
	}
	iLeak := iSum / float64(n)
	qLeak := qSum / float64(n)

	if err := a.Refill(ctx); err != nil {
		return Vector{}, fmt.Errorf("capture: noise-floor refill: %w", err)
	}
	var maxNoise float64
	view := a.IQView()
	for i := 0; i < view.Len(); i++ {
		iv, qv := view.At(i)
		di := float64(iv) - iLeak
		dq := float64(qv) - qLeak
		m := math.Hypot(di, dq)
		if m > maxNoise {
			maxNoise = m
		}
	}
	if maxNoise == 0 {
		return Vector{}, fmt.Errorf("%w: noise peak is zero", ErrCalibrationFailed)
	}

	return Vector{
		ILeak:        iLeak,
		QLeak:        qLeak,
		TriggerLevel: maxNoise * triggerFactor,
	}, nil
}
