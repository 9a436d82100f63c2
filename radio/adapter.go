// Package radio abstracts the SDR front end that feeds the trigger loop.
//
// The core never talks to a specific chip: it configures, refills, and
// reads an Adapter. Three implementations are provided — MmapAdapter for
// a memory-mapped ring-buffer device, HamlibAdapter for a front end whose
// frequency/gain are programmed over a Hamlib rigctld control channel
// while IQ samples arrive on a separate data path, and FileAdapter for
// offline replay of a previously captured snapshot.
package radio

import "context"

// FrontEndConfig carries the attributes set once at startup, matching
// spec §4.1's configure() operation.
type FrontEndConfig struct {
	CenterHz    float64
	SampleHz    float64
	BandwidthHz float64
	GainMode    string // "manual" is the only mode the core exercises
	GainDB      float64
}

// IQView is an indexable, interleaved view over one refilled IQ chunk.
// Samples are int16 pairs (I, Q); Len reports the pair count, not the
// underlying slice length.
type IQView []int16

// Len reports the number of (I, Q) pairs in the view.
func (v IQView) Len() int { return len(v) / 2 }

// At returns the I and Q sample at pair index i.
func (v IQView) At(i int) (int16, int16) {
	return v[2*i], v[2*i+1]
}

// Adapter is the interface consumed by capture and trigger. A refill
// overwrites the chunk in place; a caller must finish reading a chunk
// before the next refill.
type Adapter interface {
	// Configure sets LO frequency, sample rate, bandwidth, and gain.
	Configure(cfg FrontEndConfig) error

	// OpenRXBuffer allocates the chunk-sized IQ buffer. chunkLen is a
	// pair count (IQChunk length), not a byte count.
	OpenRXBuffer(chunkLen int) error

	// Refill blocks until one chunk is available. It returns
	// ctx.Err() if ctx is done before a chunk arrives.
	Refill(ctx context.Context) error

	// IQView returns a view over the most recently refilled chunk.
	IQView() IQView

	// Close releases the buffer and the device context. Safe to call
	// more than once.
	Close() error
}
