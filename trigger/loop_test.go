package trigger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/pulse"
	"github.com/n0rx/ook315rx/radio"
)

// fakeAdapter serves pre-built chunks and cancels ctx once exhausted, so
// Run exits cleanly instead of looping forever in Armed.
type fakeAdapter struct {
	chunks [][]int16
	next   int
	cur    []int16
	cancel context.CancelFunc
}

func (f *fakeAdapter) Configure(radio.FrontEndConfig) error { return nil }
func (f *fakeAdapter) OpenRXBuffer(int) error                { return nil }
func (f *fakeAdapter) IQView() radio.IQView                  { return radio.IQView(f.cur) }
func (f *fakeAdapter) Close() error                           { return nil }

func (f *fakeAdapter) Refill(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.next >= len(f.chunks) {
		if f.cancel != nil {
			f.cancel()
		}
		return ctx.Err()
	}
	f.cur = f.chunks[f.next]
	f.next++
	return nil
}

type fakeSink struct {
	captured []decode.Packet
	failures []error
}

func (s *fakeSink) Captured(clean []pulse.Pulse, pkt decode.Packet) {
	s.captured = append(s.captured, pkt)
}

func (s *fakeSink) SoftFailure(err error) {
	s.failures = append(s.failures, err)
}

type fakeIndicator struct {
	states []State
}

func (f *fakeIndicator) Set(s State) {
	f.states = append(f.states, s)
}

func quietChunk(n int) []int16 {
	c := make([]int16, n*2)
	return c
}

func TestLoop_neverTriggersStaysArmed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &fakeAdapter{chunks: [][]int16{quietChunk(100), quietChunk(100)}, cancel: cancel}
	sink := &fakeSink{}
	ind := &fakeIndicator{}

	cfg := Config{ProbeLen: 10, SnapshotChunks: 2, KDrain: 1, Decimation: 1, Alpha: 0.5, PeakRatio: 0.4, MinPulse: 1, MinCleanPulses: 1, Profile: decode.Generic}
	loop := New(a, capture.Vector{TriggerLevel: 1e9}, cfg, sink, ind).WithSnapshot(capture.NewSnapshot(100, 2))

	err := loop.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, sink.captured)
	assert.Empty(t, sink.failures)
	assert.Contains(t, ind.states, Armed)

	stats := loop.Stats()
	assert.Zero(t, stats.TriggersSeen)
	assert.Zero(t, stats.PacketsDecoded)
	assert.Zero(t, stats.SoftFailures)
}

func TestLoop_missingSnapshotErrors(t *testing.T) {
	a := &fakeAdapter{}
	loop := New(a, capture.Vector{}, Config{SnapshotChunks: 1}, &fakeSink{}, nil)
	err := loop.Run(context.Background())
	require.Error(t, err)
}

func TestLoop_triggersAndReportsSoftFailureOnNoise(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	burst := make([]int16, 20) // 10 pairs, all far above the trigger level
	for i := range burst {
		burst[i] = 30000
	}
	a := &fakeAdapter{chunks: [][]int16{burst, quietChunk(10), quietChunk(10)}, cancel: cancel}
	sink := &fakeSink{}

	cfg := Config{ProbeLen: 10, SnapshotChunks: 2, KDrain: 1, Decimation: 1, Alpha: 0.5, PeakRatio: 0.4, MinPulse: 1, MinCleanPulses: 1000, Profile: decode.Generic}
	loop := New(a, capture.Vector{TriggerLevel: 100}, cfg, sink, nil).WithSnapshot(capture.NewSnapshot(10, 2))

	err := loop.Run(ctx)
	require.NoError(t, err)
	require.Len(t, sink.failures, 1, "too few clean pulses at min_clean_pulses=1000 should report a soft failure")

	stats := loop.Stats()
	assert.Equal(t, 1, stats.TriggersSeen)
	assert.Equal(t, 0, stats.PacketsDecoded)
	assert.Equal(t, 1, stats.SoftFailures)
	assert.Equal(t, 1, stats.FailureByReason["too few clean pulses"])
}

func TestReasonOf_bucketsKnownFailures(t *testing.T) {
	_, err := decode.Decode(nil, 30, decode.Generic)
	require.Error(t, err)
	assert.Equal(t, "too few clean pulses", reasonOf(err))
}

// cancelingDrainAdapter triggers capture on its first refill, then
// cancels ctx after a single Draining refill regardless of KDrain, so a
// test can confirm Run stops consuming refills rather than running all
// of them out before noticing ctx is done.
type cancelingDrainAdapter struct {
	cur          []int16
	refills      int
	drainRefills int
	captured     bool
	cancel       context.CancelFunc
}

func (f *cancelingDrainAdapter) Configure(radio.FrontEndConfig) error { return nil }
func (f *cancelingDrainAdapter) OpenRXBuffer(int) error               { return nil }
func (f *cancelingDrainAdapter) IQView() radio.IQView                 { return radio.IQView(f.cur) }
func (f *cancelingDrainAdapter) Close() error                         { return nil }

func (f *cancelingDrainAdapter) Refill(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.refills++
	if !f.captured {
		f.captured = true
		f.cur = make([]int16, 20)
		for i := range f.cur {
			f.cur[i] = 30000
		}
		return nil
	}
	f.drainRefills++
	f.cancel()
	return ctx.Err()
}

func TestLoop_drainingObservesShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &cancelingDrainAdapter{cancel: cancel}

	cfg := Config{ProbeLen: 10, SnapshotChunks: 1, KDrain: 10, Decimation: 1, Alpha: 0.5, PeakRatio: 0.4, MinPulse: 1, MinCleanPulses: 1000}
	loop := New(a, capture.Vector{TriggerLevel: 100}, cfg, &fakeSink{}, nil).WithSnapshot(capture.NewSnapshot(10, 1))

	err := loop.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.drainRefills, "Run should stop draining on the first cancelled refill instead of running all KDrain refills")
	assert.Equal(t, Idle, loop.State())
}
