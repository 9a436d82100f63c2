package trigger

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/dsp"
	"github.com/n0rx/ook315rx/pulse"
	"github.com/n0rx/ook315rx/radio"
)

// Sink receives the outcome of every Capturing cycle, successful or not.
// The trigger package only needs these two calls, not sink's full
// rendering surface, so it declares its own narrow interface rather than
// importing package sink.
type Sink interface {
	Captured(clean []pulse.Pulse, pkt decode.Packet)
	SoftFailure(err error)
}

// Config bundles everything the loop needs besides the adapter,
// calibration vector, and sink. Every field corresponds to one row of
// the spec's configuration table.
type Config struct {
	ProbeLen       int
	SnapshotChunks int
	KDrain         int
	Decimation     int
	Alpha          float64
	PeakRatio      float64
	MinPulse       int
	MinCleanPulses int
	Profile        decode.Profile
}

// Loop is the trigger/snapshot state machine. It owns a reusable
// Snapshot buffer and drives one Radio Adapter; there is never more than
// one outstanding refill.
type Loop struct {
	adapter   radio.Adapter
	cal       capture.Vector
	cfg       Config
	snap      *capture.Snapshot
	sink      Sink
	indicator Indicator
	state     State
	stats     Stats
}

// New builds a Loop around an already-configured, already-open adapter
// and an already-computed calibration vector.
func New(a radio.Adapter, cal capture.Vector, cfg Config, sink Sink, ind Indicator) *Loop {
	if ind == nil {
		ind = None
	}
	return &Loop{
		adapter:   a,
		cal:       cal,
		cfg:       cfg,
		sink:      sink,
		indicator: ind,
		state:     Idle,
		stats:     newStats(),
	}
}

// WithSnapshot attaches the Snapshot buffer the loop will fill on
// capture. Separated from New so callers size the snapshot from the
// adapter's own chunk length, which New does not need to know.
func (l *Loop) WithSnapshot(s *capture.Snapshot) *Loop {
	l.snap = s
	return l
}

func (l *Loop) setState(s State) {
	l.state = s
	l.indicator.Set(s)
}

// State reports the loop's current state.
func (l *Loop) State() State {
	return l.state
}

// Run drives the loop until ctx is done. A shutdown observed while Armed
// or Draining stops the loop before its next refill. A shutdown observed
// while Capturing lets the in-flight snapshot finish: the inner refills
// for chunks 2..SnapshotChunks run against context.Background so a
// cancellation never truncates a Snapshot mid-capture, only deferred
// until the capture completes and the decode has run.
func (l *Loop) Run(ctx context.Context) error {
	if l.snap == nil {
		return fmt.Errorf("trigger: Loop has no Snapshot buffer; call WithSnapshot first")
	}
	for {
		if err := ctx.Err(); err != nil {
			l.setState(Idle)
			return nil
		}
		l.setState(Armed)
		if err := l.adapter.Refill(ctx); err != nil {
			if ctx.Err() != nil {
				l.setState(Idle)
				return nil
			}
			return fmt.Errorf("trigger: armed refill: %w", err)
		}

		if !probe(l.adapter.IQView(), l.cal, l.cfg.ProbeLen) {
			continue
		}
		l.stats.recordTrigger()

		l.setState(Capturing)
		l.snap.Fill(0, l.adapter.IQView())
		for i := 1; i < l.cfg.SnapshotChunks; i++ {
			if err := l.adapter.Refill(context.Background()); err != nil {
				return fmt.Errorf("trigger: capture refill %d/%d: %w", i+1, l.cfg.SnapshotChunks, err)
			}
			l.snap.Fill(i, l.adapter.IQView())
		}
		l.decodeSnapshot()

		l.setState(Draining)
		for i := 0; i < l.cfg.KDrain; i++ {
			if err := l.adapter.Refill(ctx); err != nil {
				if ctx.Err() != nil {
					l.setState(Idle)
					return nil
				}
				return fmt.Errorf("trigger: drain refill %d/%d: %w", i+1, l.cfg.KDrain, err)
			}
		}
	}
}

// probe inspects the leading probeLen samples of view for one whose
// DC-corrected magnitude exceeds cal.TriggerLevel.
func probe(view radio.IQView, cal capture.Vector, probeLen int) bool {
	n := probeLen
	if view.Len() < n {
		n = view.Len()
	}
	for i := 0; i < n; i++ {
		iv, qv := view.At(i)
		di := float64(iv) - cal.ILeak
		dq := float64(qv) - cal.QLeak
		if math.Hypot(di, dq) > cal.TriggerLevel {
			return true
		}
	}
	return false
}

// reasonOf buckets a soft decode error into a short, fixed category for
// Stats.FailureByReason — the error itself carries a pulse count or
// other varying detail that would make every failure its own bucket.
func reasonOf(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "clean pulses"):
		return "too few clean pulses"
	case strings.Contains(msg, "no preamble matched"):
		return "no preamble matched"
	case strings.Contains(msg, "no payload bits"):
		return "no payload bits"
	default:
		return "other"
	}
}

func (l *Loop) decodeSnapshot() {
	binary, _ := dsp.Envelope(l.snap.IQView(), l.cal, l.cfg.Decimation, l.cfg.Alpha, l.cfg.PeakRatio)
	raw := pulse.Encode(binary)
	clean := pulse.Clean(raw, l.cfg.MinPulse)

	pkt, err := decode.Decode(clean, l.cfg.MinCleanPulses, l.cfg.Profile)
	if err != nil {
		l.stats.recordSoftFailure(reasonOf(err))
		l.sink.SoftFailure(err)
		return
	}
	l.stats.recordDecoded()
	l.sink.Captured(clean, pkt)
}
