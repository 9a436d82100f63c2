// Package sink renders decode outcomes: a human banner and pulse/bit
// dump to stdout for every successful capture, and a compact one-line
// operational record to a rotating diagnostic log file. The diagnostic
// file never carries the decoded payload — only stdout does — so the
// daemon gets an audit trail without persisting protocol output to disk.
package sink

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/pulse"
)

// Receiver renders every Captured/SoftFailure call from the trigger
// loop. It satisfies trigger.Sink without importing package trigger.
type Receiver struct {
	out *log.Logger

	diagDir     string
	diagPattern *strftime.Strftime
	diagFile    *os.File
	diagOpenFor string
	diag        *log.Logger
}

// New builds a Receiver that logs to stdout, and additionally to a
// rotating file under diagDir if diagDir is non-empty. diagDir following
// the teacher stack's daily-named log convention: one file per UTC day,
// opened lazily and reopened when the day rolls over.
func New(diagDir string) (*Receiver, error) {
	r := &Receiver{
		out: log.NewWithOptions(os.Stdout, log.Options{
			ReportTimestamp: true,
		}),
	}
	if diagDir == "" {
		return r, nil
	}
	pattern, err := strftime.New("ook315rx-%Y-%m-%d.log")
	if err != nil {
		return nil, fmt.Errorf("sink: compiling log file pattern: %w", err)
	}
	r.diagDir = diagDir
	r.diagPattern = pattern
	return r, nil
}

func (r *Receiver) rotate() error {
	if r.diagPattern == nil {
		return nil
	}
	name := r.diagPattern.FormatString(time.Now().UTC())
	if name == r.diagOpenFor && r.diagFile != nil {
		return nil
	}
	if r.diagFile != nil {
		r.diagFile.Close()
	}
	if err := os.MkdirAll(r.diagDir, 0755); err != nil {
		return fmt.Errorf("sink: creating log dir %s: %w", r.diagDir, err)
	}
	path := r.diagDir + "/" + name
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("sink: opening log file %s: %w", path, err)
	}
	r.diagFile = f
	r.diagOpenFor = name
	r.diag = log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	return nil
}

func (r *Receiver) diagnostic(level log.Level, msg string, kv ...interface{}) {
	if r.diagPattern == nil {
		return
	}
	if err := r.rotate(); err != nil {
		r.out.Error("sink: diagnostic log unavailable", "err", err)
		return
	}
	r.diag.Log(level, msg, kv...)
}

// Captured renders a successful decode: banner, full Clean Pulse
// Sequence dump wrapped every 8 tokens, sync-gap duration, bit count,
// binary string spaced every 8 bits, hex string, and a footer — in that
// order.
func (r *Receiver) Captured(clean []pulse.Pulse, pkt decode.Packet) {
	var b strings.Builder
	b.WriteString("snapshot captured\n")
	b.WriteString(dumpPulses(clean))
	b.WriteString("\n")
	syncDur := 0
	if pkt.SyncIndex >= 0 && pkt.SyncIndex < len(clean) {
		syncDur = clean[pkt.SyncIndex].Duration
	}
	fmt.Fprintf(&b, "sync gap at pulse %d: L%d\n", pkt.SyncIndex, syncDur)
	fmt.Fprintf(&b, "payload: %d bits\n", len(pkt.Bits))
	fmt.Fprintf(&b, "binary: %s\n", spaceEvery8(pkt.Bits))
	fmt.Fprintf(&b, "hex: %s\n", pkt.Hex)
	b.WriteString("continuing monitoring")

	r.out.Info(b.String())
	r.diagnostic(log.InfoLevel, "packet decoded", "bits", len(pkt.Bits), "sync_index", pkt.SyncIndex)
}

// SoftFailure renders a non-fatal decode failure: insufficient clean
// pulses, no preamble match, or zero payload bits all land here.
func (r *Receiver) SoftFailure(err error) {
	r.out.Warn("spurious trigger, no packet decoded", "reason", err)
	r.diagnostic(log.WarnLevel, "soft decode failure", "reason", err.Error())
}

// Fatal renders an unrecoverable hardware/config error before the
// process exits non-zero.
func (r *Receiver) Fatal(op string, err error) {
	r.out.Fatal("fatal error", "operation", op, "err", err)
}

// Stats renders the process-lifetime counters a Loop accumulated, once,
// typically on clean shutdown. There is no metrics server behind this;
// it is a summary line for whoever is watching the log.
func (r *Receiver) Stats(triggersSeen, packetsDecoded, softFailures int, byReason map[string]int) {
	r.out.Info("receiver stats",
		"triggers_seen", triggersSeen,
		"packets_decoded", packetsDecoded,
		"soft_failures", softFailures,
		"by_reason", byReason,
	)
	r.diagnostic(log.InfoLevel, "receiver stats",
		"triggers_seen", triggersSeen,
		"packets_decoded", packetsDecoded,
		"soft_failures", softFailures,
	)
}

func dumpPulses(clean []pulse.Pulse) string {
	var b strings.Builder
	for i, p := range clean {
		fmt.Fprintf(&b, "%s%d ", p.Level, p.Duration)
		if (i+1)%8 == 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

func spaceEvery8(bits string) string {
	var b strings.Builder
	for i, c := range bits {
		if i > 0 && i%8 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}
