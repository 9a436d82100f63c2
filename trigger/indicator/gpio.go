// Package indicator drives a front-panel GPIO line to reflect the
// trigger loop's state, so a bench operator can see whether the loop is
// Capturing without a terminal.
package indicator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/n0rx/ook315rx/trigger"
)

// GPIO drives one output line high while the loop is Capturing, low
// otherwise. A single line carries only a binary signal, which is enough
// to tell a bench operator "receiver is mid-snapshot" at a glance; Idle,
// Armed, and Draining all read as "not capturing".
type GPIO struct {
	line *gpiocdev.Line
}

// New requests chip/offset as an output line, initially low.
func New(chip string, offset int) (*GPIO, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("indicator: requesting %s:%d: %w", chip, offset, err)
	}
	return &GPIO{line: line}, nil
}

// Set implements trigger.Indicator.
func (g *GPIO) Set(s trigger.State) {
	v := 0
	if s == trigger.Capturing {
		v = 1
	}
	_ = g.line.SetValue(v)
}

// Close releases the GPIO line.
func (g *GPIO) Close() error {
	return g.line.Close()
}
