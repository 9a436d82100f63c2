package radio

import (
	"context"
	"fmt"
	"io"
	"os"

	hamlib "github.com/xylo04/goHamlib"
)

// HamlibAdapter splits control plane from data plane: center frequency
// and gain are programmed on a rig reachable through a Hamlib
// rigctld-compatible backend, while the IQ sample stream itself arrives
// on a separate raw device or FIFO path. Some front ends are built this
// way — a CAT-controllable tuner feeding a bare ADC pipe — and Direwolf's
// own Hamlib PTT support (ptt.go) is the ambient precedent for driving a
// rig through this kind of control channel from Go.
type HamlibAdapter struct {
	rigAddr  string // host:port of rigctld, or "model:device" per goHamlib
	dataPath string // raw IQ FIFO/device fed by the tuner's ADC

	rig      *hamlib.Rig
	dataFile *os.File
	chunkLen int
	chunk    []int16
}

// NewHamlibAdapter returns an adapter controlling the rig at rigAddr and
// reading IQ samples from dataPath.
func NewHamlibAdapter(rigAddr, dataPath string) *HamlibAdapter {
	return &HamlibAdapter{rigAddr: rigAddr, dataPath: dataPath}
}

// Configure opens the rig connection and programs frequency and gain.
// Bandwidth is not independently settable on a CAT-controlled rig; it is
// implied by the selected mode, so the value is only range-checked.
func (a *HamlibAdapter) Configure(cfg FrontEndConfig) error {
	if cfg.CenterHz <= 0 || cfg.SampleHz <= 0 || cfg.BandwidthHz <= 0 {
		return fmt.Errorf("%w: frequency, sample rate, and bandwidth must be positive", ErrConfigRejected)
	}
	if cfg.GainMode != "manual" {
		return fmt.Errorf("%w: gain mode %q not supported (only \"manual\")", ErrConfigRejected, cfg.GainMode)
	}

	rig, err := hamlib.Open(hamlib.NetRigctl, a.rigAddr)
	if err != nil {
		return fmt.Errorf("%w: opening rig at %s: %v", ErrUnavailable, a.rigAddr, err)
	}
	if err := rig.SetFreq(cfg.CenterHz); err != nil {
		rig.Close()
		return fmt.Errorf("%w: setting frequency: %v", ErrConfigRejected, err)
	}
	if err := rig.SetGain(cfg.GainDB); err != nil {
		rig.Close()
		return fmt.Errorf("%w: setting gain: %v", ErrConfigRejected, err)
	}
	a.rig = rig
	return nil
}

// OpenRXBuffer opens the raw IQ data path and allocates the chunk.
func (a *HamlibAdapter) OpenRXBuffer(chunkLen int) error {
	f, err := os.Open(a.dataPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrUnavailable, a.dataPath, err)
	}
	a.dataFile = f
	a.chunkLen = chunkLen
	a.chunk = make([]int16, chunkLen*2)
	return nil
}

// Refill reads the next chunk from the data path.
func (a *HamlibAdapter) Refill(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if a.dataFile == nil {
		return fmt.Errorf("%w: buffer not open", ErrBufferExhausted)
	}
	buf := make([]byte, len(a.chunk)*2)
	if _, err := io.ReadFull(a.dataFile, buf); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrBufferExhausted, a.dataPath, err)
	}
	for i := range a.chunk {
		a.chunk[i] = int16(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8)
	}
	return nil
}

// IQView returns a view over the most recently refilled chunk.
func (a *HamlibAdapter) IQView() IQView {
	return IQView(a.chunk)
}

// Close releases the data path and the rig connection.
func (a *HamlibAdapter) Close() error {
	var err error
	if a.dataFile != nil {
		err = a.dataFile.Close()
		a.dataFile = nil
	}
	if a.rig != nil {
		a.rig.Close()
		a.rig = nil
	}
	return err
}
