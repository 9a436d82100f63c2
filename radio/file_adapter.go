package radio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// FileAdapter replays a raw interleaved int16 I/Q recording from disk,
// one chunk at a time. It never touches hardware and ignores Configure
// beyond basic validation, so cmd/ook315rx-replay and tests can drive the same
// pipeline the live daemon uses.
type FileAdapter struct {
	path     string
	file     *os.File
	chunkLen int
	chunk    []int16
}

// NewFileAdapter returns an adapter that will read path as a sequence of
// little-endian interleaved (I, Q) int16 pairs.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Configure validates the requested attributes; a file has no LO or gain
// to program, but a non-positive sample rate or frequency is still
// rejected, matching the live adapters' contract.
func (a *FileAdapter) Configure(cfg FrontEndConfig) error {
	if cfg.CenterHz <= 0 || cfg.SampleHz <= 0 {
		return fmt.Errorf("%w: frequency and sample rate must be positive", ErrConfigRejected)
	}
	return nil
}

// OpenRXBuffer opens the backing file and allocates the chunk buffer.
func (a *FileAdapter) OpenRXBuffer(chunkLen int) error {
	f, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrUnavailable, a.path, err)
	}
	a.file = f
	a.chunkLen = chunkLen
	a.chunk = make([]int16, chunkLen*2)
	return nil
}

// Refill reads the next chunk from the file. Reaching EOF mid-chunk is
// reported as ErrBufferExhausted, same as a real front end running dry.
func (a *FileAdapter) Refill(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if a.file == nil {
		return fmt.Errorf("%w: buffer not open", ErrBufferExhausted)
	}
	if err := binary.Read(a.file, binary.LittleEndian, a.chunk); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: end of recording %s", ErrBufferExhausted, a.path)
		}
		return fmt.Errorf("%w: reading %s: %v", ErrBufferExhausted, a.path, err)
	}
	return nil
}

// IQView returns a view over the most recently refilled chunk.
func (a *FileAdapter) IQView() IQView {
	return IQView(a.chunk)
}

// Close releases the backing file. Safe to call more than once.
func (a *FileAdapter) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
