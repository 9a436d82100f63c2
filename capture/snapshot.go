package capture

import "github.com/n0rx/ook315rx/radio"

// Snapshot is a contiguous buffer of SnapshotChunks*ChunkLen IQ pairs,
// representing the RF burst plus its pre/post context. It is owned by
// the trigger loop and reused across triggers — a capture overwrites it
// in place rather than allocating fresh storage each time.
type Snapshot struct {
	buf      []int16 // interleaved (I, Q) int16 pairs
	chunkLen int
	chunks   int
}

// NewSnapshot allocates a Snapshot able to hold chunks chunks of
// chunkLen IQ pairs each.
func NewSnapshot(chunkLen, chunks int) *Snapshot {
	return &Snapshot{
		buf:      make([]int16, chunkLen*chunks*2),
		chunkLen: chunkLen,
		chunks:   chunks,
	}
}

// ChunkSlice returns the interleaved int16 region for chunk index i, for
// the caller to copy a freshly refilled IQView into.
func (s *Snapshot) ChunkSlice(i int) []int16 {
	start := i * s.chunkLen * 2
	end := start + s.chunkLen*2
	return s.buf[start:end]
}

// Fill copies view into chunk index i. It panics if view's length does
// not match the configured chunk length, since that would indicate a
// Radio Adapter misconfiguration the caller must not silently ignore.
func (s *Snapshot) Fill(i int, view radio.IQView) {
	dst := s.ChunkSlice(i)
	if view.Len() != s.chunkLen {
		panic("capture: refilled chunk length does not match snapshot chunk length")
	}
	copy(dst, []int16(view))
}

// IQView returns the whole snapshot as one IQ view, in acquisition
// order, for the decode pipeline to consume.
func (s *Snapshot) IQView() radio.IQView {
	return radio.IQView(s.buf)
}

// Len reports the total number of IQ pairs in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.buf) / 2
}
