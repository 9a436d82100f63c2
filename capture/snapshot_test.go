package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n0rx/ook315rx/radio"
)

func TestSnapshot_fillAndView(t *testing.T) {
	snap := NewSnapshot(2, 3)
	assert.Equal(t, 6, snap.Len())

	snap.Fill(0, radio.IQView([]int16{1, 2, 3, 4}))
	snap.Fill(1, radio.IQView([]int16{5, 6, 7, 8}))
	snap.Fill(2, radio.IQView([]int16{9, 10, 11, 12}))

	view := snap.IQView()
	i, q := view.At(4)
	assert.Equal(t, int16(9), i)
	assert.Equal(t, int16(10), q)
}

func TestSnapshot_fillLengthMismatchPanics(t *testing.T) {
	snap := NewSnapshot(2, 1)
	assert.Panics(t, func() {
		snap.Fill(0, radio.IQView([]int16{1, 2}))
	})
}
