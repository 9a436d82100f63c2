package radio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIQFile(t *testing.T, samples []int16) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "iq-*.raw")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, binary.Write(f, binary.LittleEndian, samples))
	return f.Name()
}

func TestFileAdapter_refillsChunkByChunk(t *testing.T) {
	path := writeIQFile(t, []int16{1, 2, 3, 4, 5, 6, 7, 8})
	a := NewFileAdapter(path)
	require.NoError(t, a.Configure(FrontEndConfig{CenterHz: 1, SampleHz: 1}))
	require.NoError(t, a.OpenRXBuffer(2))
	defer a.Close()

	require.NoError(t, a.Refill(context.Background()))
	i, q := a.IQView().At(0)
	assert.Equal(t, int16(1), i)
	assert.Equal(t, int16(2), q)

	require.NoError(t, a.Refill(context.Background()))
	i, q = a.IQView().At(1)
	assert.Equal(t, int16(7), i)
	assert.Equal(t, int16(8), q)
}

func TestFileAdapter_exhaustedReturnsSentinel(t *testing.T) {
	path := writeIQFile(t, []int16{1, 2, 3, 4})
	a := NewFileAdapter(path)
	require.NoError(t, a.Configure(FrontEndConfig{CenterHz: 1, SampleHz: 1}))
	require.NoError(t, a.OpenRXBuffer(2))
	defer a.Close()

	require.NoError(t, a.Refill(context.Background()))
	err := a.Refill(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBufferExhausted))
}

func TestFileAdapter_rejectsBadConfig(t *testing.T) {
	a := NewFileAdapter("unused")
	err := a.Configure(FrontEndConfig{CenterHz: 0, SampleHz: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigRejected))
}
