package radio

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// pollInterval is how often Refill checks the ring header's sequence
// counter while waiting for the driver to land a new chunk. There is no
// interrupt or poll(2)-able fd for mmap'd memory, so this mirrors the
// busy/sleep-poll idiom a memory-mapped FPGA or DMA ring driver uses
// internally (compare OgdarFPGA.HasTriggered in the FPGA register
// interface this adapter is modeled on).
const pollInterval = 200 * time.Microsecond

// ringHeader sits at the start of the mmap'd ring region. The driver
// increments Seq every time it finishes landing a fresh chunk at
// dataOffset.
type ringHeader struct {
	Seq uint32
}

// MmapAdapter is a Radio Adapter for a front end whose IQ ring buffer is
// exposed as a memory-mappable character device, in the style of the
// direct-conversion boards (e.g. PlutoSDR, Red Pitaya) this receiver
// targets. Frequency, sample rate, bandwidth, and gain are configured
// through the device's IIO sysfs attribute tree, not through the mmap'd
// region itself — the region carries only ring-buffer control and data.
type MmapAdapter struct {
	devicePath string
	sysfsRoot  string // e.g. /sys/bus/iio/devices/iio:device0
	regionSize int
	dataOffset int64

	memFile   *os.File
	regionMem []byte
	hdr       *ringHeader
	data      []int16 // view of the ring's data area, reinterpreted in place

	chunkLen int
	lastSeq  uint32
}

// NewMmapAdapter returns an adapter that will mmap regionSize bytes of
// devicePath, treating the first 4 bytes as a ringHeader and the bytes
// starting at dataOffset as interleaved int16 I/Q samples. sysfsRoot is
// the IIO device directory used for Configure's attribute writes.
func NewMmapAdapter(devicePath, sysfsRoot string, regionSize int, dataOffset int64) *MmapAdapter {
	return &MmapAdapter{
		devicePath: devicePath,
		sysfsRoot:  sysfsRoot,
		regionSize: regionSize,
		dataOffset: dataOffset,
	}
}

// Configure writes center frequency, sample rate, bandwidth, and gain to
// the front end's IIO sysfs attributes. This is the pure-Go equivalent
// of the iio_channel_attr_write calls used to program an ad9361-class
// transceiver.
func (a *MmapAdapter) Configure(cfg FrontEndConfig) error {
	if cfg.CenterHz <= 0 || cfg.SampleHz <= 0 || cfg.BandwidthHz <= 0 {
		return fmt.Errorf("%w: frequency, sample rate, and bandwidth must be positive", ErrConfigRejected)
	}
	if cfg.GainMode != "manual" {
		return fmt.Errorf("%w: gain mode %q not supported (only \"manual\")", ErrConfigRejected, cfg.GainMode)
	}

	writes := []struct{ attr, value string }{
		{"out_altvoltage0_RX_LO_frequency", strconv.FormatInt(int64(cfg.CenterHz), 10)},
		{"in_voltage_sampling_frequency", strconv.FormatInt(int64(cfg.SampleHz), 10)},
		{"in_voltage_rf_bandwidth", strconv.FormatInt(int64(cfg.BandwidthHz), 10)},
		{"in_voltage0_gain_control_mode", "manual"},
		{"in_voltage0_hardwaregain", strconv.FormatFloat(cfg.GainDB, 'f', -1, 64)},
	}
	for _, w := range writes {
		path := a.sysfsRoot + "/" + w.attr
		if err := os.WriteFile(path, []byte(w.value), 0644); err != nil {
			return fmt.Errorf("%w: writing %s: %v", ErrConfigRejected, path, err)
		}
	}
	return nil
}

// OpenRXBuffer opens the device and mmaps its ring region.
func (a *MmapAdapter) OpenRXBuffer(chunkLen int) error {
	f, err := os.OpenFile(a.devicePath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrUnavailable, a.devicePath, err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, a.regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: mmap %s: %v", ErrUnavailable, a.devicePath, err)
	}

	needBytes := int(a.dataOffset) + chunkLen*2*2 // 2 channels * 2 bytes/int16
	if needBytes > len(mem) {
		unix.Munmap(mem)
		f.Close()
		return fmt.Errorf("%w: ring region too small for chunk length %d", ErrConfigRejected, chunkLen)
	}

	a.memFile = f
	a.regionMem = mem
	a.hdr = (*ringHeader)(unsafe.Pointer(&mem[0]))
	a.data = unsafe.Slice((*int16)(unsafe.Pointer(&mem[a.dataOffset])), chunkLen*2)
	a.chunkLen = chunkLen
	a.lastSeq = a.hdr.Seq
	return nil
}

// Refill blocks until the driver has landed a new chunk in the ring,
// observed as the header's sequence counter advancing.
func (a *MmapAdapter) Refill(ctx context.Context) error {
	if a.hdr == nil {
		return fmt.Errorf("%w: buffer not open", ErrBufferExhausted)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		seq := a.hdr.Seq
		if seq != a.lastSeq {
			a.lastSeq = seq
			return nil
		}
		time.Sleep(pollInterval)
	}
}

// IQView returns a view over the most recently refilled chunk.
func (a *MmapAdapter) IQView() IQView {
	return IQView(a.data)
}

// Close releases the mmap'd region and the device file. Safe to call
// more than once.
func (a *MmapAdapter) Close() error {
	if a.regionMem != nil {
		_ = unix.Munmap(a.regionMem)
		a.regionMem = nil
		a.hdr = nil
		a.data = nil
	}
	if a.memFile != nil {
		err := a.memFile.Close()
		a.memFile = nil
		return err
	}
	return nil
}
