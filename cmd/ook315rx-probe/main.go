// Command ook315rx-probe opens the configured front end, runs calibration, and
// prints the resulting Calibration Vector — the receiver's equivalent
// of the teacher's pk2 register peek tool, for bench diagnosis without
// standing up the full daemon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/config"
	"github.com/n0rx/ook315rx/radio"
	"github.com/n0rx/ook315rx/radio/discover"
)

func main() {
	flags, err := config.ParseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	devicePath, err := discover.DevicePath(cfg.DeviceRole)
	if err != nil {
		fmt.Fprintln(os.Stderr, "probe: discovering front end:", err)
		os.Exit(1)
	}

	adapter := radio.NewMmapAdapter(devicePath, "/sys/bus/iio/devices/iio:device0", 1<<20, 4096)
	if err := adapter.Configure(radio.FrontEndConfig{
		CenterHz:    cfg.CenterFreq,
		SampleHz:    cfg.SampleRate,
		BandwidthHz: cfg.SampleRate,
		GainMode:    cfg.GainMode,
		GainDB:      cfg.GainDB,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "probe: configuring front end:", err)
		os.Exit(1)
	}
	if err := adapter.OpenRXBuffer(cfg.ChunkLen); err != nil {
		fmt.Fprintln(os.Stderr, "probe: opening rx buffer:", err)
		os.Exit(1)
	}
	defer adapter.Close()

	cal, err := capture.Calibrate(context.Background(), adapter, cfg.KCal, cfg.TriggerFactor)
	if err != nil {
		fmt.Fprintln(os.Stderr, "probe: calibrating:", err)
		os.Exit(1)
	}

	fmt.Printf("i_leak        = %.3f\n", cal.ILeak)
	fmt.Printf("q_leak        = %.3f\n", cal.QLeak)
	fmt.Printf("trigger_level = %.3f\n", cal.TriggerLevel)
}
