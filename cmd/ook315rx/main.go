// Command ook315rx is the receiver daemon: it discovers the SDR front
// end, configures it, calibrates, then runs the trigger loop until a
// shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/config"
	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/radio"
	"github.com/n0rx/ook315rx/radio/discover"
	"github.com/n0rx/ook315rx/sink"
	"github.com/n0rx/ook315rx/sink/announce"
	"github.com/n0rx/ook315rx/trigger"
	"github.com/n0rx/ook315rx/trigger/indicator"
)

const version = "0.1.0"

func main() {
	flags, err := config.ParseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if flags.Version {
		fmt.Println("ook315rx", version)
		return
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logDir := cfg.DiagLogDir
	if flags.LogDir != "" {
		logDir = flags.LogDir
	}
	out, err := sink.New(logDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	library := config.NewLibrary(cfg)
	if flags.ProfilePath != "" {
		if err := library.LoadFile(flags.ProfilePath); err != nil {
			out.Fatal("loading profile library", err)
		}
	}
	profile := library.Get(cfg.Profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	devicePath, err := discover.DevicePath(cfg.DeviceRole)
	if err != nil {
		out.Fatal("discovering front end", err)
	}

	adapter := radio.NewMmapAdapter(devicePath, "/sys/bus/iio/devices/iio:device0", 1<<20, 4096)
	if err := runDaemon(ctx, adapter, cfg, profile, out); err != nil {
		out.Fatal("receiver", err)
		os.Exit(1)
	}
}

func runDaemon(ctx context.Context, adapter radio.Adapter, cfg config.Config, profile decode.Profile, out *sink.Receiver) error {
	feCfg := radio.FrontEndConfig{
		CenterHz:    cfg.CenterFreq,
		SampleHz:    cfg.SampleRate,
		BandwidthHz: cfg.SampleRate,
		GainMode:    cfg.GainMode,
		GainDB:      cfg.GainDB,
	}
	if err := adapter.Configure(feCfg); err != nil {
		return fmt.Errorf("configuring front end: %w", err)
	}
	if err := adapter.OpenRXBuffer(cfg.ChunkLen); err != nil {
		return fmt.Errorf("opening rx buffer: %w", err)
	}
	defer adapter.Close()

	cal, err := capture.Calibrate(ctx, adapter, cfg.KCal, cfg.TriggerFactor)
	if err != nil {
		return fmt.Errorf("calibrating: %w", err)
	}

	var ind trigger.Indicator = trigger.None
	if cfg.IndicatorChip != "" {
		gpio, err := indicator.New(cfg.IndicatorChip, cfg.IndicatorLine)
		if err != nil {
			return fmt.Errorf("opening indicator: %w", err)
		}
		defer gpio.Close()
		ind = gpio
	}

	var announcer *announce.Announcer
	if cfg.AnnounceName != "" {
		a, err := announce.Start(ctx, cfg.AnnounceName, cfg.AnnouncePort, map[string]string{"role": cfg.DeviceRole})
		if err != nil {
			return fmt.Errorf("starting announcement: %w", err)
		}
		announcer = a
	}
	defer announcer.Stop()

	loopCfg := trigger.Config{
		ProbeLen:       cfg.ProbeLen,
		SnapshotChunks: cfg.SnapshotChunks,
		KDrain:         cfg.KDrain,
		Decimation:     cfg.Decimation,
		Alpha:          cfg.Alpha,
		PeakRatio:      cfg.PeakRatio,
		MinPulse:       cfg.MinPulse,
		MinCleanPulses: cfg.MinCleanPulses,
		Profile:        profile,
	}

	snap := capture.NewSnapshot(cfg.ChunkLen, cfg.SnapshotChunks)
	loop := trigger.New(adapter, cal, loopCfg, out, ind).WithSnapshot(snap)
	runErr := loop.Run(ctx)

	stats := loop.Stats()
	out.Stats(stats.TriggersSeen, stats.PacketsDecoded, stats.SoftFailures, stats.FailureByReason)
	return runErr
}
