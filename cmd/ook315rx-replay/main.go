// Command ook315rx-replay decodes a previously captured raw IQ file
// offline, the receiver's equivalent of the teacher's showreg
// register-dump tool repurposed for file-backed inspection instead of a
// live FPGA.
//
// Usage:
//
//	ook315rx-replay [--config DIR] [--profile FILE] FILE.iq
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/n0rx/ook315rx/capture"
	"github.com/n0rx/ook315rx/config"
	"github.com/n0rx/ook315rx/decode"
	"github.com/n0rx/ook315rx/dsp"
	"github.com/n0rx/ook315rx/pulse"
	"github.com/n0rx/ook315rx/radio"
	"github.com/n0rx/ook315rx/sink"
)

func main() {
	flags, err := config.ParseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ook315rx-replay [flags] FILE.iq")
		os.Exit(2)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	library := config.NewLibrary(cfg)
	if flags.ProfilePath != "" {
		if err := library.LoadFile(flags.ProfilePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	profile := library.Get(cfg.Profile)

	out, err := sink.New(flags.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	adapter := radio.NewFileAdapter(args[0])
	if err := adapter.Configure(radio.FrontEndConfig{
		CenterHz:    cfg.CenterFreq,
		SampleHz:    cfg.SampleRate,
		BandwidthHz: cfg.SampleRate,
		GainMode:    cfg.GainMode,
		GainDB:      cfg.GainDB,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "replay: configuring:", err)
		os.Exit(1)
	}
	if err := adapter.OpenRXBuffer(cfg.ChunkLen); err != nil {
		fmt.Fprintln(os.Stderr, "replay: opening:", err)
		os.Exit(1)
	}
	defer adapter.Close()

	snap := capture.NewSnapshot(cfg.ChunkLen, cfg.SnapshotChunks)
	ctx := context.Background()

	cal, err := capture.Calibrate(ctx, adapter, cfg.KCal, cfg.TriggerFactor)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay: calibrating:", err)
		os.Exit(1)
	}

	for i := 0; i < cfg.SnapshotChunks; i++ {
		if err := adapter.Refill(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "replay: reading snapshot:", err)
			os.Exit(1)
		}
		snap.Fill(i, adapter.IQView())
	}

	decodeSnapshot(snap, cal, cfg, profile, out)
}

func decodeSnapshot(snap *capture.Snapshot, cal capture.Vector, cfg config.Config, profile decode.Profile, out *sink.Receiver) {
	binary, _ := dsp.Envelope(snap.IQView(), cal, cfg.Decimation, cfg.Alpha, cfg.PeakRatio)
	raw := pulse.Encode(binary)
	clean := pulse.Clean(raw, cfg.MinPulse)

	pkt, err := decode.Decode(clean, cfg.MinCleanPulses, profile)
	if err != nil {
		out.SoftFailure(err)
		return
	}
	out.Captured(clean, pkt)
}
