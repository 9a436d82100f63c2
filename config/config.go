// Package config loads the daemon's tunables from a TOML file via
// viper, the way the teacher loads "ogdar.toml", plus a YAML-loaded
// library of transmitter profiles and the pflag-based CLI surface.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every tunable named in the external interfaces table,
// one field per row, defaults matching the spec exactly.
type Config struct {
	CenterFreq     float64 `mapstructure:"center_freq" desc:"LO frequency, Hz"`
	SampleRate     float64 `mapstructure:"sample_rate" desc:"ADC sample rate, S/s"`
	ChunkLen       int     `mapstructure:"chunk_len" desc:"IQ pairs per refill"`
	SnapshotChunks int     `mapstructure:"snapshot_chunks" desc:"snapshot length in chunks"`
	KCal           int     `mapstructure:"k_cal" desc:"calibration chunks for DC estimate"`
	KDrain         int     `mapstructure:"k_drain" desc:"chunks discarded while draining after a capture"`
	TriggerFactor  float64 `mapstructure:"trigger_factor" desc:"multiple of peak noise"`
	ProbeLen       int     `mapstructure:"probe_len" desc:"samples inspected per chunk while armed"`
	Decimation     int     `mapstructure:"decimation" desc:"decimation factor"`
	Alpha          float64 `mapstructure:"alpha" desc:"IIR smoothing coefficient"`
	PeakRatio      float64 `mapstructure:"peak_ratio" desc:"binarization threshold ratio"`
	MinPulse       int     `mapstructure:"min_pulse" desc:"minimum pulse width, decimated samples"`
	MinCleanPulses int     `mapstructure:"min_clean_pulses" desc:"minimum clean pulses to attempt decode"`
	PreambleHLo    int     `mapstructure:"preamble_h_lo" desc:"preamble high width window, low bound"`
	PreambleHHi    int     `mapstructure:"preamble_h_hi" desc:"preamble high width window, high bound"`
	PreambleLLo    int     `mapstructure:"preamble_l_lo" desc:"preamble low width window, low bound"`
	PreambleLHi    int     `mapstructure:"preamble_l_hi" desc:"preamble low width window, high bound"`
	SyncGapMin     int     `mapstructure:"sync_gap_min" desc:"minimum sync-gap width"`
	StreakMin      int     `mapstructure:"streak_min" desc:"required preamble pairs before sync"`
	BitOneMin      int     `mapstructure:"bit_one_min" desc:"high width above this decodes to '1'"`
	BitZeroMin     int     `mapstructure:"bit_zero_min" desc:"high width above this and at/below bit_one_min decodes to '0'"`

	// Expansion: device selection and ambient services, absent from the
	// original table because that table covers only the decode pipeline.
	DeviceRole    string  `mapstructure:"device_role" desc:"udev OOK315_ROLE property identifying the front end"`
	GainMode      string  `mapstructure:"gain_mode" desc:"front end gain control mode, currently only \"manual\""`
	GainDB        float64 `mapstructure:"gain_db" desc:"front end manual gain, dB"`
	IndicatorChip string  `mapstructure:"indicator_chip" desc:"gpiochip device for the state indicator line, empty disables it"`
	IndicatorLine int     `mapstructure:"indicator_line" desc:"line offset on indicator_chip"`
	DiagLogDir    string  `mapstructure:"diag_log_dir" desc:"directory for the rotating diagnostic log, empty disables it"`
	AnnounceName  string  `mapstructure:"announce_name" desc:"DNS-SD instance name, empty disables announcement"`
	AnnouncePort  int     `mapstructure:"announce_port" desc:"DNS-SD advertised port"`
	Profile       string  `mapstructure:"profile" desc:"name of the transmitter profile to decode against"`
}

// Default returns the configuration described in the spec's external
// interfaces table, used whenever no config file is found — mirroring
// the teacher's setDefaultConfig, except every field here is one this
// receiver actually needs rather than a single bogus fallback radar.
func Default() Config {
	return Config{
		CenterFreq:     315_020_000,
		SampleRate:     1_000_000,
		ChunkLen:       200_000,
		SnapshotChunks: 5,
		KCal:           3,
		KDrain:         3,
		TriggerFactor:  3.5,
		ProbeLen:       5_000,
		Decimation:     5,
		Alpha:          0.2,
		PeakRatio:      0.4,
		MinPulse:       20,
		MinCleanPulses: 30,
		PreambleHLo:    70,
		PreambleHHi:    110,
		PreambleLLo:    130,
		PreambleLHi:    175,
		SyncGapMin:     200,
		StreakMin:      4,
		BitOneMin:      75,
		BitZeroMin:     30,

		DeviceRole:   "ook315rx",
		GainMode:     "manual",
		GainDB:       40,
		AnnounceName: "ook315rx",
		AnnouncePort: 8851,
		Profile:      "generic",
	}
}

// Load reads ook315rx.toml from the given config path (if non-empty),
// then /opt, then the working directory, same two-path convention the
// teacher uses for ogdar.toml. Fields absent from the file keep their
// Default() value. A missing file is not an error: the defaults stand
// in, same as setDefaultConfig did for the teacher.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("ook315rx")
	v.SetConfigType("toml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("/opt")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading ook315rx.toml: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshalling ook315rx.toml: %w", err)
	}
	return cfg, nil
}

// Flags is the CLI surface shared by cmd/ook315rx, cmd/ook315rx-replay
// and cmd/ook315rx-probe: a config file directory, a profiles.yaml path
// extending the built-in profile library, a diagnostic log directory,
// and verbosity — small compared to ogdar's flag-free single
// command, but the spec's expansion adds multiple entry points that all
// need to find the same config file.
type Flags struct {
	ConfigPath string
	ProfilePath string
	LogDir     string
	Verbose    bool
	Version    bool
}

// ParseFlags registers and parses the standard ook315rx flag set against
// args (typically os.Args[1:]).
func ParseFlags(fs *pflag.FlagSet, args []string) (*Flags, error) {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "directory containing ook315rx.toml")
	fs.StringVar(&f.ProfilePath, "profile", "", "path to a profiles.yaml overriding the built-in library")
	fs.StringVar(&f.LogDir, "log-file", "", "directory for the rotating diagnostic log (disabled if empty)")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "enable debug-level logging")
	fs.BoolVar(&f.Version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}
	return f, nil
}
