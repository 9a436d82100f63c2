package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n0rx/ook315rx/decode"
)

// profileFile is the on-disk shape of profiles.yaml: a named list of
// per-transmitter timing windows, so a new rolling-code transmitter can
// be supported by dropping in numbers rather than a code change.
type profileFile struct {
	Profiles []namedProfile `yaml:"profiles"`
}

type namedProfile struct {
	Name       string `yaml:"name"`
	HLo        int    `yaml:"h_lo"`
	HHi        int    `yaml:"h_hi"`
	LLo        int    `yaml:"l_lo"`
	LHi        int    `yaml:"l_hi"`
	SyncGapMin int    `yaml:"sync_gap_min"`
	StreakMin  int    `yaml:"streak_min"`
	BitOneMin  int    `yaml:"bit_one_min"`
	BitZeroMin int    `yaml:"bit_zero_min"`
}

// Library is a name-indexed set of decode profiles, seeded from the main
// TOML config's own preamble/PWM fields under the name "generic" and
// optionally extended from a YAML file of additional transmitters.
type Library struct {
	profiles map[string]decode.Profile
}

// NewLibrary seeds a Library with the profile implied by cfg's own
// preamble/sync/bit fields, under the name "generic" — the flat TOML
// config doubles as the default transmitter's profile, so a deployment
// decoding only one transmitter variant never needs a separate
// profiles.yaml at all.
func NewLibrary(cfg Config) *Library {
	generic := decode.Profile{
		Name:       "generic",
		HLo:        cfg.PreambleHLo,
		HHi:        cfg.PreambleHHi,
		LLo:        cfg.PreambleLLo,
		LHi:        cfg.PreambleLHi,
		SyncGapMin: cfg.SyncGapMin,
		StreakMin:  cfg.StreakMin,
		BitOneMin:  cfg.BitOneMin,
		BitZeroMin: cfg.BitZeroMin,
	}
	return &Library{
		profiles: map[string]decode.Profile{
			generic.Name: generic,
		},
	}
}

// LoadFile merges the profiles found in path into l, overwriting any
// built-in of the same name.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading profile library %s: %w", path, err)
	}
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("config: parsing profile library %s: %w", path, err)
	}
	for _, p := range pf.Profiles {
		l.profiles[p.Name] = decode.Profile{
			Name:       p.Name,
			HLo:        p.HLo,
			HHi:        p.HHi,
			LLo:        p.LLo,
			LHi:        p.LHi,
			SyncGapMin: p.SyncGapMin,
			StreakMin:  p.StreakMin,
			BitOneMin:  p.BitOneMin,
			BitZeroMin: p.BitZeroMin,
		}
	}
	return nil
}

// Get looks up a profile by name, falling back to decode.Generic if
// name is unknown rather than failing the whole daemon over a typo in
// a config file.
func (l *Library) Get(name string) decode.Profile {
	if p, ok := l.profiles[name]; ok {
		return p
	}
	return decode.Generic
}
