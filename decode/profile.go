// Package decode locates the preamble/sync-gap boundary in a Clean Pulse
// Sequence and slices the payload that follows it into PWM bits.
package decode

// Profile is a named set of preamble and PWM timing parameters for one
// RKE transmitter variant. The default, Generic, matches the windows
// this receiver was originally tuned against; a receiver pointed at a
// different transmitter selects a different Profile by name rather than
// being rebuilt with different constants.
type Profile struct {
	Name string

	// Preamble (High, Low) cell tolerance windows, inclusive.
	HLo, HHi int
	LLo, LHi int

	// SyncGapMin is the minimum Low duration, strictly exceeded, that
	// ends a preamble streak and opens the payload.
	SyncGapMin int

	// StreakMin is the number of (High, Low) preamble pairs required
	// before a sync gap is accepted.
	StreakMin int

	// BitOneMin / BitZeroMin bound PWM High-pulse widths: duration >
	// BitOneMin is a '1'; BitZeroMin < duration <= BitOneMin is a '0';
	// duration <= BitZeroMin is skipped.
	BitOneMin  int
	BitZeroMin int
}

// Generic is the default profile, matching the receiver's original
// tuning for one specific RKE variant.
var Generic = Profile{
	Name:       "generic",
	HLo:        70,
	HHi:        110,
	LLo:        130,
	LHi:        175,
	SyncGapMin: 200,
	StreakMin:  4,
	BitOneMin:  75,
	BitZeroMin: 30,
}
