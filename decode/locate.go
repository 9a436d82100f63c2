package decode

import "github.com/n0rx/ook315rx/pulse"

// locateSync scans clean for a streak of at least profile.StreakMin
// (High, Low) preamble pairs within the profile's tolerance windows,
// followed by a Low run longer than profile.SyncGapMin. It returns the
// index of that Low run and true, or false if no such boundary exists.
// The first qualifying sync gap wins; the tolerance windows are
// inclusive.
func locateSync(clean []pulse.Pulse, p Profile) (syncIdx int, ok bool) {
	streak := 0
	for i := 0; i+1 < len(clean); i++ {
		hi, lo := clean[i], clean[i+1]
		if hi.Level != pulse.High || lo.Level != pulse.Low {
			continue
		}
		if hi.Duration >= p.HLo && hi.Duration <= p.HHi &&
			lo.Duration >= p.LLo && lo.Duration <= p.LHi {
			streak++
			continue
		}
		if streak >= p.StreakMin && lo.Duration > p.SyncGapMin {
			return i + 1, true
		}
		streak = 0
	}
	return 0, false
}
