package trigger

// Stats accumulates process-lifetime counters over a Loop's run: how
// many times the probe fired, how many of those produced a decoded
// packet, and how the rest failed. There is no metrics server behind
// this — it exists to be logged, not scraped.
type Stats struct {
	TriggersSeen    int
	PacketsDecoded  int
	SoftFailures    int
	FailureByReason map[string]int
}

func newStats() Stats {
	return Stats{FailureByReason: make(map[string]int)}
}

func (s *Stats) recordTrigger() {
	s.TriggersSeen++
}

func (s *Stats) recordDecoded() {
	s.PacketsDecoded++
}

func (s *Stats) recordSoftFailure(reason string) {
	s.SoftFailures++
	s.FailureByReason[reason]++
}

// Stats returns a copy of the loop's counters so far, so the result
// stays valid after Run returns. The counters are not guarded by a lock:
// calling Stats from another goroutine while Run is executing is a data
// race.
func (l *Loop) Stats() Stats {
	cp := Stats{
		TriggersSeen:    l.stats.TriggersSeen,
		PacketsDecoded:  l.stats.PacketsDecoded,
		SoftFailures:    l.stats.SoftFailures,
		FailureByReason: make(map[string]int, len(l.stats.FailureByReason)),
	}
	for k, v := range l.stats.FailureByReason {
		cp.FailureByReason[k] = v
	}
	return cp
}
