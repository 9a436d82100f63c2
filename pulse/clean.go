package pulse

// Clean trims leading and trailing Low runs, drops every run of duration
// ≤ minPulse, and merges same-level runs that become adjacent as a
// result. A dropped run's duration is folded into the merge that closes
// over it, so two genuine pulses separated only by a short noise blip
// are treated as one pulse rather than as a break in alternation.
//
// The input is assumed to already strictly alternate levels, which is
// what Encode produces; Clean's merge step is what keeps the *output*
// alternating too, since dropping a run from an alternating sequence
// otherwise leaves its former neighbors adjacent and same-level.
func Clean(pulses []Pulse, minPulse int) []Pulse {
	start := 0
	for start < len(pulses) && pulses[start].Level == Low {
		start++
	}
	end := len(pulses) - 1
	for end >= start && pulses[end].Level == Low {
		end--
	}
	if start > end {
		return nil
	}
	trimmed := pulses[start : end+1]

	var out []Pulse
	pendingDrop := 0
	for _, p := range trimmed {
		if p.Duration <= minPulse {
			pendingDrop += p.Duration
			continue
		}
		if n := len(out); n > 0 && out[n-1].Level == p.Level {
			out[n-1].Duration += pendingDrop + p.Duration
		} else {
			out = append(out, Pulse{Level: p.Level, Duration: p.Duration})
		}
		pendingDrop = 0
	}
	// Dropping a short first or last High can expose a Low at either end;
	// trim those as well so the result still starts and ends High.
	for len(out) > 0 && out[0].Level == Low {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1].Level == Low {
		out = out[:len(out)-1]
	}
	return out
}
