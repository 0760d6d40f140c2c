package affect

import "time"

// Bounds and thresholds for the affect tracker.
const (
	MoodScoreMin = -5.0
	MoodScoreMax = 10.0
	HeatMin      = 0
	HeatMax      = 10

	// Mood score decays once per message after a long silence.
	DecayAfter  = 3 * time.Hour
	DecayFactor = 0.8

	// Reaching this heat flips the adult-content gate, permanently.
	AdultContentHeat = 6
)

// ApplyMessage runs one tracker update for an inbound user message, in fixed
// order: decay, mood delta, mood label, heat, favorite topic. The caller must
// hold the session's lock.
func ApplyMessage(s *UserSession, sig Signals, now time.Time) {
	// Flat, single decay when the gap exceeds the window. Deliberately not
	// compounded per elapsed interval.
	if !s.LastInteractionTime.IsZero() && now.Sub(s.LastInteractionTime) > DecayAfter {
		s.MoodScore *= DecayFactor
	}
	s.LastInteractionTime = now

	var delta float64
	if sig.Positive {
		delta += 1
	}
	if sig.Flirty {
		delta += 2
	}
	if sig.StrongAdult {
		delta += 2
	}
	if sig.Negative {
		delta -= 2
	}
	s.MoodScore = clampFloat(s.MoodScore+delta, MoodScoreMin, MoodScoreMax)
	s.Mood = MoodFromScore(s.MoodScore)

	var heatInc int
	if sig.MildAdult {
		heatInc += 1
	}
	if sig.StrongAdult {
		heatInc += 2
	}
	if sig.Consent {
		heatInc += 3
	}
	s.Heat = clampInt(s.Heat+heatInc, HeatMin, HeatMax)
	if s.Heat >= AdultContentHeat {
		s.AllowAdultContent = true
	}

	if sig.Topic != "" {
		s.AddFavoriteTopic(sig.Topic)
	}
}

// MoodFromScore derives the mood label via ordered threshold checks, first
// match wins. Scores in (-3, 1) all map to neutral.
func MoodFromScore(score float64) Mood {
	switch {
	case score >= 7:
		return MoodPassionate
	case score >= 4:
		return MoodWarm
	case score >= 1:
		return MoodPleasant
	case score <= -3:
		return MoodCold
	default:
		return MoodNeutral
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
