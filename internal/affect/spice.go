package affect

// SpiceInput bundles everything the spice resolver reads. Pure data, no
// session reference.
type SpiceInput struct {
	ConversationLength int
	Heat               int
	Mood               Mood
	AllowAdultContent  bool
}

type spiceRule struct {
	name  string
	level int
	match func(in SpiceInput) bool
}

// Ordered rule list, last match wins. Each matching rule replaces the level
// outright instead of taking a maximum, so the pleasant rule running after
// the warm rule can assign level 3 to a session that never met the level-1
// condition. Inherited behavior; do not reorder or convert to max-of.
var spiceRules = []spiceRule{
	{"opening", 1, func(in SpiceInput) bool {
		return in.ConversationLength > 4 || in.Heat > 2 || in.Mood == MoodWarm
	}},
	{"settled", 3, func(in SpiceInput) bool {
		return in.ConversationLength > 10 || in.Heat > 4 || in.Mood == MoodPleasant
	}},
	{"close", 4, func(in SpiceInput) bool {
		return in.ConversationLength > 16 || in.Heat > 6 || in.Mood == MoodPassionate
	}},
	{"unlocked", 5, func(in SpiceInput) bool {
		return in.AllowAdultContent && in.Heat > 8
	}},
}

// SpiceLevel resolves the flirtiness level 0..5 for the current turn.
func SpiceLevel(in SpiceInput) int {
	level := 0
	for _, r := range spiceRules {
		if r.match(in) {
			level = r.level
		}
	}
	return level
}
