package affect

import "time"

// Mood is the coarse label derived from MoodScore. Never set directly.
type Mood string

const (
	MoodCold       Mood = "cold"
	MoodNeutral    Mood = "neutral"
	MoodPleasant   Mood = "pleasant"
	MoodWarm       Mood = "warm"
	MoodPassionate Mood = "passionate"
)

// History roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryCap bounds the per-session conversation log. Oldest entries are
// evicted first.
const HistoryCap = 20

// HistoryEntry is one role-tagged message in the conversation log.
type HistoryEntry struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// UserSession is the complete tracked affect state for one user identity.
// All fields are guarded by the owning store entry; never share a live
// session across goroutines, hand out Snapshots instead.
type UserSession struct {
	UserID              string
	MoodScore           float64
	Mood                Mood
	Heat                int
	AllowAdultContent   bool
	FavoriteTopics      []string
	LastInteractionTime time.Time
	History             []HistoryEntry

	// Externally settable style knobs; the tracker never touches these.
	Tone     string
	Boldness string
}

func newSession(userID string) *UserSession {
	return &UserSession{
		UserID: userID,
		Mood:   MoodNeutral,
	}
}

// AppendHistory appends one entry and evicts the oldest while over capacity.
func (s *UserSession) AppendHistory(e HistoryEntry) {
	s.History = append(s.History, e)
	if len(s.History) > HistoryCap {
		s.History = s.History[len(s.History)-HistoryCap:]
	}
}

// AddFavoriteTopic appends topic unless it is already known. Insertion order
// is preserved.
func (s *UserSession) AddFavoriteTopic(topic string) {
	if topic == "" {
		return
	}
	for _, t := range s.FavoriteTopics {
		if t == topic {
			return
		}
	}
	s.FavoriteTopics = append(s.FavoriteTopics, topic)
}

// Snapshot is an immutable copy of session state handed to the prompt
// composer and transports outside the session lock.
type Snapshot struct {
	UserID            string
	MoodScore         float64
	Mood              Mood
	Heat              int
	AllowAdultContent bool
	FavoriteTopics    []string
	History           []HistoryEntry
	Tone              string
	Boldness          string
	SpiceLevel        int
}

// Snapshot copies the session state plus the resolved spice level.
func (s *UserSession) Snapshot(spiceLevel int) Snapshot {
	topics := make([]string, len(s.FavoriteTopics))
	copy(topics, s.FavoriteTopics)
	hist := make([]HistoryEntry, len(s.History))
	copy(hist, s.History)
	return Snapshot{
		UserID:            s.UserID,
		MoodScore:         s.MoodScore,
		Mood:              s.Mood,
		Heat:              s.Heat,
		AllowAdultContent: s.AllowAdultContent,
		FavoriteTopics:    topics,
		History:           hist,
		Tone:              s.Tone,
		Boldness:          s.Boldness,
		SpiceLevel:        spiceLevel,
	}
}
