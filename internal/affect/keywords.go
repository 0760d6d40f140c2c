package affect

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Category names for the keyword classifier. Categories are independent:
// one message may trigger several of them at once.
type Category string

const (
	CategoryPositive    Category = "positive"
	CategoryNegative    Category = "negative"
	CategoryFlirty      Category = "flirty"
	CategoryMildAdult   Category = "mild_adult"
	CategoryStrongAdult Category = "strong_adult"
	CategoryConsent     Category = "explicit_consent"
)

// Signals is the classifier output for one message.
type Signals struct {
	Positive    bool
	Negative    bool
	Flirty      bool
	MildAdult   bool
	StrongAdult bool
	Consent     bool
	Topic       string // favorite-topic capture, empty when absent
}

// ClassifierConfig is the declarative keyword configuration. Single-word
// entries match on word boundaries, multi-word entries match as substrings.
type ClassifierConfig struct {
	Categories    map[Category][]string `yaml:"categories"`
	TopicTriggers []string              `yaml:"topic_triggers"`
}

// DefaultClassifierConfig returns the built-in word tables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Categories: map[Category][]string{
			CategoryPositive: {
				"thank", "thanks", "love", "great", "awesome", "nice",
				"happy", "sweet", "fun", "haha", "lol", "😊", "❤",
			},
			CategoryNegative: {
				"hate", "stupid", "idiot", "boring", "ugly", "annoying",
				"shut up", "leave me alone", "go away", "worst",
			},
			CategoryFlirty: {
				"flirt", "kiss", "cute", "beautiful", "gorgeous",
				"handsome", "darling", "babe", "charming", "miss you",
				"wink", "😉",
			},
			CategoryMildAdult: {
				"hot", "sexy", "spicy", "tempt", "attractive",
				"naughty", "wild", "damn fine",
			},
			CategoryStrongAdult: {
				"seduce", "undress", "lingerie", "make out",
				"turn me on", "in bed with", "strip for",
			},
			CategoryConsent: {
				"i consent", "i am an adult", "i'm an adult",
				"i am over 18", "i'm over 18",
			},
		},
		TopicTriggers: []string{
			"favorite topic is",
			"favourite topic is",
			"i love talking about",
			"my favorite thing is",
			"let's talk about",
		},
	}
}

// Classifier tests text against fixed keyword tables per category.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier builds a classifier from cfg. Empty fields fall back to the
// built-in tables so a partial override file stays usable.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	def := DefaultClassifierConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	} else {
		for cat, words := range def.Categories {
			if _, ok := cfg.Categories[cat]; !ok {
				cfg.Categories[cat] = words
			}
		}
	}
	if len(cfg.TopicTriggers) == 0 {
		cfg.TopicTriggers = def.TopicTriggers
	}
	return &Classifier{cfg: cfg}
}

// LoadClassifier reads a YAML keyword file and builds a classifier from it.
func LoadClassifier(path string) (*Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	var cfg ClassifierConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}
	return NewClassifier(cfg), nil
}

// Present reports whether any keyword of the category occurs in text.
func (c *Classifier) Present(cat Category, text string) bool {
	lower := strings.ToLower(text)
	for _, w := range c.cfg.Categories[cat] {
		if matchKeyword(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Classify runs every category plus the favorite-topic capture over text.
func (c *Classifier) Classify(text string) Signals {
	return Signals{
		Positive:    c.Present(CategoryPositive, text),
		Negative:    c.Present(CategoryNegative, text),
		Flirty:      c.Present(CategoryFlirty, text),
		MildAdult:   c.Present(CategoryMildAdult, text),
		StrongAdult: c.Present(CategoryStrongAdult, text),
		Consent:     c.Present(CategoryConsent, text),
		Topic:       c.ExtractTopic(text),
	}
}

// ExtractTopic returns the phrase following the first matching topic trigger,
// cut at sentence punctuation. Empty string when no trigger is present.
func (c *Classifier) ExtractTopic(text string) string {
	lower := strings.ToLower(text)
	for _, trig := range c.cfg.TopicTriggers {
		idx := strings.Index(lower, trig)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(trig):]
		if cut := strings.IndexAny(rest, ".!?\n,"); cut >= 0 {
			rest = rest[:cut]
		}
		topic := strings.ToLower(strings.TrimSpace(rest))
		if topic != "" {
			return topic
		}
	}
	return ""
}

// matchKeyword matches word on boundaries when it is a single token and by
// plain substring otherwise ("hot" must not fire on "photo").
func matchKeyword(lower, word string) bool {
	if word == "" {
		return false
	}
	if strings.ContainsAny(word, " '") || !isWordLike(word) {
		return strings.Contains(lower, word)
	}
	for from := 0; ; {
		idx := strings.Index(lower[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if boundaryAt(lower, start-1) && boundaryAt(lower, end) {
			return true
		}
		from = start + 1
	}
}

func isWordLike(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// boundaryAt reports whether position i (byte index of the rune before or at
// a match edge) is outside a word. Out-of-range counts as a boundary.
func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
