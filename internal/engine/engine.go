// Package engine runs the per-message pipeline: affect update under the
// session lock, generation outside it, assistant history append back under
// the same turn before the next message for that identity proceeds.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/leabeefollowme/chat-widget-backend/internal/affect"
	"github.com/leabeefollowme/chat-widget-backend/internal/ai"
	"github.com/leabeefollowme/chat-widget-backend/internal/persona"
)

// ErrRateLimited is returned when the generation limiter denies a turn. The
// affect-side mutations from the user's message are already applied.
var ErrRateLimited = errors.New("generation rate limited")

// Options tune an Engine. Zero values fall back to defaults.
type Options struct {
	Facts      persona.Facts
	Limiter    *Limiter
	GenTimeout time.Duration
}

// Engine owns the session store and wires classifier, tracker, resolver and
// generation provider into message turns.
type Engine struct {
	store      *affect.Store
	classifier *affect.Classifier
	provider   ai.Provider
	limiter    *Limiter
	facts      persona.Facts
	genTimeout time.Duration
	now        func() time.Time
}

func New(store *affect.Store, classifier *affect.Classifier, provider ai.Provider, opts Options) *Engine {
	if opts.Limiter == nil {
		opts.Limiter = DefaultLimiter()
	}
	if opts.GenTimeout <= 0 {
		opts.GenTimeout = 25 * time.Second
	}
	if opts.Facts.Name == "" {
		opts.Facts = persona.DefaultFacts()
	}
	return &Engine{
		store:      store,
		classifier: classifier,
		provider:   provider,
		limiter:    opts.Limiter,
		facts:      opts.Facts,
		genTimeout: opts.GenTimeout,
		now:        time.Now,
	}
}

// TurnResult is the outcome of one processed message. The affect fields are
// valid even when Reply is empty because generation failed.
type TurnResult struct {
	Reply      string
	Mood       affect.Mood
	MoodScore  float64
	Heat       int
	SpiceLevel int
	Language   string
}

// HandleMessage processes one inbound message for userID. State mutations
// from the user's message are applied and retained regardless of how the
// generation call ends; on generation failure the assistant history append
// is skipped and the error returned for the caller's path to handle.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) (TurnResult, error) {
	turn := e.store.BeginTurn(userID)
	defer turn.End()

	lang := affect.DetectLanguage(text)
	sig := e.classifier.Classify(text)
	now := e.now()

	var snap affect.Snapshot
	turn.Update(func(s *affect.UserSession) {
		affect.ApplyMessage(s, sig, now)
		level := affect.SpiceLevel(affect.SpiceInput{
			ConversationLength: len(s.History),
			Heat:               s.Heat,
			Mood:               s.Mood,
			AllowAdultContent:  s.AllowAdultContent,
		})
		s.AppendHistory(affect.HistoryEntry{Role: affect.RoleUser, Content: text, At: now})
		snap = s.Snapshot(level)
	})

	res := TurnResult{
		Mood:       snap.Mood,
		MoodScore:  snap.MoodScore,
		Heat:       snap.Heat,
		SpiceLevel: snap.SpiceLevel,
		Language:   lang,
	}

	if !e.limiter.Allow(userID, now) {
		log.Printf("[WARN] generation limited user=%s", userID)
		return res, ErrRateLimited
	}

	// The external call runs outside the state lock; the turn lock alone
	// keeps this identity's messages ordered.
	genCtx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()
	reply, err := e.provider.Generate(genCtx, persona.BuildMessages(e.facts, snap, lang))
	if err != nil {
		log.Printf("[ERR] generation failed user=%s: %v", userID, err)
		return res, fmt.Errorf("generate: %w", err)
	}
	e.limiter.Record(userID, e.now())

	reply += persona.ReplySuffix(lang)
	turn.Update(func(s *affect.UserSession) {
		s.AppendHistory(affect.HistoryEntry{Role: affect.RoleAssistant, Content: reply, At: e.now()})
	})

	res.Reply = reply
	return res, nil
}

// Forget removes the identity's session entirely. Reports whether a session
// existed.
func (e *Engine) Forget(userID string) bool {
	deleted := e.store.Delete(userID)
	if deleted {
		log.Printf("[INFO] session deleted user=%s", userID)
	}
	return deleted
}

// SetStyle updates the externally settable style knobs. Empty values leave
// the current setting untouched.
func (e *Engine) SetStyle(userID, tone, boldness string) {
	if tone == "" && boldness == "" {
		return
	}
	e.store.Update(userID, func(s *affect.UserSession) {
		if tone != "" {
			s.Tone = tone
		}
		if boldness != "" {
			s.Boldness = boldness
		}
	})
}

// Sessions returns the number of active sessions.
func (e *Engine) Sessions() int {
	return e.store.Len()
}
