package engine_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leabeefollowme/chat-widget-backend/internal/affect"
	"github.com/leabeefollowme/chat-widget-backend/internal/ai"
	"github.com/leabeefollowme/chat-widget-backend/internal/engine"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	lastMsg []ai.Message
}

func (f *fakeProvider) Generate(_ context.Context, messages []ai.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsg = messages
	return f.reply, f.err
}

func newTestEngine(p ai.Provider) (*engine.Engine, *affect.Store) {
	store := affect.NewStore()
	cls := affect.NewClassifier(affect.ClassifierConfig{})
	e := engine.New(store, cls, p, engine.Options{
		Limiter: engine.NewLimiter(1000, 10000, 0),
	})
	return e, store
}

func TestHandleMessageAppendsBothSides(t *testing.T) {
	p := &fakeProvider{reply: "hello you"}
	e, store := newTestEngine(p)

	res, err := e.HandleMessage(context.Background(), "alice", "hi there")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if res.Reply != "hello you" {
		t.Fatalf("Reply = %q", res.Reply)
	}
	if res.Language != "en" || res.Mood != affect.MoodNeutral {
		t.Fatalf("result = %+v", res)
	}

	var hist []affect.HistoryEntry
	store.View("alice", func(s *affect.UserSession) {
		hist = append(hist, s.History...)
	})
	if len(hist) != 2 {
		t.Fatalf("history = %d entries, want 2", len(hist))
	}
	if hist[0].Role != affect.RoleUser || hist[0].Content != "hi there" {
		t.Fatalf("first entry = %+v", hist[0])
	}
	if hist[1].Role != affect.RoleAssistant || hist[1].Content != "hello you" {
		t.Fatalf("second entry = %+v", hist[1])
	}

	// The provider saw system context plus the user message.
	if len(p.lastMsg) != 2 || p.lastMsg[0].Role != "system" || p.lastMsg[1].Content != "hi there" {
		t.Fatalf("provider messages = %+v", p.lastMsg)
	}
}

func TestHandleMessageKeepsStateOnGenerationFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	e, store := newTestEngine(p)

	res, err := e.HandleMessage(context.Background(), "bob", "you look sexy")
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Heat != 1 {
		t.Fatalf("Heat = %d, want 1 despite failure", res.Heat)
	}

	var hist []affect.HistoryEntry
	var heat int
	store.View("bob", func(s *affect.UserSession) {
		hist = append(hist, s.History...)
		heat = s.Heat
	})
	if heat != 1 {
		t.Fatalf("stored heat = %d, want 1 (no rollback)", heat)
	}
	if len(hist) != 1 || hist[0].Role != affect.RoleUser {
		t.Fatalf("history = %+v, want only the user entry", hist)
	}
}

func TestHandleMessageRateLimited(t *testing.T) {
	p := &fakeProvider{reply: "ok then"}
	store := affect.NewStore()
	cls := affect.NewClassifier(affect.ClassifierConfig{})
	e := engine.New(store, cls, p, engine.Options{
		Limiter: engine.NewLimiter(1000, 10000, time.Hour),
	})

	if _, err := e.HandleMessage(context.Background(), "carol", "hi"); err != nil {
		t.Fatalf("first message: %v", err)
	}
	_, err := e.HandleMessage(context.Background(), "carol", "hi again")
	if !errors.Is(err, engine.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", p.calls)
	}

	// The limited message still mutated the session.
	var histLen int
	store.View("carol", func(s *affect.UserSession) { histLen = len(s.History) })
	if histLen != 3 {
		t.Fatalf("history = %d entries, want 3 (two user, one assistant)", histLen)
	}
}

func TestHandleMessageLocalizesReplySuffix(t *testing.T) {
	p := &fakeProvider{reply: "привет"}
	e, _ := newTestEngine(p)
	res, err := e.HandleMessage(context.Background(), "dina", "привет, как дела")
	if err != nil {
		t.Fatal(err)
	}
	if res.Language != "ru" {
		t.Fatalf("Language = %s, want ru", res.Language)
	}
	if !strings.HasSuffix(res.Reply, "😊") {
		t.Fatalf("Reply = %q, want ru suffix", res.Reply)
	}
}

func TestForgetThenFreshSession(t *testing.T) {
	p := &fakeProvider{reply: "mhm"}
	e, store := newTestEngine(p)

	for i := 0; i < 3; i++ {
		if _, err := e.HandleMessage(context.Background(), "erin", "you are so hot"); err != nil {
			t.Fatal(err)
		}
	}
	var heat int
	store.View("erin", func(s *affect.UserSession) { heat = s.Heat })
	if heat != 3 {
		t.Fatalf("heat = %d, want 3", heat)
	}

	if !e.Forget("erin") {
		t.Fatal("Forget returned false")
	}
	if e.Forget("erin") {
		t.Fatal("second Forget should return false")
	}

	res, err := e.HandleMessage(context.Background(), "erin", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.Heat != 0 || res.MoodScore != 0 {
		t.Fatalf("recreated session result = %+v, want defaults", res)
	}
}

func TestSetStyleSurvivesTrackerUpdates(t *testing.T) {
	p := &fakeProvider{reply: "sure"}
	e, store := newTestEngine(p)

	e.SetStyle("faye", "playful", "high")
	if _, err := e.HandleMessage(context.Background(), "faye", "hey"); err != nil {
		t.Fatal(err)
	}

	store.View("faye", func(s *affect.UserSession) {
		if s.Tone != "playful" || s.Boldness != "high" {
			t.Errorf("style = %q/%q", s.Tone, s.Boldness)
		}
	})

	// Partial update keeps the other knob.
	e.SetStyle("faye", "", "low")
	store.View("faye", func(s *affect.UserSession) {
		if s.Tone != "playful" || s.Boldness != "low" {
			t.Errorf("style after partial update = %q/%q", s.Tone, s.Boldness)
		}
	})
}

func TestConcurrentTurnsSameIdentityNoLostUpdate(t *testing.T) {
	p := &fakeProvider{reply: "noted"}
	e, store := newTestEngine(p)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.HandleMessage(context.Background(), "gus", "so naughty")
		}()
	}
	wg.Wait()

	var heat int
	store.View("gus", func(s *affect.UserSession) { heat = s.Heat })
	if heat != 10 {
		t.Fatalf("heat = %d, want 10 (one per message, none lost)", heat)
	}
}
