// Package httpapi exposes the widget backend over HTTP: the direct chat
// endpoint for the web widget, the session deletion endpoint, and the
// Telegram webhook receiver.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/leabeefollowme/chat-widget-backend/internal/engine"
	"github.com/leabeefollowme/chat-widget-backend/internal/telegram"
)

// Sender delivers outbound messages to a messaging transport.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Server holds the HTTP surface.
type Server struct {
	engine        *engine.Engine
	apiToken      string
	webhookSecret string
	sender        Sender
}

// New creates a Server. sender may be nil when no Telegram transport is
// configured; the webhook endpoint then rejects deliveries.
func New(eng *engine.Engine, apiToken, webhookSecret string, sender Sender) *Server {
	return &Server{
		engine:        eng,
		apiToken:      apiToken,
		webhookSecret: webhookSecret,
		sender:        sender,
	}
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/webhook/telegram", s.handleTelegramWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/chat", s.handleChat)
		r.Post("/forget", s.handleForget)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	log.Printf("[INFO] HTTP server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requireToken enforces bearer auth on the direct API when a token is
// configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.apiToken)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text"`
	Tone     string `json:"tone,omitempty"`
	Boldness string `json:"boldness,omitempty"`
}

type chatResponse struct {
	Reply      string  `json:"reply"`
	Mood       string  `json:"mood"`
	MoodScore  float64 `json:"mood_score"`
	Heat       int     `json:"heat"`
	SpiceLevel int     `json:"spice_level"`
	Language   string  `json:"language"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}

	s.engine.SetStyle(req.UserID, req.Tone, req.Boldness)

	res, err := s.engine.HandleMessage(r.Context(), req.UserID, req.Text)
	if err != nil {
		// Affect-side mutations are already applied and kept; only the
		// reply is missing.
		if errors.Is(err, engine.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "try again shortly")
			return
		}
		writeError(w, http.StatusBadGateway, "generation unavailable")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:      res.Reply,
		Mood:       string(res.Mood),
		MoodScore:  res.MoodScore,
		Heat:       res.Heat,
		SpiceLevel: res.SpiceLevel,
		Language:   res.Language,
	})
}

type forgetRequest struct {
	UserID string `json:"user_id"`
}

type forgetResponse struct {
	Deleted   bool   `json:"deleted"`
	Reference string `json:"reference"`
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	var req forgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	deleted := s.engine.Forget(req.UserID)
	writeJSON(w, http.StatusOK, forgetResponse{
		Deleted:   deleted,
		Reference: uuid.NewString(),
	})
}

func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.sender == nil {
		writeError(w, http.StatusNotFound, "telegram transport not configured")
		return
	}
	if s.webhookSecret != "" {
		got := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.webhookSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, "bad webhook secret")
			return
		}
	}

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update")
		return
	}

	// Always ack accepted deliveries right away; the reply goes out on the
	// sender path and failures there are logged, not surfaced.
	w.WriteHeader(http.StatusOK)

	msg := upd.Message
	if msg == nil || msg.Text == "" || (msg.From != nil && msg.From.IsBot) {
		return
	}
	userID := fmt.Sprintf("tg:%d", msg.Chat.ID)
	text := msg.Text

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res, err := s.engine.HandleMessage(ctx, userID, text)
		if err != nil {
			log.Printf("[WARN] telegram turn skipped user=%s: %v", userID, err)
			return
		}
		if err := s.sender.SendMessage(ctx, msg.Chat.ID, res.Reply); err != nil {
			log.Printf("[ERR] telegram delivery failed chat=%d: %v", msg.Chat.ID, err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.engine.Sessions(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
