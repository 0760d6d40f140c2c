package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leabeefollowme/chat-widget-backend/internal/affect"
	"github.com/leabeefollowme/chat-widget-backend/internal/ai"
	"github.com/leabeefollowme/chat-widget-backend/internal/config"
	"github.com/leabeefollowme/chat-widget-backend/internal/discordbot"
	"github.com/leabeefollowme/chat-widget-backend/internal/engine"
	"github.com/leabeefollowme/chat-widget-backend/internal/httpapi"
	"github.com/leabeefollowme/chat-widget-backend/internal/persona"
	"github.com/leabeefollowme/chat-widget-backend/internal/telegram"
)

func main() {
	log.Println("[INFO] Starting Lea companion backend...")

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	classifier := affect.NewClassifier(affect.ClassifierConfig{})
	if cfg.KeywordsPath != "" {
		classifier, err = affect.LoadClassifier(cfg.KeywordsPath)
		if err != nil {
			log.Fatal("[ERR] ", err)
		}
		log.Printf("[INFO] Keyword tables loaded from %s", cfg.KeywordsPath)
	}

	provider, err := ai.NewProvider(cfg.AIProvider, ai.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.GenerationTimeout,
	})
	if err != nil {
		log.Fatal("[ERR] ", err)
	}
	log.Printf("[INFO] Generation provider: %s", cfg.AIProvider)

	facts := persona.DefaultFacts()
	if cfg.PersonaName != "" {
		facts.Name = cfg.PersonaName
	}

	eng := engine.New(affect.NewStore(), classifier, provider, engine.Options{
		Facts:      facts,
		GenTimeout: cfg.GenerationTimeout,
	})

	var sender httpapi.Sender
	if cfg.TelegramToken != "" {
		sender = telegram.NewClient(cfg.TelegramToken)
		log.Println("[INFO] Telegram delivery enabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := httpapi.New(eng, cfg.APIToken, cfg.TelegramWebhookSecret, sender)
	g.Go(func() error {
		return srv.Run(gctx, cfg.Addr())
	})

	if cfg.DiscordToken != "" {
		bot, err := discordbot.New(cfg.DiscordToken, eng)
		if err != nil {
			log.Fatal("[ERR] ", err)
		}
		g.Go(func() error {
			return bot.Run(gctx)
		})
		log.Println("[INFO] Discord transport enabled")
	}

	// Session state is process-lifetime only; log the count periodically so
	// operators can see churn without a metrics stack.
	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				log.Printf("[INFO] active sessions: %d", eng.Sessions())
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatal("[ERR] ", err)
	}
	log.Println("[INFO] Backend exited cleanly")
}
