package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full process configuration, read from the environment with
// an optional .env file on top.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	APIToken string `env:"API_TOKEN"`

	AIProvider        string        `env:"AI_PROVIDER" envDefault:"pollinations"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"25s"`

	TelegramToken         string `env:"TELEGRAM_TOKEN"`
	TelegramWebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`

	DiscordToken string `env:"DISCORD_TOKEN"`

	KeywordsPath string `env:"KEYWORDS_PATH"`
	PersonaName  string `env:"PERSONA_NAME" envDefault:"Lea"`
}

// New loads configuration. A missing .env file is fine; unset variables fall
// back to defaults.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("AI_PROVIDER=openai requires OPENAI_API_KEY")
	}
	if cfg.TelegramWebhookSecret != "" && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_WEBHOOK_SECRET is set but TELEGRAM_TOKEN is not")
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
