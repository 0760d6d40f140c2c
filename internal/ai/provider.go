package ai

import (
	"context"
	"fmt"
	"strings"
)

// Message is one role-tagged entry sent to the generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider generates a single text reply from an ordered message list.
// Implementations are opaque, potentially slow and potentially failing;
// callers bound them with a context deadline.
type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// NewProvider selects a provider by engine string:
//
//	pollinations
//	openai            (model taken from opts)
//	openai:gpt-4o-mini
func NewProvider(engine string, opts OpenAIOptions) (Provider, error) {
	switch {
	case engine == "pollinations" || engine == "":
		return NewPollinationsProvider(), nil
	case engine == "openai":
		return NewOpenAIProvider(opts)
	case strings.HasPrefix(engine, "openai:"):
		opts.Model = strings.TrimPrefix(engine, "openai:")
		return NewOpenAIProvider(opts)
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", engine)
	}
}
