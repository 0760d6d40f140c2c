// Package discordbot is the optional Discord transport: direct messages and
// mentions feed the same affect engine as the web widget.
package discordbot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/leabeefollowme/chat-widget-backend/internal/engine"
)

// Bot is the Discord gateway transport.
type Bot struct {
	dg     *discordgo.Session
	engine *engine.Engine
}

// New creates the bot session without opening it.
func New(token string, eng *engine.Engine) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{dg: dg, engine: eng}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

// Run opens the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Discord transport shutting down...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	log.Printf("[INFO] Discord connected as %s", s.State.User.Username)
}

// onMessageCreate handles DMs and mentions. Guild chatter that does not
// address the bot is ignored.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	isDM := m.GuildID == ""
	mentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}
	if !isDM && !mentioned {
		return
	}

	text := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if text == "" {
		return
	}

	s.ChannelTyping(m.ChannelID) //nolint:errcheck

	userID := "dc:" + m.Author.ID
	res, err := b.engine.HandleMessage(context.Background(), userID, text)
	if err != nil {
		// The turn's affect mutations are kept; this delivery is skipped.
		log.Printf("[WARN] discord turn skipped user=%s: %v", userID, err)
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, res.Reply); err != nil {
		log.Printf("[ERR] discord delivery failed channel=%s: %v", m.ChannelID, err)
	}
}

func stripMention(content, botID string) string {
	for _, tag := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		content = strings.ReplaceAll(content, tag, "")
	}
	return content
}
