// Package notify bridges internal events to Discord announcements. Big
// pulls (legendary and mythic) are worth broadcasting; everything below
// that threshold stays quiet.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
)

// MessageSender is the slice of discordgo.Session the announcer needs
type MessageSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts embeds to a Discord channel when notable events occur.
// A missing channel id disables it without touching the callers.
type Announcer struct {
	session   MessageSender
	channelID string
	bus       event.Bus
}

// NewAnnouncer creates a new Announcer
func NewAnnouncer(session MessageSender, channelID string, bus event.Bus) *Announcer {
	return &Announcer{
		session:   session,
		channelID: channelID,
		bus:       bus,
	}
}

// Subscribe registers handlers for relevant event types
func (a *Announcer) Subscribe() {
	a.bus.Subscribe(event.Type(domain.EventTypePackOpened), a.handlePackOpened)

	slog.Info(LogMsgSubscriberRegistered,
		"types", []string{domain.EventTypePackOpened})
}

// handlePackOpened announces legendary and mythic pulls
func (a *Announcer) handlePackOpened(_ context.Context, evt event.Event) error {
	if a.channelID == "" {
		return nil
	}

	payload, err := event.DecodePayload[domain.PackOpenedPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}

	if !payload.BestRarity.AtLeast(domain.RarityLegendary) {
		return nil
	}

	color := ColorLegendary
	if payload.BestRarity == domain.RarityMythic {
		color = ColorMythic
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Pull!", titleCaseRarity(payload.BestRarity)),
		Description: fmt.Sprintf("Someone just pulled **%s** from a pack!", payload.BestName),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Rarity",
				Value:  string(payload.BestRarity),
				Inline: true,
			},
			{
				Name:   "Pack",
				Value:  payload.PackID,
				Inline: true,
			},
			{
				Name:   "Pack Value",
				Value:  fmt.Sprintf("%d credits", payload.TotalValue),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: FooterText,
		},
	}

	if _, err := a.session.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		slog.Error(LogMsgAnnounceFailed, "event_type", evt.Type, "error", err)
		return err
	}

	slog.Info(LogMsgAnnounceSent, "event_type", evt.Type, "rarity", payload.BestRarity)
	return nil
}

// titleCaseRarity renders LEGENDARY as Legendary for embed titles
func titleCaseRarity(r domain.Rarity) string {
	return cases.Title(language.English).String(strings.ToLower(string(r)))
}
