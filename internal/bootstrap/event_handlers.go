package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/packworks/packworks/internal/config"
	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/metrics"
	"github.com/packworks/packworks/internal/notify"
)

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (event-driven Prometheus counters)
// - Discord pull announcer (only when a bot token is configured)
// Returns the Discord session, if one was opened, so the caller can close it
// during shutdown.
func RegisterEventHandlers(cfg *config.Config, eventBus event.Bus) (*discordgo.Session, error) {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(eventBus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if cfg.DiscordToken == "" {
		return nil, nil
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDiscord, err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDiscord, err)
	}

	notify.NewAnnouncer(session, cfg.DiscordChannel, eventBus).Subscribe()
	slog.Info(LogMsgAnnouncerSubscribed, "channel_id", cfg.DiscordChannel)

	return session, nil
}
