package bootstrap

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/reveal"
	"github.com/packworks/packworks/internal/server"
	"github.com/packworks/packworks/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	RevealStore        *reveal.Store
	SweepWorker        *worker.ExpirySweepWorker
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Discord            *discordgo.Session
	DBPool             *pgxpool.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts them down in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Reveal session store (flush so in-flight reveals commit their cards)
// 3. Expiry sweep worker and its pool (drain queued sweeps)
// 4. Event publisher (flush pending events to ensure consistency)
// 5. Discord session and database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.RevealStore != nil {
		components.RevealStore.Flush()
	}

	if components.SweepWorker != nil {
		if err := components.SweepWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgSweepWorkerShutdownFailed, "error", err)
		}
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	// Shutdown resilient publisher after producers to flush pending events
	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	if components.Discord != nil {
		if err := components.Discord.Close(); err != nil {
			slog.Error(LogMsgDiscordCloseFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
