package bootstrap

import (
	"context"
	"log/slog"
)

// GracefulShutdown stops the app in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (cancel in-flight jobs)
// 3. Event publisher (flush pending events)
// 4. Dead-letter file, redis and the database pool
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, app *App) {
	slog.Info(LogMsgShuttingDownServer)
	if app.server != nil {
		if err := app.server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgStoppingJobs)
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.pool != nil {
		app.pool.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if app.publisher != nil {
		if err := app.publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		app.publisher = nil
	}

	app.closeResources()
	slog.Info(LogMsgServerStopped)
}

// closeResources releases whatever New managed to open.
func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Shutdown(context.Background()); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		a.publisher = nil
	}
	if a.deadLetters != nil {
		if err := a.deadLetters.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "resource", "payout_deadletter", "error", err)
		}
		a.deadLetters = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "resource", "redis", "error", err)
		}
		a.redis = nil
	}
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}
