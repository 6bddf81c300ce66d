package repository

import (
	"context"
	"errors"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/logger"
)

// SafeRollback is deferred right after a transaction begins. Once the
// transaction has committed the rollback is a no-op; any other failure is logged.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, domain.ErrTxClosed) {
		return
	}
	logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
}

// LogMsgRollbackFailed is logged when a deferred rollback fails on an open transaction.
const LogMsgRollbackFailed = "Failed to rollback transaction"
