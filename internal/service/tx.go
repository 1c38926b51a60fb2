package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// rollbackOnError rolls tx back when the named error of the calling
// function is set. Use with defer.
func rollbackOnError(ctx context.Context, tx pgx.Tx, errp *error, logger zerolog.Logger) {
	if *errp == nil {
		return
	}
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		logger.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}
