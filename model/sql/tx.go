package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

func rollback(log zerolog.Logger, tx *sqlx.Tx) {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Err(err).Msg("failed to rollback transaction")
	}
}
