package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// QueryLogger logs every bun query through the global zerolog logger.
type QueryLogger struct{}

var _ bun.QueryHook = QueryLogger{}

func (QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (QueryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		log.Error().
			Err(event.Err).
			Str("operation", event.Operation()).
			Dur("elapsed", elapsed).
			Str("query", event.Query).
			Msg("db query failed")
		return
	}

	log.Debug().
		Str("operation", event.Operation()).
		Dur("elapsed", elapsed).
		Str("query", event.Query).
		Msg("db query")
}
