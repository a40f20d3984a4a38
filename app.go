package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"github.com/tanpawarit/Chative-Schedule-Assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	dialoguex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/dialogue"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	schedulex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/schedule"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
	configx "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/config"
	"github.com/tanpawarit/Chative-Schedule-Assistant/pkg/database"
)

const (
	StateBackendSQL     = "sql"
	StateBackendUpstash = "upstash"
	StateBackendMemory  = "memory"
)

type AppConfig struct {
	Port            int           `envconfig:"PORT" default:"3000"`
	Locale          string        `split_words:"true" default:"ja"`
	TimeZone        string        `split_words:"true" default:"Asia/Tokyo"`
	StateBackend    string        `split_words:"true" default:"sql"`
	SerializeTurns  bool          `split_words:"true" default:"true"`
	AutoMigrate     bool          `split_words:"true" default:"true"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// app holds everything a turn needs. Close releases the database.
type app struct {
	db           *bun.DB
	schedules    *schedulex.SQLStore
	states       statex.Store
	orchestrator *orchestrator.Orchestrator
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildApp(ctx context.Context, cfg AppConfig, dbCfg database.Config, recorder contractx.Recorder) (*app, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", cfg.TimeZone, err)
	}

	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a := &app{db: db, schedules: schedulex.NewSQLStore(db)}

	a.states, err = newStateStore(cfg.StateBackend, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrate(ctx, a); err != nil {
			a.Close()
			return nil, err
		}
	}

	engine, err := dialoguex.New(a.schedules, dialoguex.WithLocation(loc))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.orchestrator, err = orchestrator.New(
		a.states,
		engine,
		intentx.NewClassifier(intentx.WithLocation(loc)),
		replyx.NewFormatter(replyx.CatalogFor(cfg.Locale)),
		recorder,
		orchestrator.Config{SerializeTurns: cfg.SerializeTurns},
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building orchestrator: %w", err)
	}

	log.Info().
		Str("db_driver", dbCfg.Driver).
		Str("state_backend", cfg.StateBackend).
		Str("time_zone", loc.String()).
		Str("locale", cfg.Locale).
		Bool("serialize_turns", cfg.SerializeTurns).
		Msg("schedule assistant ready")

	return a, nil
}

func newStateStore(backend string, db *bun.DB) (statex.Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case StateBackendSQL, "":
		return statex.NewSQLStore(db), nil
	case StateBackendUpstash:
		redisCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS_REST")
		if err != nil {
			return nil, fmt.Errorf("loading upstash config: %w", err)
		}
		return statex.NewUpstashRedisStore(*redisCfg)
	case StateBackendMemory:
		return statex.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported state backend=%q", backend)
	}
}

func migrate(ctx context.Context, a *app) error {
	if err := a.schedules.CreateSchema(ctx); err != nil {
		return err
	}
	if sqlStates, ok := a.states.(*statex.SQLStore); ok {
		if err := sqlStates.CreateSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}
