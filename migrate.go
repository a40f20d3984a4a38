package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	schedulex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/schedule"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
	configx "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/config"
	"github.com/tanpawarit/Chative-Schedule-Assistant/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schedules and user_states tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := configx.New[AppConfig]("APP")
		if err != nil {
			return fmt.Errorf("loading app config: %w", err)
		}
		dbCfg, err := configx.New[database.Config]("DB")
		if err != nil {
			return fmt.Errorf("loading database config: %w", err)
		}

		db, err := database.Open(cmd.Context(), *dbCfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		states, err := newStateStore(appCfg.StateBackend, db)
		if err != nil {
			return err
		}
		if err := migrate(cmd.Context(), &app{db: db, schedules: schedulex.NewSQLStore(db), states: states}); err != nil {
			return err
		}

		if _, ok := states.(*statex.SQLStore); !ok {
			log.Info().Str("state_backend", appCfg.StateBackend).Msg("state backend has no schema; only schedules migrated")
		}
		log.Info().Str("db_driver", dbCfg.Driver).Msg("migration complete")
		return nil
	},
}
