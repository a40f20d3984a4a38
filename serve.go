package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tanpawarit/Chative-Schedule-Assistant/agent/webhook"
	configx "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/config"
	"github.com/tanpawarit/Chative-Schedule-Assistant/pkg/database"
	linex "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/line"
	metricsx "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/metrics"

	_ "time/tzdata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the LINE webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	appCfg, err := configx.New[AppConfig]("APP")
	if err != nil {
		return fmt.Errorf("loading app config: %w", err)
	}
	dbCfg, err := configx.New[database.Config]("DB")
	if err != nil {
		return fmt.Errorf("loading database config: %w", err)
	}
	lineCfg, err := configx.New[linex.Config]("LINE")
	if err != nil {
		return fmt.Errorf("loading line config: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metricsx.NewPrometheusRecorder(reg)

	a, err := buildApp(ctx, *appCfg, *dbCfg, recorder)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}()

	lineClient, err := linex.NewClient(*lineCfg)
	if err != nil {
		return fmt.Errorf("building line client: %w", err)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", appCfg.Port),
		Handler: webhook.NewRouter(webhook.Deps{
			Messages:      a.orchestrator,
			Replier:       lineClient,
			ChannelSecret: lineCfg.ChannelSecret,
			Events:        recorder,
			Gatherer:      reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
