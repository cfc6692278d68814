package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cfoust/dragonball/pkg/api"
	"github.com/cfoust/dragonball/pkg/config"
	"github.com/cfoust/dragonball/pkg/ingress"
	"github.com/cfoust/dragonball/pkg/state"
	"github.com/cfoust/dragonball/pkg/telemetry"

	"github.com/rs/zerolog/log"
)

func serve(configs []string) error {
	config, err := config.Process(configs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	serverConfig := config.Server

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, serverConfig.Tracing.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer shutdownTracing(ctx)

	db, err := state.InitDB(serverConfig.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to open database: %s", serverConfig.DBPath)
	}

	leaderboard := api.New(nil)
	var ranking *state.Ranking
	if serverConfig.Redis.Enabled {
		ranking = state.NewRanking(serverConfig.Redis)
		defer ranking.Close()
		leaderboard = api.New(ranking)
		log.Info().Str("address", serverConfig.Redis.Address).Msg("publishing scores to redis")
	} else {
		log.Warn().Msg("redis disabled, leaderboard will be unavailable")
	}

	bridge := state.NewBridge(state.NewScoreStore(db), ranking)
	wsIngress := ingress.NewWSIngress(bridge, serverConfig.Session, serverConfig.Origins)

	mux := http.NewServeMux()
	mux.Handle("/dragon_ws", wsIngress)
	mux.Handle("/api/", leaderboard)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", serverConfig.Port),
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on http://%s", httpServer.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		log.Error().Err(err).Msg("failed to serve")
	case sig := <-sigs:
		log.Info().Msgf("terminating: %v", sig)
	}

	wsIngress.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
