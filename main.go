package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/abalone/apps/go-server/assets"
	"github.com/robalobadob/abalone/apps/go-server/internal/config"
	"github.com/robalobadob/abalone/apps/go-server/internal/events"
	"github.com/robalobadob/abalone/apps/go-server/internal/history"
	"github.com/robalobadob/abalone/apps/go-server/internal/httpserver"
	"github.com/robalobadob/abalone/apps/go-server/internal/room"
	"github.com/robalobadob/abalone/apps/go-server/internal/ticket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	archive := history.NewStore(db)

	var pub events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		n, err := events.DialNATS(cfg.NATSURL, cfg.ServiceName)
		if err != nil {
			log.Warn().Err(err).Msg("nats unavailable, events disabled")
		} else {
			pub = n
		}
	}
	defer pub.Close()

	tickets := ticket.NewIssuer(cfg.TicketSecret, cfg.TicketTTL)
	rooms := room.NewRegistry(room.Options{
		GracePeriod:   cfg.GracePeriod,
		PostWinDelay:  cfg.PostWinDelay,
		IdleTimeout:   cfg.IdleTimeout,
		SweepInterval: cfg.SweepInterval,
		ChatMaxLen:    cfg.ChatMaxLen,
		Tickets:       tickets,
		Events:        pub,
		Archive:       archive,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go rooms.Run(ctx)

	srv := httpserver.New(httpserver.Deps{
		Rooms:        rooms,
		Tickets:      tickets,
		History:      archive,
		ClientOrigin: cfg.ClientOrigin,
	})
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.ConsulAddr != "" {
		reg, err := registerConsul(cfg.ConsulAddr, cfg.ServiceName, cfg.Port)
		if err != nil {
			log.Warn().Err(err).Msg("consul registration skipped")
		} else {
			defer reg.deregister()
		}
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting abalone server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	rooms.CloseAll(room.ReasonShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
