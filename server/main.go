package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"rocketbunker/sim"
)

const shutdownGrace = 5 * time.Second

func main() {
	configDir := flag.String("config", ".", "Directory holding "+configName)
	flag.Parse()

	boot := NewLogger("info", "console", os.Stderr)
	if err := LoadConfig(*configDir); err != nil {
		boot.Fatal().Err(err).Msg("loading config")
	}
	cfg, err := CurrentConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid config")
	}
	log := NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("arena stopped")
	}
	log.Info().Msg("arena stopped")
}

func run(cfg Config, log zerolog.Logger) error {
	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	auth, err := NewAuth(db, cfg.PasswordHash, cfg.TokenTTL, log)
	if err != nil {
		return err
	}
	if cfg.PasswordHash == "" {
		log.Warn().Msg("auth.passwordHash is empty, nobody can take control")
	}

	analytics := NewAnalytics(db, log)
	defer analytics.Stop()

	hub := NewHub(auth, log)
	metrics, err := NewMetrics(nil, hub.ClientCount)
	if err != nil {
		return err
	}
	host := NewHost(cfg, hub, db, analytics, metrics, log)
	hub.Bind(host, analytics)

	level, err := LoadLevel(cfg.LevelPath, cfg.SpawnX, cfg.SpawnZ, cfg.Seed)
	if err != nil {
		return err
	}
	world, err := sim.NewWorld(level, sim.Options{
		Logger:       log,
		Notifier:     host,
		Time:         sim.SystemTime{},
		Seed:         cfg.Seed,
		Invulnerable: cfg.Invulnerable,
		NoBotFire:    cfg.NoBotFire,
	})
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}
	host.Attach(world)
	session := sim.NewSession(world)

	server := &http.Server{Addr: cfg.Listen, Handler: SetupRoutes(hub, db)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return hub.Run(ctx)
	})
	eg.Go(func() error {
		err := session.Run(ctx, host)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		log.Info().Str("addr", cfg.Listen).Dur("tick", cfg.TickInterval()).Msg("arena listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(sctx)
	})

	if cfg.PublicURL != "" {
		printJoinCode(cfg.PublicURL, log)
	}
	return eg.Wait()
}

// printJoinCode shows the spectator URL as a terminal QR code
func printJoinCode(url string, log zerolog.Logger) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("could not render join code")
		return
	}
	fmt.Fprintf(os.Stdout, "%s\nJoin: %s\n", q.ToSmallString(false), url)
}
