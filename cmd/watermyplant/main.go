// Command watermyplant is a terminal client for the plant-watering backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericfisherdev/watermyplant/internal/adapter/driven/api"
	sqliteadapter "github.com/ericfisherdev/watermyplant/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/config"
	"github.com/ericfisherdev/watermyplant/internal/logging"
)

// errUsage is returned after usage has been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "watermyplant:", err)
		}
		os.Exit(1)
	}
}

// app carries the wired components every command uses.
type app struct {
	out    io.Writer
	cfg    *config.Config
	clock  application.Clock
	tokens *application.TokenManager
	auth   *application.AuthRepository
	plants *application.PlantRepository
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("watermyplant", flag.ContinueOnError)
	global.SetOutput(stderr)
	showMetrics := global.Bool("metrics", false, "print client request metrics to stderr on exit")
	global.Usage = func() { usage(stderr) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return errUsage
	}
	cmd, ok := lookupCommand(rest[0])
	if !ok {
		usage(stderr)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Configure logging.
	logger, logCloser, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	slog.Debug("config loaded",
		"base_url", cfg.BaseURL,
		"db_path", cfg.DBPath,
		"http_timeout", cfg.HTTPTimeout,
		"encrypted_tokens", cfg.HasEncryptionKey(),
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Open database and run migrations.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Debug("local store opened", "path", db.Path())

	// 5. Load the persisted token before any request is made.
	tokens := application.NewTokenManager(sqliteadapter.NewCredentialRepo(db, cfg.EncryptionKey))
	if err := tokens.Initialize(ctx); err != nil {
		return err
	}

	// 6. Wire the API client.
	registry := prometheus.NewRegistry()
	client, err := api.NewClient(api.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
		Tokens:  tokens,
		Logger:  logger,
		Metrics: api.NewMetrics(registry),
	})
	if err != nil {
		return err
	}

	clock := application.SystemClock{}
	a := &app{
		out:    stdout,
		cfg:    cfg,
		clock:  clock,
		tokens: tokens,
		auth:   application.NewAuthRepository(client, tokens),
		plants: application.NewPlantRepository(client, clock),
	}

	// 7. Run the command.
	cmdErr := cmd.run(ctx, a, rest[1:])

	if *showMetrics {
		if err := writeMetrics(stderr, registry); err != nil {
			slog.Warn("failed to write metrics", "error", err)
		}
	}
	return cmdErr
}
