package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	level, _ := config.SlogLevel()
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(slogger)

	if err := run(config, slogger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(config cmd.Config, slogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := postgres.Open(config.DSN(), logger.Default.LogMode(logger.Warn))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	app, err := cmd.NewCompositionRoot(config, gormDB, slogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slogger.Warn("closing adapters", "error", err)
		}
	}()

	server, err := app.Server()
	if err != nil {
		return err
	}
	jobManager, err := app.JobManager()
	if err != nil {
		return err
	}

	e := httpin.NewEcho(slogger)
	server.Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slogger.Info("http server listening", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if relay := app.Relay(); relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := jobManager.StartAll(); err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	defer jobManager.StopAll()

	return g.Wait()
}
