package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/enumguard"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Warn(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Init(cfg.LogMode, out)
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		applog.Fatal("db.open", err, map[string]any{"driver": cfg.DBDriver})
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Patch the status enum of an existing database before migrations touch it.
	if d, err := enumguard.DialectFor(db); err != nil {
		applog.Warn(nil, "enum_guard.unavailable", err, nil)
	} else {
		enumguard.New(d).Run(ctx, domain.OrderStatusType, domain.OrderStatusValues())
	}

	if err := repos.Migrate(db); err != nil {
		applog.Fatal("db.migrate", err, nil)
	}
	if cfg.SeedUnits {
		if err := repos.SeedUnitValues(ctx, db, "system"); err != nil {
			applog.Fatal("db.seed.units", err, nil)
		}
	}

	app := handlers.NewApp(handlers.NewDeps(repos.NewStore(db)), handlers.DefaultLimits())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "driver": cfg.DBDriver})
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		applog.Error(nil, "server.stop", err, nil)
		return
	}
	applog.Info(nil, "server.stop", nil)
}
