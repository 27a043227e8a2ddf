package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	coreconfig "github.com/izimoto/paintbot/core/config"
	"github.com/izimoto/paintbot/core/database"
	"github.com/izimoto/paintbot/core/logger"
	tg "github.com/izimoto/paintbot/core/telegram"
	"github.com/izimoto/paintbot/core/telegram/router"
	"github.com/izimoto/paintbot/internal/bot"
	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/flow"
	"github.com/izimoto/paintbot/internal/invoice"
	"github.com/izimoto/paintbot/internal/order"
	"github.com/izimoto/paintbot/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("paintbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	sessions, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error(logger.Background(), "app", "session.store.close_failed",
				slog.String("err", err.Error()),
			)
		}
	}()

	catalogStore := catalog.NewFileStore(cfg.Catalog.Path)
	flows := flow.New(catalogStore, cfg.Admin.Password)
	orders := order.New(catalogStore)
	invoices := invoice.New(cfg.Invoice.Dir, cfg.Invoice.Font)

	app := bot.New(sessions, catalogStore, flows, orders, invoices)
	reg := tg.NewRegistry()
	app.Register(reg)

	opts := tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg, nil),
		Routes: append(
			router.CommandRoutes(reg),
			router.CallbackRoute(reg, router.CallbackOptions{}),
			router.TextRoute(app, reg, router.TextOptions{}),
		),
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			logger.Info(ctx, "app", "ready",
				slog.String("catalog", cfg.Catalog.Path),
				slog.String("backend", cfg.Session.Backend),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return tg.Run(ctx, opts)
}

// openSessionStore builds the configured session backend: embedded badger by
// default, Postgres (with migrations applied) for multi-process setups.
func openSessionStore(cfg *coreconfig.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case coreconfig.SessionBackendPostgres:
		dbCfg := database.Config{
			Host:           cfg.Session.Host,
			Port:           cfg.Session.Port,
			User:           cfg.Session.User,
			Password:       cfg.Session.Password,
			Name:           cfg.Session.Name,
			SSLMode:        cfg.Session.SSLMode,
			MaxConnections: cfg.Session.MaxConnections,
		}
		if err := database.RunMigrations(dbCfg); err != nil {
			return nil, fmt.Errorf("migrate sessions db: %w", err)
		}
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		return session.NewPostgresStore(db), nil
	default:
		store, err := session.OpenBadger(cfg.Session.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
