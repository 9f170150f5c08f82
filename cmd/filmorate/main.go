// Package main - точка входа сервиса filmorate.
//
// Команды:
//   - serve:           HTTP API поверх графа в памяти (по умолчанию)
//   - migrate up:      применить миграции PostgreSQL
//   - migrate down:    откатить последнюю миграцию
//   - migrate status:  показать состояние миграций
//
// Вся конфигурация читается из переменных окружения (см. config).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/VeraBsp/filmorate/config"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLI
// ══════════════════════════════════════════════════════════════════════════════

// CLI describes the command tree.
type CLI struct {
	Serve   ServeCmd         `cmd:"" default:"1" help:"Run the HTTP API."`
	Migrate MigrateCmd       `cmd:"" help:"Manage the PostgreSQL schema."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Корневой контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. РАЗБОР КОМАНДЫ
	// ─────────────────────────────────────────────────────────────────────────
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("filmorate"),
		kong.Description("Social graph and ranking service for films."),
		kong.UsageOnError(),
		kong.Vars{"version": cfg.App.Version},
		kong.Bind(cfg, log),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return fmt.Errorf("failed to build cli: %w", err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = cfg.Observability.LogFormat
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	return logger.New(opts).With(
		logger.String("service", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("env", string(cfg.App.Environment)),
	)
}
