// Command seed-db applies the schema and upserts the menu catalog.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/kart-chat/db"
	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		menuFiles   string
		maxInput    int
		dryRun      bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFiles, "menu-files", "", "comma-separated menu JSON files, optionally .gz (default: embedded menu)")
	flag.IntVar(&maxInput, "max-input", chat.DefaultMaxInput, "largest menu code the chat accepts")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the menu without writing to the database")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" && !dryRun {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, splitList(menuFiles), maxInput, dryRun); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string, maxInput int, dryRun bool) error {
	items, err := loadMenu(ctx, files)
	if err != nil {
		return errors.Wrap(err, "load menu")
	}
	if err := validateItems(items, maxInput); err != nil {
		return errors.Wrap(err, "validate menu")
	}
	if dryRun {
		slog.Info("dry run: menu is valid", slog.Int("items", len(items)))
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))
	if err := postgres.NewMenuStore(pool).Upsert(ctx, items); err != nil {
		return errors.Wrap(err, "upsert menu")
	}
	for _, it := range items {
		slog.Info("upserted menu item", slog.Int("code", it.Code), slog.String("name", it.Name))
	}

	return nil
}

func loadMenu(ctx context.Context, files []string) ([]menu.Item, error) {
	if len(files) == 0 {
		slog.Info("using embedded menu")
		items, err := decodeMenuBytes(db.MenuSeed)
		if err != nil {
			return nil, errors.Wrap(err, "decode embedded menu")
		}
		return mergeItems(items), nil
	}
	return loadMenuFiles(ctx, files)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
