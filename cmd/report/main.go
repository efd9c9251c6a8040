// Package main generates a session report from stored data: a markdown
// summary plus per-loadout and per-item CSVs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hunt-stats-lab/internal/config"
	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/idhash"
	"hunt-stats-lab/internal/reporting"
	"hunt-stats-lab/internal/stats"
	"hunt-stats-lab/internal/storage"
	"hunt-stats-lab/internal/storage/file"
	"hunt-stats-lab/internal/storage/migrations"
	pgstore "hunt-stats-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", os.Getenv("HUNT_CONFIG"), "Path to TOML config file")
	backend := flag.String("backend", "", "Storage backend: file or postgres (overrides config)")
	dataDir := flag.String("data-dir", "", "Data directory for the file backend (overrides config)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	sessionID := flag.String("session", "", "Session ID to report on (default: most recent)")
	outputDir := flag.String("output-dir", "", "Write report files here instead of stdout")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
	}

	sessions, loadouts, markups, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		fatal("open stores: %v", err)
	}
	defer cleanup()

	id := *sessionID
	if id == "" {
		id, err = latestSessionID(ctx, sessions)
		if err != nil {
			fatal("%v", err)
		}
	}

	session, err := sessions.Load(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		fatal("session %s not found", id)
	}
	if err != nil {
		fatal("load session: %v", err)
	}

	index, err := loadoutIndex(ctx, loadouts)
	if err != nil {
		fatal("load loadouts: %v", err)
	}

	lib, err := markups.LoadLibrary(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		lib = nil
	} else if err != nil {
		fatal("load markup library: %v", err)
	}

	st := stats.Full(session, index, lib, cfg.DomainMarkupConfig(), time.Now().UnixMilli())

	if *outputDir == "" {
		fmt.Print(reporting.RenderMarkdown(st))
		return
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("create output directory: %v", err)
	}
	short := idhash.ShortID(st.SessionID)
	files := map[string]string{
		fmt.Sprintf("session_%s.md", short): reporting.RenderMarkdown(st),
	}
	if len(st.Loadouts) > 0 {
		files[fmt.Sprintf("loadouts_%s.csv", short)] = reporting.RenderLoadoutCSV(st.Loadouts)
	}
	if st.Markup != nil && len(st.Markup.Items) > 0 {
		files[fmt.Sprintf("items_%s.csv", short)] = reporting.RenderItemsCSV(st.Markup.Items)
	}

	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fatal("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
}

// openStores opens the read paths for the selected backend.
func openStores(ctx context.Context, cfg config.Config) (storage.SessionStore, storage.LoadoutStore, storage.MarkupStore, func(), error) {
	switch cfg.Storage.Backend {
	case "file":
		sessions, err := file.NewSessionStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		loadouts, err := file.NewLoadoutStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		markups, err := file.NewMarkupStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return sessions, loadouts, markups, func() {}, nil

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, nil, nil, errors.New("postgres backend requires a DSN")
		}
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
		return pgstore.NewSessionStore(pool), pgstore.NewLoadoutStore(pool), pgstore.NewMarkupStore(pool),
			func() { pool.Close() }, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported storage backend %q for reporting", cfg.Storage.Backend)
	}
}

// latestSessionID returns the most recently started session.
func latestSessionID(ctx context.Context, sessions storage.SessionStore) (string, error) {
	metas, err := sessions.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	if len(metas) == 0 {
		return "", errors.New("no stored sessions")
	}
	return metas[0].ID, nil
}

// loadoutIndex maps loadout IDs to their definitions for report naming.
func loadoutIndex(ctx context.Context, store storage.LoadoutStore) (map[string]*domain.Loadout, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*domain.Loadout, len(list))
	for _, l := range list {
		index[l.ID] = l
	}
	return index, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
