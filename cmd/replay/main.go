// Package main verifies stored sessions by re-folding their event logs and
// comparing the result against the persisted running totals. With --repair,
// diverged or missing totals are rebuilt and saved back.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"

	"hunt-stats-lab/internal/config"
	"hunt-stats-lab/internal/session"
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
	sessionID := flag.String("session", "", "Verify a single session instead of all")
	repair := flag.Bool("repair", false, "Rebuild and save diverged or missing totals")
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

	sessions, cleanup, err := openSessionStore(ctx, cfg)
	if err != nil {
		fatal("open session store: %v", err)
	}
	defer cleanup()

	ids, err := targetIDs(ctx, sessions, *sessionID)
	if err != nil {
		fatal("%v", err)
	}

	var verified, diverged, rebuilt, failed int
	for _, id := range ids {
		result, err := verifySession(ctx, sessions, id, *repair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", id, err)
			failed++
			continue
		}
		verified++
		switch result {
		case resultOK:
			fmt.Printf("  %s: ok\n", id)
		case resultDiverged:
			diverged++
			fmt.Printf("  %s: DIVERGED (stored totals do not match the event log)\n", id)
		case resultRepaired:
			diverged++
			rebuilt++
			fmt.Printf("  %s: rebuilt and saved\n", id)
		}
	}

	fmt.Printf("\n%d verified, %d diverged, %d rebuilt, %d failed\n", verified, diverged, rebuilt, failed)
	if failed > 0 || (diverged > 0 && !*repair) {
		os.Exit(1)
	}
}

type verifyResult int

const (
	resultOK verifyResult = iota
	resultDiverged
	resultRepaired
)

// verifySession re-folds one session's log and compares against its stored
// totals. Missing totals always count as divergence.
func verifySession(ctx context.Context, sessions storage.SessionStore, id string, repair bool) (verifyResult, error) {
	s, err := sessions.Load(ctx, id)
	if err != nil {
		return resultOK, fmt.Errorf("load: %w", err)
	}

	refolded := session.FoldLog(s.Log)
	if s.Stats != nil && reflect.DeepEqual(s.Stats, refolded) {
		return resultOK, nil
	}

	if !repair {
		return resultDiverged, nil
	}
	s.Stats = refolded
	if err := sessions.Save(ctx, s); err != nil {
		return resultDiverged, fmt.Errorf("save rebuilt session: %w", err)
	}
	return resultRepaired, nil
}

// targetIDs resolves which sessions to verify.
func targetIDs(ctx context.Context, sessions storage.SessionStore, only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}
	metas, err := sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(metas) == 0 {
		return nil, errors.New("no stored sessions")
	}
	ids := make([]string, 0, len(metas))
	for _, m := range metas {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// openSessionStore opens the session store for the selected backend.
func openSessionStore(ctx context.Context, cfg config.Config) (storage.SessionStore, func(), error) {
	switch cfg.Storage.Backend {
	case "file":
		store, err := file.NewSessionStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, errors.New("postgres backend requires a DSN")
		}
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.NewSessionStore(pool), func() { pool.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q for replay", cfg.Storage.Backend)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
