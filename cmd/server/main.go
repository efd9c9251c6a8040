// Package main runs the tracker server: event ingest (HTTP and WebSocket),
// session lifecycle, stats endpoints, loadout management, and the background
// persistence flusher, with an optional markup feed sync.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"hunt-stats-lab/internal/config"
	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/equipment"
	"hunt-stats-lab/internal/marketsync"
	"hunt-stats-lab/internal/observability"
	"hunt-stats-lab/internal/storage"
	chstore "hunt-stats-lab/internal/storage/clickhouse"
	"hunt-stats-lab/internal/storage/file"
	"hunt-stats-lab/internal/storage/memory"
	"hunt-stats-lab/internal/storage/migrations"
	pgstore "hunt-stats-lab/internal/storage/postgres"
	"hunt-stats-lab/internal/tracker"
)

// Server holds the engine and everything the HTTP handlers need. The engine
// itself is not concurrency-safe; mu serializes all access to it.
type Server struct {
	mu       sync.Mutex
	engine   *tracker.Engine
	loadouts storage.LoadoutStore
	resolver equipment.Resolver
	upgrader websocket.Upgrader
	logger   *log.Logger

	startedAt time.Time
}

// allStores holds the selected storage backends.
type allStores struct {
	sessionStore  storage.SessionStore
	loadoutStore  storage.LoadoutStore
	markupStore   storage.MarkupStore
	snapshotStore storage.StatsSnapshotStore
}

func main() {
	loadEnvFile()

	configPath := flag.String("config", os.Getenv("HUNT_CONFIG"), "Path to TOML config file")
	listenAddr := flag.String("listen-addr", "", "HTTP listen address (overrides config)")
	backend := flag.String("backend", "", "Storage backend: memory, file, postgres (overrides config)")
	dataDir := flag.String("data-dir", "", "Data directory for the file backend (overrides config)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for stats snapshots")
	feedURL := flag.String("feed-url", os.Getenv("MARKUP_FEED_URL"), "WebSocket markup feed URL")
	itemAPIURL := flag.String("item-api-url", os.Getenv("ITEM_API_URL"), "Equipment lookup API URL")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	applyOverride(&cfg.Server.ListenAddr, *listenAddr)
	applyOverride(&cfg.Storage.Backend, *backend)
	applyOverride(&cfg.Storage.DataDir, *dataDir)
	applyOverride(&cfg.Storage.PostgresDSN, *postgresDSN)
	applyOverride(&cfg.Storage.ClickhouseDSN, *clickhouseDSN)
	applyOverride(&cfg.Market.FeedURL, *feedURL)
	applyOverride(&cfg.Market.ItemAPIURL, *itemAPIURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	registry := tracker.NewLoadoutRegistry()
	if err := loadRegistry(ctx, stores.loadoutStore, registry, logger); err != nil {
		logger.Fatalf("Failed to load loadouts: %v", err)
	}

	engine, err := tracker.NewEngine(tracker.Options{
		SessionStore:    stores.sessionStore,
		SnapshotStore:   stores.snapshotStore,
		MarkupStore:     stores.markupStore,
		Registry:        registry,
		MarkupConfig:    cfg.DomainMarkupConfig(),
		DebounceMs:      cfg.Server.DebounceMs,
		StatsIntervalMs: cfg.Server.StatsIntervalMs,
		Logger:          log.New(os.Stdout, "[tracker] ", log.LstdFlags|log.Lshortfile),
	})
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	// Pick up a session left active by a previous run.
	if sess, err := engine.Rehydrate(ctx); err != nil {
		logger.Fatalf("Failed to rehydrate active session: %v", err)
	} else if sess != nil {
		logger.Printf("Reattached active session %s %q", sess.ID, sess.Name)
	}

	server := &Server{
		engine:    engine,
		loadouts:  stores.loadoutStore,
		resolver:  createResolver(cfg, logger),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:    logger,
		startedAt: time.Now(),
	}

	// Background flusher: drives the debounced persistence.
	go server.runFlusher(ctx, time.Duration(cfg.Server.FlushTickMs)*time.Millisecond)

	// Markup feed sync.
	if cfg.Market.FeedURL != "" {
		client := marketsync.NewClient(cfg.Market.FeedURL, stores.markupStore, nil)
		go func() {
			if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("Markup sync stopped: %v", err)
			}
		}()
		logger.Printf("Markup feed sync enabled: %s", cfg.Market.FeedURL)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.routes(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	logger.Printf("Starting HTTP server on %s (backend: %s)", cfg.Server.ListenAddr, cfg.Storage.Backend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	// Flush any dirty session before exiting.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	server.mu.Lock()
	if err := engine.Flush(flushCtx); err != nil {
		logger.Printf("Final flush error: %v", err)
	}
	server.mu.Unlock()

	logger.Println("Shutdown complete")
}

// applyOverride replaces dst with the flag value when one was given.
func applyOverride(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// createStores builds the storage backends selected by the config.
func createStores(ctx context.Context, cfg config.Config, logger *log.Logger) (*allStores, func(), error) {
	stores := &allStores{}
	cleanup := func() {}

	switch cfg.Storage.Backend {
	case "memory":
		stores.sessionStore = memory.NewSessionStore()
		stores.loadoutStore = memory.NewLoadoutStore()
		stores.markupStore = memory.NewMarkupStore()
		stores.snapshotStore = memory.NewStatsSnapshotStore()

	case "file":
		sessionStore, err := file.NewSessionStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		loadoutStore, err := file.NewLoadoutStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open loadout store: %w", err)
		}
		markupStore, err := file.NewMarkupStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open markup store: %w", err)
		}
		stores.sessionStore = sessionStore
		stores.loadoutStore = loadoutStore
		stores.markupStore = markupStore

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, errors.New("postgres backend requires a DSN")
		}
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		stores.sessionStore = pgstore.NewSessionStore(pool)
		stores.loadoutStore = pgstore.NewLoadoutStore(pool)
		stores.markupStore = pgstore.NewMarkupStore(pool)
		cleanup = func() { pool.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// ClickHouse snapshot history is optional on every backend.
	if cfg.Storage.ClickhouseDSN != "" && stores.snapshotStore == nil {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.snapshotStore = chstore.NewStatsSnapshotStore(conn)
		prev := cleanup
		cleanup = func() {
			conn.Close()
			prev()
		}
		logger.Println("ClickHouse stats snapshots enabled")
	}

	return stores, cleanup, nil
}

// createResolver builds the equipment resolver: offline catalog when
// configured, the lookup API otherwise, nil when neither is set.
func createResolver(cfg config.Config, logger *log.Logger) equipment.Resolver {
	if cfg.Market.CatalogPath != "" {
		r, err := equipment.NewStaticResolver(cfg.Market.CatalogPath)
		if err != nil {
			logger.Printf("Failed to load equipment catalog %s: %v", cfg.Market.CatalogPath, err)
			return nil
		}
		logger.Printf("Equipment catalog loaded from %s", cfg.Market.CatalogPath)
		return r
	}
	if cfg.Market.ItemAPIURL != "" {
		return equipment.NewHTTPResolver(cfg.Market.ItemAPIURL)
	}
	return nil
}

// loadRegistry seeds the in-memory registry from the loadout store.
func loadRegistry(ctx context.Context, store storage.LoadoutStore, registry *tracker.LoadoutRegistry, logger *log.Logger) error {
	loadouts, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range loadouts {
		if registry.Register(l) {
			// Persist the folded enhancer counters so the migration runs once.
			if err := store.Save(ctx, l); err != nil {
				return fmt.Errorf("save migrated loadout %s: %w", l.ID, err)
			}
			logger.Printf("Migrated legacy enhancers on loadout %s", l.ID)
		}
	}
	logger.Printf("Loaded %d loadouts", len(loadouts))
	return nil
}

// runFlusher ticks the debounced persistence.
func (s *Server) runFlusher(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.engine.FlushIfDue(ctx)
			s.mu.Unlock()
			if err != nil {
				s.logger.Printf("Flush error (will retry): %v", err)
			}
		}
	}
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/ws/events", s.handleEventsWS)

	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/session/start", s.handleSessionStart)
	mux.HandleFunc("/session/stop", s.handleSessionStop)
	mux.HandleFunc("/session/pause", s.handleSessionPause)
	mux.HandleFunc("/session/unpause", s.handleSessionUnpause)
	mux.HandleFunc("/session/resume", s.handleSessionResume)
	mux.HandleFunc("/session/expenses", s.handleSessionExpenses)

	mux.HandleFunc("/quickstats", s.handleQuickStats)
	mux.HandleFunc("/stats", s.handleFullStats)

	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionByID)

	mux.HandleFunc("/loadouts", s.handleLoadouts)
	mux.HandleFunc("/loadouts/activate", s.handleLoadoutActivate)
	mux.HandleFunc("/loadouts/", s.handleLoadoutByID)

	mux.HandleFunc("/items", s.handleItemLookup)

	return mux
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	SessionID      string `json:"session_id,omitempty"`
	SessionActive  bool   `json:"session_active"`
	SessionPaused  bool   `json:"session_paused"`
	EventCount     int    `json:"event_count"`
	PendingPersist bool   `json:"pending_persist"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sess := s.engine.Session()
	resp := StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.startedAt).String(),
		SessionActive:  sess.Active(),
		SessionPaused:  sess.Paused(),
		EventCount:     sess.EventCount(),
		PendingPersist: s.engine.Pending(),
	}
	if sess != nil {
		resp.SessionID = sess.ID
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleEvents ingests a single event or a batch.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	events, err := decodeEvents(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	accepted := 0
	s.mu.Lock()
	for _, ev := range events {
		if s.engine.AddEvent(ev) {
			accepted++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{
		"received": len(events),
		"accepted": accepted,
	})
}

// handleEventsWS ingests a stream of JSON events over a WebSocket.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var ev domain.LogEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("WebSocket read error: %v", err)
			}
			return
		}
		s.mu.Lock()
		s.engine.AddEvent(&ev)
		s.mu.Unlock()
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	sess := s.engine.Session()
	s.mu.Unlock()
	if sess == nil {
		writeError(w, http.StatusNotFound, tracker.ErrNoSession)
		return
	}
	writeJSON(w, http.StatusOK, sess.Meta())
}

type startSessionRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	sess, err := s.engine.StartSession(r.Context(), req.Name, req.Tags)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Meta())
}

func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	sess, err := s.engine.StopSession(r.Context())
	s.mu.Unlock()
	if errors.Is(err, tracker.ErrNoSession) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Meta())
}

func (s *Server) handleSessionPause(w http.ResponseWriter, r *http.Request) {
	s.handleClockToggle(w, r, s.engine.Pause, "pause")
}

func (s *Server) handleSessionUnpause(w http.ResponseWriter, r *http.Request) {
	s.handleClockToggle(w, r, s.engine.Unpause, "unpause")
}

func (s *Server) handleClockToggle(w http.ResponseWriter, r *http.Request, toggle func() bool, name string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	ok := toggle()
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusConflict, fmt.Errorf("nothing to %s", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type resumeSessionRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSessionResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req resumeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	sess, err := s.engine.ResumeSession(r.Context(), req.ID)
	s.mu.Unlock()
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Meta())
}

func (s *Server) handleSessionExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var exp domain.ManualExpenses
	if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err := s.engine.SetExpenses(exp)
	s.mu.Unlock()
	if errors.Is(err, tracker.ErrNoSession) {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleQuickStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	q := s.engine.QuickStats()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleFullStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	st, err := s.engine.FullStats(r.Context())
	s.mu.Unlock()
	if errors.Is(err, tracker.ErrNoSession) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.mu.Lock()
	metas, err := s.engine.ListSessions(r.Context())
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("session ID required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		sess, err := s.engine.LoadSession(r.Context(), id)
		s.mu.Unlock()
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)

	case http.MethodDelete:
		s.mu.Lock()
		deleted, err := s.engine.DeleteSession(r.Context(), id)
		s.mu.Unlock()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, storage.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		methodNotAllowed(w)
	}
}

// loadoutRequest registers a loadout. Equipment can be given inline or, when
// a resolver is configured, referenced by item name.
type loadoutRequest struct {
	domain.Loadout

	WeaponName string `json:"weapon_name,omitempty"`
	AmpName    string `json:"amp_name,omitempty"`
	ScopeName  string `json:"scope_name,omitempty"`
	SightName  string `json:"sight_name,omitempty"`
}

func (s *Server) handleLoadouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		loadouts, err := s.loadouts.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, loadouts)

	case http.MethodPost:
		var req loadoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		l := req.Loadout
		if l.ID == "" {
			fresh := domain.NewLoadout(l.Name, time.Now().UnixMilli())
			fresh.Weapon, fresh.Amp, fresh.Scope, fresh.Sight = l.Weapon, l.Amp, l.Scope, l.Sight
			fresh.Enhancers = l.Enhancers
			fresh.LegacyEnhancers = l.LegacyEnhancers
			if l.HitProfession > 0 {
				fresh.HitProfession = l.HitProfession
			}
			if l.DamageProfession > 0 {
				fresh.DamageProfession = l.DamageProfession
			}
			fresh.UseManualCost = l.UseManualCost
			fresh.ManualCostPerShot = l.ManualCostPerShot
			l = *fresh
		}
		if err := s.resolveEquipment(r.Context(), &l, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if violations := l.Validate(); len(violations) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid loadout: %s", strings.Join(violations, "; ")))
			return
		}

		s.mu.Lock()
		s.engine.Registry().Register(&l)
		s.mu.Unlock()
		if err := s.loadouts.Save(r.Context(), &l); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusCreated, &l)

	default:
		methodNotAllowed(w)
	}
}

// resolveEquipment fills equipment slots referenced by name.
func (s *Server) resolveEquipment(ctx context.Context, l *domain.Loadout, req *loadoutRequest) error {
	names := []struct {
		name string
		slot **domain.Equipment
	}{
		{req.WeaponName, &l.Weapon},
		{req.AmpName, &l.Amp},
		{req.ScopeName, &l.Scope},
		{req.SightName, &l.Sight},
	}
	for _, n := range names {
		if n.name == "" || *n.slot != nil {
			continue
		}
		if s.resolver == nil {
			return fmt.Errorf("no equipment resolver configured to look up %q", n.name)
		}
		eq, err := s.resolver.Resolve(ctx, n.name)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", n.name, err)
		}
		*n.slot = eq
	}
	return nil
}

type activateLoadoutRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleLoadoutActivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req activateLoadoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == "" {
		s.engine.Registry().ClearActive()
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if !s.engine.Registry().SetActive(req.ID) {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown loadout %q", req.ID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLoadoutByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/loadouts/")
	if id == "" || id == "activate" {
		writeError(w, http.StatusBadRequest, errors.New("loadout ID required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		l, err := s.loadouts.Load(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, l)

	case http.MethodDelete:
		deleted, err := s.loadouts.Delete(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.mu.Lock()
		s.engine.Registry().Remove(id)
		s.mu.Unlock()
		if !deleted {
			writeError(w, http.StatusNotFound, storage.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleItemLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name query parameter required"))
		return
	}
	if s.resolver == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no equipment resolver configured"))
		return
	}

	eq, err := s.resolver.Resolve(r.Context(), name)
	if errors.Is(err, equipment.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// decodeEvents accepts a single event object or a JSON array of events.
func decodeEvents(r *http.Request) ([]*domain.LogEvent, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty request body")
	}

	if trimmed[0] == '[' {
		var events []*domain.LogEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
		return events, nil
	}

	var ev domain.LogEvent
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return []*domain.LogEvent{&ev}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// loadEnvFile loads environment variables from .env if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
