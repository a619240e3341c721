// Package weekplan wires the planner's collaborators together and exposes
// the operations the CLI performs.
package weekplan

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/colonyops/weekplan/internal/core/auth"
	"github.com/colonyops/weekplan/internal/core/config"
	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/data/db"
	"github.com/colonyops/weekplan/internal/data/stores"
	"github.com/colonyops/weekplan/internal/store/jsonfile"
	"github.com/colonyops/weekplan/internal/store/memory"
	"github.com/colonyops/weekplan/internal/weekplan/sweep"
)

// App is the central entry point for all weekplan operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Planner  *PlannerService
	Sessions *auth.Sessions
	Sync     *persist.Manager
	Store    *planner.Store
	Cache    *jsonfile.Cache
	Remote   persist.Remote // nil when the remote driver is "none"
	KV       *stores.KVStore
	Config   *config.Config
	DB       *db.DB

	// Source is the tier the startup reconcile loaded from.
	Source persist.Source

	log zerolog.Logger
}

// Open builds an App from cfg: it opens the database, picks the remote
// driver, attaches the sync manager and reconciles the store from the
// persisted tiers.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	database, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	kvStore := stores.NewKVStore(database)
	sweep.Once(ctx, kvStore, log)

	var (
		store    = planner.NewStore(nil)
		cache    = jsonfile.NewCache(cfg.DataDir, jsonfile.DefaultSlot)
		sessions = auth.NewSessions(kvStore, cfg.Auth.SessionTTL, log)
		remote   = newRemote(cfg, database, log)
	)

	var identity persist.Identity
	if remote != nil {
		identity = sessions
	}

	mgr := persist.New(store, cache, remote, identity, persist.Options{
		Version:       cfg.Export.Version,
		RemoteTimeout: cfg.Remote.Timeout,
		Logger:        log,
	})
	mgr.Attach()

	app := &App{
		Planner:  NewPlannerService(store, cfg.Export.Version, log),
		Sessions: sessions,
		Sync:     mgr,
		Store:    store,
		Cache:    cache,
		Remote:   remote,
		KV:       kvStore,
		Config:   cfg,
		DB:       database,
		log:      log.With().Str("component", "app").Logger(),
	}

	app.Source = mgr.Reconcile(ctx)
	app.log.Debug().Str("source", string(app.Source)).Msg("planner state reconciled")

	return app, nil
}

// Close waits for background remote writes, then closes the database.
func (a *App) Close() error {
	a.Sync.Close()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// SignIn starts a session for userID and reconciles again so the user's
// remote document, when it has content, replaces the local state.
func (a *App) SignIn(ctx context.Context, userID string) (auth.Session, persist.Source, error) {
	sess, err := a.Sessions.SignIn(ctx, userID)
	if err != nil {
		return auth.Session{}, persist.SourceNone, err
	}

	a.Source = a.Sync.Reconcile(ctx)
	return sess, a.Source, nil
}

// SignOut ends the session. The local state is kept.
func (a *App) SignOut(ctx context.Context) error {
	return a.Sessions.SignOut(ctx)
}

// RemoteEnabled reports whether a remote driver is configured.
func (a *App) RemoteEnabled() bool {
	return a.Config.RemoteEnabled()
}

// openDatabase opens the SQLite database, moving a corrupted file aside
// and starting fresh when needed.
func openDatabase(cfg *config.Config, log zerolog.Logger) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.BusyTimeout(),
		Logger:       log,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w", rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted, started a new one")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

// newRemote returns nil for the "none" driver. The nil must stay an
// untyped interface value so the manager sees no remote.
func newRemote(cfg *config.Config, database *db.DB, log zerolog.Logger) persist.Remote {
	switch cfg.Remote.Driver {
	case config.DriverSQLite:
		return stores.NewDocumentStore(database, log)
	case config.DriverMemory:
		return memory.NewRemoteStore()
	default:
		return nil
	}
}
