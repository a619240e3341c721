// Package persist keeps the planner state in step with a local cache and a
// remote per-user store.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/weekplan/internal/core/planner"
)

// Cache is the local single-slot store of the last saved document.
type Cache interface {
	// Load returns the cached document. found is false when nothing has
	// been saved yet.
	Load(ctx context.Context) (doc planner.Document, found bool, err error)
	Save(ctx context.Context, doc planner.Document) error
}

// Remote is the authoritative per-user document store.
type Remote interface {
	// Fetch returns the user's document. found is false when the user has
	// no document.
	Fetch(ctx context.Context, userID string) (doc planner.Document, found bool, err error)
	// Merge overwrites the fields present in doc and leaves absent
	// (nil) fields untouched.
	Merge(ctx context.Context, userID string, doc planner.Document) error
}

// Identity reports the signed-in user, if any.
type Identity interface {
	Current(ctx context.Context) (userID string, ok bool)
}

// Source names the tier a reconcile loaded from.
type Source string

const (
	SourceNone   Source = "none"
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

const defaultRemoteTimeout = 10 * time.Second

// Options configures a Manager.
type Options struct {
	// Version is stamped on every saved document.
	Version string
	// RemoteTimeout bounds each background merge. Zero means 10s.
	RemoteTimeout time.Duration
	Logger        zerolog.Logger
}

// Manager observes a planner.Store and writes every change to the local
// cache and, while a user is signed in, to the remote store. It also runs
// the startup reconcile that seeds the store from those tiers.
//
// Store callbacks run on the dispatching goroutine; only remote merges run
// in the background.
type Manager struct {
	store    *planner.Store
	cache    Cache
	remote   Remote
	identity Identity
	version  string
	timeout  time.Duration
	log      zerolog.Logger

	justLoaded  bool
	unsubscribe func()
	wg          sync.WaitGroup
}

// New creates a Manager. remote and identity may be nil, in which case
// only the local cache is used.
func New(store *planner.Store, cache Cache, remote Remote, identity Identity, opts Options) *Manager {
	version := opts.Version
	if version == "" {
		version = planner.DocumentVersion
	}
	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	return &Manager{
		store:    store,
		cache:    cache,
		remote:   remote,
		identity: identity,
		version:  version,
		timeout:  timeout,
		log:      opts.Logger.With().Str("component", "persist").Logger(),
	}
}

// Attach subscribes the manager to store changes. Calling it twice has no
// further effect.
func (m *Manager) Attach() {
	if m.unsubscribe != nil {
		return
	}
	m.unsubscribe = m.store.Subscribe(m.onChange)
}

// Close detaches from the store and waits for in-flight remote merges.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.Wait()
}

// Wait blocks until every background remote merge has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Reconcile seeds the store from the best available tier: the remote
// document when a user is signed in and it has content, else the local
// cache. Failures are logged and the next tier is tried; when nothing
// loads the store is left as it was.
func (m *Manager) Reconcile(ctx context.Context) Source {
	if userID, ok := m.signedIn(ctx); ok {
		if m.loadRemote(ctx, userID) {
			return SourceRemote
		}
	}

	if m.loadLocal(ctx) {
		return SourceLocal
	}

	return SourceNone
}

// ReloadLocal reloads the store from the local cache only. Watchers use it
// when another process has rewritten the cache, whose remote write may not
// have landed yet.
func (m *Manager) ReloadLocal(ctx context.Context) bool {
	return m.loadLocal(ctx)
}

func (m *Manager) signedIn(ctx context.Context) (string, bool) {
	if m.remote == nil || m.identity == nil {
		return "", false
	}
	return m.identity.Current(ctx)
}

func (m *Manager) loadRemote(ctx context.Context, userID string) bool {
	doc, found, err := m.remote.Fetch(ctx, userID)
	if err != nil {
		m.log.Warn().Err(&SyncError{Op: "fetch", UserID: userID, Err: err}).Msg("remote load failed, falling back to local cache")
		return false
	}
	if !found || !doc.Populated() {
		m.log.Debug().Str("user_id", userID).Msg("remote document empty")
		return false
	}

	data, err := planner.FromDocument(doc)
	if err != nil {
		m.log.Warn().Err(&SyncError{Op: "fetch", UserID: userID, Err: err}).Msg("remote document invalid, falling back to local cache")
		return false
	}

	m.load(data)
	m.log.Info().Str("user_id", userID).Msg("loaded planner data from remote")
	return true
}

func (m *Manager) loadLocal(ctx context.Context) bool {
	doc, found, err := m.cache.Load(ctx)
	if err != nil {
		m.log.Warn().Err(&PersistenceError{Op: "load", Err: err}).Msg("local cache load failed")
		return false
	}
	if !found {
		return false
	}

	data, err := planner.FromDocument(doc)
	if err != nil {
		m.log.Warn().Err(&PersistenceError{Op: "load", Err: err}).Msg("local cache invalid")
		return false
	}

	m.load(data)
	m.log.Debug().Msg("loaded planner data from local cache")
	return true
}

// load dispatches data with the save that follows it suppressed. Dispatch
// is synchronous, so the flag is consumed inside this call.
func (m *Manager) load(data planner.LoadData) {
	m.justLoaded = true
	m.store.Dispatch(data)
	m.justLoaded = false
}

func (m *Manager) onChange(_, next *planner.State, _ planner.Action) {
	if m.justLoaded {
		m.justLoaded = false
		return
	}
	m.Save(context.Background(), next)
}

// Save writes s to the local cache and, when signed in, starts a remote
// merge in the background. Errors are logged, never returned.
func (m *Manager) Save(ctx context.Context, s *planner.State) {
	doc := planner.ToDocument(s, m.version)

	if err := m.cache.Save(ctx, doc); err != nil {
		m.log.Error().Err(&PersistenceError{Op: "save", Err: err}).Msg("local cache save failed")
	}

	userID, ok := m.signedIn(ctx)
	if !ok {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// Detached so a finished command does not cancel the write.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		if err := m.remote.Merge(rctx, userID, doc); err != nil {
			m.log.Warn().Err(&SyncError{Op: "merge", UserID: userID, Err: err}).Msg("remote save failed")
			return
		}
		m.log.Debug().Str("user_id", userID).Msg("remote save complete")
	}()
}
