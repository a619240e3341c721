package weekplan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/config"
	"github.com/colonyops/weekplan/internal/core/doctor"
	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/data/db"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Remote.Driver = driver
	return &cfg
}

func openTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	return app
}

func TestApp_LocalCacheSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, config.DriverNone)

	app := openTestApp(t, cfg)
	assert.Equal(t, persist.SourceNone, app.Source)

	it, err := app.Planner.AddItem(planner.ItemInput{Name: "Laundry"})
	require.NoError(t, err)
	require.NoError(t, app.Close())
	assert.FileExists(t, filepath.Join(cfg.DataDir, "plannerData.json"))

	app = openTestApp(t, cfg)
	defer func() { _ = app.Close() }()

	assert.Equal(t, persist.SourceLocal, app.Source)
	got, err := app.Planner.Item(it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laundry", got.Name)
}

func TestApp_RemoteWinsWhenSignedIn(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverSQLite)

	app := openTestApp(t, cfg)
	_, source, err := app.SignIn(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, persist.SourceNone, source)

	remoteItem, err := app.Planner.AddItem(planner.ItemInput{Name: "synced"})
	require.NoError(t, err)
	require.NoError(t, app.Close())

	// Replace the local cache behind the app's back; the remote copy must win.
	require.NoError(t, os.Remove(filepath.Join(cfg.DataDir, "plannerData.json")))

	app = openTestApp(t, cfg)
	assert.Equal(t, persist.SourceRemote, app.Source)
	_, err = app.Planner.Item(remoteItem.ID)
	require.NoError(t, err)

	// Signed out, the next start reads the local cache, which the remote
	// load did not rewrite.
	require.NoError(t, app.SignOut(ctx))
	require.NoError(t, app.Close())

	app = openTestApp(t, cfg)
	defer func() { _ = app.Close() }()
	assert.Equal(t, persist.SourceNone, app.Source)
}

func TestApp_SignInLoadsRemoteDocument(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverSQLite)

	app := openTestApp(t, cfg)
	_, _, err := app.SignIn(ctx, "ada")
	require.NoError(t, err)
	_, err = app.Planner.AddItem(planner.ItemInput{Name: "ada's item"})
	require.NoError(t, err)
	app.Sync.Wait()
	require.NoError(t, app.SignOut(ctx))

	app.Planner.ClearAll()
	assert.Empty(t, app.Planner.State().Items)

	_, source, err := app.SignIn(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, persist.SourceRemote, source)
	require.Len(t, app.Planner.State().Items, 1)
	require.NoError(t, app.Close())
}

func TestApp_RecoversCorruptDatabase(t *testing.T) {
	cfg := testConfig(t, config.DriverSQLite)
	path := filepath.Join(cfg.DataDir, db.FileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("garbage!", 128)), 0o644))

	app := openTestApp(t, cfg)
	defer func() { _ = app.Close() }()

	matches, err := filepath.Glob(path + ".corrupt.*")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)

	_, err = app.Planner.AddItem(planner.ItemInput{Name: "fresh start"})
	require.NoError(t, err)
}

func TestApp_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	app := openTestApp(t, testConfig(t, config.DriverMemory))
	defer func() { _ = app.Close() }()

	_, _, err := app.SignIn(ctx, "ada")
	require.NoError(t, err)
	_, err = app.Planner.AddItem(planner.ItemInput{Name: "x"})
	require.NoError(t, err)
	app.Sync.Wait()

	assert.True(t, app.RemoteEnabled())
}

func TestApp_RunChecks(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverSQLite)
	app := openTestApp(t, cfg)
	defer func() { _ = app.Close() }()

	results := app.RunChecks(ctx, "", false)
	require.Len(t, results, 3)
	_, warned, failed := doctor.Summary(results)
	assert.Zero(t, failed)
	assert.Equal(t, 1, warned, "signed out is a warning")

	_, _, err := app.SignIn(ctx, "ada")
	require.NoError(t, err)
	_, err = app.Planner.AddItem(planner.ItemInput{Name: "synced"})
	require.NoError(t, err)
	app.Sync.Wait()

	results = app.RunChecks(ctx, "", false)
	passed, warned, failed := doctor.Summary(results)
	assert.Zero(t, failed)
	assert.Zero(t, warned)
	assert.Positive(t, passed)
}
