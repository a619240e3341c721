package weekplan

import (
	"context"

	"github.com/colonyops/weekplan/internal/core/doctor"
)

// RunChecks executes all doctor checks against the app's collaborators.
func (a *App) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	// The storage check may remove the cache file; keep the manager from
	// rewriting it while the checks run.
	a.Sync.Wait()

	checks := []doctor.Check{
		doctor.NewConfigCheck(a.Config, configPath),
		doctor.NewStorageCheck(a.Config.DataDir, a.Cache, a.DB, autofix),
		doctor.NewSyncCheck(a.Config.Remote.Driver, a.Remote, a.Sessions, a.Config.Remote.Timeout),
	}
	return doctor.RunAll(ctx, checks)
}
