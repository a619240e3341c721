package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/weekplan/internal/core/auth"
	"github.com/colonyops/weekplan/internal/core/persist"
)

// SessionSource reports the active sign-in.
type SessionSource interface {
	Session(ctx context.Context) (auth.Session, bool, error)
}

// SyncCheck reports the sign-in state and whether the remote document of
// the signed-in user can be read.
type SyncCheck struct {
	driver   string
	remote   persist.Remote
	sessions SessionSource
	timeout  time.Duration
}

// NewSyncCheck creates a new sync check. remote is nil when no remote
// driver is configured.
func NewSyncCheck(driver string, remote persist.Remote, sessions SessionSource, timeout time.Duration) *SyncCheck {
	return &SyncCheck{driver: driver, remote: remote, sessions: sessions, timeout: timeout}
}

func (c *SyncCheck) Name() string {
	return "Sync"
}

func (c *SyncCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.remote == nil {
		result.add("remote", StatusPass, fmt.Sprintf("driver %q, data stays local", c.driver))
		return result
	}
	result.add("remote", StatusPass, fmt.Sprintf("driver %q", c.driver))

	sess, ok, err := c.sessions.Session(ctx)
	switch {
	case err != nil:
		result.add("session", StatusFail, err.Error())
		return result
	case !ok:
		result.add("session", StatusWarn, "not signed in, changes are only saved locally")
		return result
	}
	result.add("session", StatusPass, fmt.Sprintf("signed in as %s", sess.UserID))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	doc, found, err := c.remote.Fetch(ctx, sess.UserID)
	switch {
	case err != nil:
		result.add("remote document", StatusFail, err.Error())
	case !found || !doc.Populated():
		result.add("remote document", StatusWarn, "empty, the next change will upload the local data")
	default:
		result.add("remote document", StatusPass,
			fmt.Sprintf("%d items, %d repeated items", len(doc.Items), len(doc.RepeatedItems)))
	}
	return result
}
