package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/pkg/iojson"
)

// AuthCmd implements the login, logout and whoami commands.
type AuthCmd struct {
	flags *Flags
	app   *weekplan.App

	jsonOutput bool
}

// NewAuthCmd creates the sign-in commands.
func NewAuthCmd(flags *Flags, app *weekplan.App) *AuthCmd {
	return &AuthCmd{flags: flags, app: app}
}

// Register adds login, logout and whoami to the application.
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "login",
			Usage:     "Sign in so planner data syncs to the remote store",
			UsageText: "weekplan login <user-id>",
			Description: `Starts a session for the user. If the user's remote document has data it
replaces the local state; otherwise the local state is kept and is written
to the remote store on the next change.`,
			Action: cmd.runLogin,
		},
		&cli.Command{
			Name:        "logout",
			Usage:       "End the current session",
			UsageText:   "weekplan logout",
			Description: "The local cache keeps the last state seen while signed in.",
			Action:      cmd.runLogout,
		},
		&cli.Command{
			Name:      "whoami",
			Usage:     "Show the signed-in user",
			UsageText: "weekplan whoami [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runWhoami,
		},
	)

	return app
}

func (cmd *AuthCmd) runLogin(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1, "weekplan login <user-id>"); err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	if !cmd.app.RemoteEnabled() {
		p.Warnf("remote.driver is %q; planner data will stay local", cmd.app.Config.Remote.Driver)
	}

	sess, source, err := cmd.app.SignIn(ctx, c.Args().First())
	if err != nil {
		return err
	}

	p.Successf("Signed in as %s", sess.UserID)
	if source == persist.SourceRemote {
		p.Infof("Loaded planner data from the remote store")
	}
	return nil
}

func (cmd *AuthCmd) runLogout(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	_, ok, err := cmd.app.Sessions.Session(ctx)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if !ok {
		p.Infof("Not signed in")
		return nil
	}

	if err := cmd.app.SignOut(ctx); err != nil {
		return err
	}
	p.Successf("Signed out")
	return nil
}

// whoami is the JSON output shape of the whoami command.
type whoami struct {
	SignedIn   bool      `json:"signed_in"`
	UserID     string    `json:"user_id,omitempty"`
	SignedInAt time.Time `json:"signed_in_at,omitzero"`
	Remote     string    `json:"remote"`
}

func (cmd *AuthCmd) runWhoami(ctx context.Context, c *cli.Command) error {
	sess, ok, err := cmd.app.Sessions.Session(ctx)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	out := whoami{SignedIn: ok, Remote: cmd.app.Config.Remote.Driver}
	if ok {
		out.UserID = sess.UserID
		out.SignedInAt = sess.SignedInAt
	}

	if cmd.jsonOutput {
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, out)
	}

	p := printer.Ctx(ctx)
	if !ok {
		p.Infof("Not signed in")
		return nil
	}
	p.Printf("%s (since %s, remote: %s)", out.UserID, out.SignedInAt.Local().Format(time.DateTime), out.Remote)
	return nil
}
