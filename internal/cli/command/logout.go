package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Clear the stored session",
		Action: run(logoutAction),
	}
}

func logoutAction(c *cli.Context, rt *runtime) error {
	// Resume first so server-side deletion can be attempted; a session
	// that no longer resumes still gets cleared locally.
	if _, err := rt.mgr.Resume(c.Context); err != nil {
		rt.log.Debug("resume before logout failed", "error", err)
	}

	if err := rt.mgr.Logout(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Logged out")
	return nil
}
