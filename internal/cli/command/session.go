package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/output"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and maintain the stored session",
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the stored session without contacting the server",
				Action: run(sessionStatus),
			},
			{
				Name:   "validate",
				Usage:  "Probe the session against the server",
				Action: run(sessionValidate),
			},
			{
				Name:   "refresh",
				Usage:  "Force a credential refresh",
				Action: run(sessionRefresh),
			},
		},
	}
}

func sessionStatus(c *cli.Context, rt *runtime) error {
	session, err := rt.mgr.GetCurrentSession()
	if err != nil {
		return err
	}
	if session == nil {
		fmt.Fprintln(c.App.Writer, "No session; run: skycli login")
		return nil
	}

	lastUsed := time.UnixMilli(session.LastUsed).Format("2006-01-02 15:04")
	switch rt.out {
	case output.FormatJSON:
		return rt.formatter().Format(c.App.Writer, map[string]string{
			"handle":    session.Handle,
			"did":       session.DID,
			"service":   session.ServiceOrDefault(),
			"last_used": lastUsed,
		})
	default:
		table := &output.Table{Headers: []string{"HANDLE", "DID", "SERVICE", "LAST USED"}}
		table.AddRow("@"+session.Handle, session.DID, session.ServiceOrDefault(), lastUsed)
		return table.Render(c.App.Writer)
	}
}

func sessionValidate(c *cli.Context, rt *runtime) error {
	if _, _, err := rt.mgr.RequireAuth(c.Context); err != nil {
		return err
	}

	valid, err := rt.mgr.ValidateSession(c.Context)
	if err != nil {
		return err
	}
	if !valid {
		fmt.Fprintln(c.App.Writer, "Session is invalid; run: skycli login")
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Session is valid")
	return nil
}

func sessionRefresh(c *cli.Context, rt *runtime) error {
	if _, _, err := rt.mgr.RequireAuth(c.Context); err != nil {
		return err
	}
	if err := rt.mgr.RefreshSession(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Session refreshed")
	return nil
}
