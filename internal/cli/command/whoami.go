package command

import (
	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/output"
)

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in account",
		Action: run(whoamiAction),
	}
}

func whoamiAction(c *cli.Context, rt *runtime) error {
	_, session, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	switch rt.out {
	case output.FormatJSON:
		return rt.formatter().Format(c.App.Writer, map[string]string{
			"handle":  session.Handle,
			"did":     session.DID,
			"service": session.ServiceOrDefault(),
		})
	default:
		table := &output.Table{Headers: []string{"HANDLE", "DID", "SERVICE"}}
		table.AddRow("@"+session.Handle, session.DID, session.ServiceOrDefault())
		return table.Render(c.App.Writer)
	}
}
