package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/prompt"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Log in and store the session",
		ArgsUsage: "[IDENTIFIER]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "app password (prompted when omitted)",
				EnvVars: []string{"SKYCLI_PASSWORD"},
			},
		},
		Action: run(loginAction),
	}
}

func loginAction(c *cli.Context, rt *runtime) error {
	identifier := c.Args().First()
	if identifier == "" {
		var err error
		identifier, err = prompt.ReadLine(c.App.Writer, os.Stdin, "Identifier (handle or email)")
		if err != nil {
			return err
		}
	}

	password := c.String("password")
	if password == "" {
		var err error
		password, err = prompt.ReadSecret(c.App.Writer, os.Stdin, "Password")
		if err != nil {
			return err
		}
	}

	session, err := rt.mgr.Login(c.Context, identifier, password, c.String("service"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Logged in as @%s (%s)\n", session.Handle, session.DID)
	return nil
}
