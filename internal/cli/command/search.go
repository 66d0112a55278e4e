package command

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
)

// SearchCommand returns the search command.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search accounts",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   25,
				Usage:   "number of results",
			},
		},
		Action: run(searchAction),
	}
}

func searchAction(c *cli.Context, rt *runtime) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return domain.ErrValidation.WithDetails("search query is required")
	}

	client, _, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.Int("limit")))

	actors, err := retry.Do(c.Context, rt.readPolicy(), func(ctx context.Context) ([]profileView, error) {
		var out struct {
			Actors []profileView `json:"actors"`
		}
		if err := client.Query(ctx, "app.bsky.actor.searchActors", params, &out); err != nil {
			return nil, err
		}
		return out.Actors, nil
	})
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, actors)
	}

	table := &output.Table{Headers: []string{"HANDLE", "NAME", "DESCRIPTION"}}
	for _, actor := range actors {
		table.AddRow("@"+actor.Handle, actor.DisplayName, truncate(actor.Description, 50))
	}
	return table.Render(c.App.Writer)
}
