package command

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/retry"
)

// notification is the slice of the listNotifications response we render.
type notification struct {
	Reason string `json:"reason"`
	IsRead bool   `json:"isRead"`
	Author struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
	} `json:"author"`
	IndexedAt time.Time `json:"indexedAt"`
}

// NotificationsCommand returns the notifications command.
func NotificationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notifs"},
		Usage:   "List recent notifications",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   25,
				Usage:   "number of notifications",
			},
		},
		Action: run(notificationsAction),
	}
}

func notificationsAction(c *cli.Context, rt *runtime) error {
	client, _, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.Int("limit")))

	notifs, err := retry.Do(c.Context, rt.readPolicy(), func(ctx context.Context) ([]notification, error) {
		var out struct {
			Notifications []notification `json:"notifications"`
		}
		if err := client.Query(ctx, "app.bsky.notification.listNotifications", params, &out); err != nil {
			return nil, err
		}
		return out.Notifications, nil
	})
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, notifs)
	}

	table := &output.Table{Headers: []string{"TIME", "REASON", "FROM", "READ"}}
	for _, n := range notifs {
		read := ""
		if !n.IsRead {
			read = "new"
		}
		table.AddRow(
			n.IndexedAt.Local().Format("Jan 02 15:04"),
			n.Reason,
			"@"+n.Author.Handle,
			read,
		)
	}
	return table.Render(c.App.Writer)
}
