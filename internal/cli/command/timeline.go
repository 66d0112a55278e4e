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

// TimelineCommand returns the timeline command.
func TimelineCommand() *cli.Command {
	return &cli.Command{
		Name:    "timeline",
		Aliases: []string{"tl"},
		Usage:   "Show the home timeline",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   25,
				Usage:   "number of posts (max 100)",
			},
		},
		Action: run(timelineAction),
	}
}

// feedItem is the slice of the getTimeline response the table needs.
type feedItem struct {
	Post struct {
		Author struct {
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
		} `json:"author"`
		Record struct {
			Text      string    `json:"text"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"record"`
		LikeCount   int `json:"likeCount"`
		RepostCount int `json:"repostCount"`
	} `json:"post"`
}

func timelineAction(c *cli.Context, rt *runtime) error {
	client, _, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.Int("limit")))

	feed, err := retry.Do(c.Context, rt.readPolicy(), func(ctx context.Context) ([]feedItem, error) {
		var out struct {
			Feed []feedItem `json:"feed"`
		}
		if err := client.Query(ctx, "app.bsky.feed.getTimeline", params, &out); err != nil {
			return nil, err
		}
		return out.Feed, nil
	})
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, feed)
	}

	table := &output.Table{Headers: []string{"TIME", "AUTHOR", "TEXT", "LIKES"}}
	for _, item := range feed {
		table.AddRow(
			item.Post.Record.CreatedAt.Local().Format("15:04"),
			"@"+item.Post.Author.Handle,
			truncate(item.Post.Record.Text, 60),
			strconv.Itoa(item.Post.LikeCount),
		)
	}
	return table.Render(c.App.Writer)
}

// truncate shortens s to max runes with an ellipsis marker.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
