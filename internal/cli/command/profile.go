package command

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
)

// ProfileCommand returns the profile command.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:      "profile",
		Usage:     "Show an account profile",
		ArgsUsage: "[HANDLE]",
		Action:    run(profileAction),
	}
}

// profileView is the slice of the getProfile response we render.
type profileView struct {
	DID            string `json:"did"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	FollowersCount int    `json:"followersCount"`
	FollowsCount   int    `json:"followsCount"`
	PostsCount     int    `json:"postsCount"`
}

func profileAction(c *cli.Context, rt *runtime) error {
	client, session, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	actor := strings.TrimPrefix(c.Args().First(), "@")
	if actor == "" {
		actor = session.Handle
	}

	profile, err := fetchProfile(c.Context, rt, client, actor)
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, profile)
	}

	table := &output.Table{Headers: []string{"HANDLE", "NAME", "POSTS", "FOLLOWERS", "FOLLOWING"}}
	table.AddRow(
		"@"+profile.Handle,
		profile.DisplayName,
		strconv.Itoa(profile.PostsCount),
		strconv.Itoa(profile.FollowersCount),
		strconv.Itoa(profile.FollowsCount),
	)
	return table.Render(c.App.Writer)
}

// fetchProfile resolves an actor (handle or DID) to its profile.
func fetchProfile(ctx context.Context, rt *runtime, client *atproto.Client, actor string) (*profileView, error) {
	if actor == "" {
		return nil, domain.ErrValidation.WithDetails("actor is required")
	}

	params := url.Values{}
	params.Set("actor", actor)

	return retry.Do(ctx, rt.readPolicy(), func(ctx context.Context) (*profileView, error) {
		var out profileView
		if err := client.Query(ctx, "app.bsky.actor.getProfile", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
