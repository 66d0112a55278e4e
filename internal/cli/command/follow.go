package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
)

// FollowCommand returns the follow command.
func FollowCommand() *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Usage:     "Follow an account",
		ArgsUsage: "HANDLE",
		Action:    run(followAction),
	}
}

func followAction(c *cli.Context, rt *runtime) error {
	target := strings.TrimPrefix(c.Args().First(), "@")
	if target == "" {
		return domain.ErrValidation.WithDetails("handle is required")
	}

	client, session, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	// Resolve the handle to its DID first; follow records point at DIDs.
	profile, err := fetchProfile(c.Context, rt, client, target)
	if err != nil {
		return err
	}

	input := map[string]any{
		"repo":       session.DID,
		"collection": "app.bsky.graph.follow",
		"record": map[string]any{
			"$type":     "app.bsky.graph.follow",
			"subject":   profile.DID,
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}

	_, err = retry.Do(c.Context, rt.writePolicy(), func(ctx context.Context) (*createRecordResult, error) {
		var out createRecordResult
		if err := client.Procedure(ctx, "com.atproto.repo.createRecord", input, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Following @%s\n", profile.Handle)
	return nil
}
