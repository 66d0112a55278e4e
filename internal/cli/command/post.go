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

// maxPostLength is the protocol's grapheme budget for a post; the
// server enforces it too, this just fails earlier with a better error.
const maxPostLength = 300

// PostCommand returns the post command.
func PostCommand() *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     "Publish a post",
		ArgsUsage: "TEXT",
		Action:    run(postAction),
	}
}

func postAction(c *cli.Context, rt *runtime) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return domain.ErrValidation.WithDetails("post text is required")
	}
	if len([]rune(text)) > maxPostLength {
		return domain.ErrValidation.WithDetails(fmt.Sprintf("post exceeds %d characters", maxPostLength))
	}

	client, session, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}

	input := map[string]any{
		"repo":       session.DID,
		"collection": "app.bsky.feed.post",
		"record": map[string]any{
			"$type":     "app.bsky.feed.post",
			"text":      text,
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}

	result, err := retry.Do(c.Context, rt.writePolicy(), func(ctx context.Context) (*createRecordResult, error) {
		var out createRecordResult
		if err := client.Procedure(ctx, "com.atproto.repo.createRecord", input, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Posted: %s\n", result.URI)
	return nil
}

// createRecordResult is the createRecord response shape.
type createRecordResult struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}
