package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
)

// ChatCommand returns the chat command group.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Direct messages",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List conversations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   25,
						Usage:   "number of conversations",
					},
				},
				Action: run(chatListAction),
			},
			{
				Name:      "send",
				Usage:     "Send a message to a conversation",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "convo",
						Aliases:  []string{"c"},
						Usage:    "conversation id",
						Required: true,
					},
				},
				Action: run(chatSendAction),
			},
		},
	}
}

func chatListAction(c *cli.Context, rt *runtime) error {
	client, _, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}
	chat := atproto.NewChatClient(client)

	convos, err := retry.Do(c.Context, rt.readPolicy(), func(ctx context.Context) ([]atproto.Convo, error) {
		return chat.ListConvos(ctx, c.Int("limit"))
	})
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, convos)
	}

	table := &output.Table{Headers: []string{"ID", "WITH", "UNREAD", "LAST MESSAGE"}}
	for _, convo := range convos {
		var handles []string
		for _, m := range convo.Members {
			handles = append(handles, "@"+m.Handle)
		}
		unread := ""
		if convo.UnreadCount > 0 {
			unread = strconv.Itoa(convo.UnreadCount)
		}
		table.AddRow(
			convo.ID,
			strings.Join(handles, ", "),
			unread,
			truncate(convo.LastMessage.Text, 40),
		)
	}
	return table.Render(c.App.Writer)
}

func chatSendAction(c *cli.Context, rt *runtime) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return domain.ErrValidation.WithDetails("message text is required")
	}

	client, _, err := rt.mgr.RequireAuth(c.Context)
	if err != nil {
		return err
	}
	chat := atproto.NewChatClient(client)

	msg, err := retry.Do(c.Context, rt.writePolicy(), func(ctx context.Context) (*atproto.Message, error) {
		return chat.SendMessage(ctx, c.String("convo"), text)
	})
	if err != nil {
		return err
	}

	if rt.out == output.FormatJSON {
		return rt.formatter().Format(c.App.Writer, msg)
	}
	rt.log.Debug("message sent", "convo", c.String("convo"), "message_id", msg.ID)
	fmt.Fprintf(c.App.Writer, "Sent %s\n", msg.ID)
	return nil
}
