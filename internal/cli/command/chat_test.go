package command

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/skycli/skycli/internal/core/domain"
)

func TestChatListAction(t *testing.T) {
	srv := newMockServer(t)
	srv.scriptSession()
	srv.handle("chat.bsky.convo.listConvos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Atproto-Proxy"); got != "did:web:api.bsky.chat#bsky_chat" {
			t.Errorf("Atproto-Proxy = %q, want chat service ref", got)
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"convos": []map[string]any{
				{
					"id":          "convo1",
					"unreadCount": 2,
					"members": []map[string]string{
						{"did": "did:plc:one", "handle": "one.bsky.social"},
					},
					"lastMessage": map[string]string{"id": "m1", "text": "see you tomorrow"},
				},
			},
		})
	})

	rt, buf := testRuntime(t, srv)
	login(t, rt)

	c := testContext(t, rt, buf, ChatCommand().Subcommands[0].Flags)
	if err := chatListAction(c, rt); err != nil {
		t.Fatalf("chatListAction() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"convo1", "@one.bsky.social", "2", "see you tomorrow"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, missing %q", out, want)
		}
	}
}

func TestChatSendAction(t *testing.T) {
	srv := newMockServer(t)
	srv.scriptSession()
	srv.handle("chat.bsky.convo.sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ConvoID string `json:"convoId"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.ConvoID != "convo1" {
			t.Errorf("convoId = %q, want convo1", in.ConvoID)
		}
		if in.Message.Text != "hello there" {
			t.Errorf("text = %q, want hello there", in.Message.Text)
		}
		jsonResponse(w, http.StatusOK, map[string]string{"id": "m42", "text": in.Message.Text})
	})

	rt, buf := testRuntime(t, srv)
	login(t, rt)

	c := testContext(t, rt, buf, ChatCommand().Subcommands[1].Flags, "--convo", "convo1", "hello", "there")
	if err := chatSendAction(c, rt); err != nil {
		t.Fatalf("chatSendAction() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Sent m42") {
		t.Errorf("output = %q, want send confirmation", buf.String())
	}
}

func TestChatSendAction_RequiresText(t *testing.T) {
	srv := newMockServer(t)
	rt, buf := testRuntime(t, srv)

	c := testContext(t, rt, buf, ChatCommand().Subcommands[1].Flags, "--convo", "convo1")
	if err := chatSendAction(c, rt); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("chatSendAction() error = %v, want %v", err, domain.ErrValidation)
	}
}
