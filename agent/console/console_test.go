package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	intentx "github.com/tanpawarit/Chative-Parts-Finder/agent/intent"
	"github.com/tanpawarit/Chative-Parts-Finder/agent/orchestrator"
	promptx "github.com/tanpawarit/Chative-Parts-Finder/agent/prompt"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

type fakeHandler struct {
	replies map[string]string
	err     error
	seen    []string
}

func (f *fakeHandler) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	f.seen = append(f.seen, text)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[text], nil
}

func TestIsQuit(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"quit":     true,
		"QUIT":     true,
		" Quit \r": true,
		"quit now": false,
		"":         false,
	}
	for line, want := range cases {
		if got := IsQuit(line); got != want {
			t.Fatalf("IsQuit(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	t.Parallel()

	handler := &fakeHandler{replies: map[string]string{"hello": "hi there"}}
	c, err := New(handler, "s1", WithBanner("Banner"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var out bytes.Buffer
	if err := c.Run(context.Background(), strings.NewReader("hello\nQuit\nnever read\n"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := out.String(), "Banner\nBot: hi there\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if len(handler.seen) != 1 {
		t.Fatalf("handler saw %d lines, want 1", len(handler.seen))
	}
}

func TestRunStopsOnEOFWithPrompt(t *testing.T) {
	t.Parallel()

	handler := &fakeHandler{replies: map[string]string{"a": "b"}}
	c, err := New(handler, "s1", WithPrompt(true))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var out bytes.Buffer
	if err := c.Run(context.Background(), strings.NewReader("a"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := out.String(), "You: Bot: b\nYou: \n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunHandlesVeryLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 70000)
	handler := &fakeHandler{replies: map[string]string{long: "long", "hello": "hi"}}
	c, err := New(handler, "s1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var out bytes.Buffer
	if err := c.Run(context.Background(), strings.NewReader(long+"\r\nhello\n"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := out.String(), "Bot: long\nBot: hi\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if len(handler.seen) != 2 || handler.seen[0] != long {
		t.Fatalf("handler saw %d lines, want the long line then hello", len(handler.seen))
	}
}

func TestRunHandlerErrorKeepsLooping(t *testing.T) {
	t.Parallel()

	handler := &fakeHandler{err: errors.New("boom")}
	c, err := New(handler, "s1", WithErrorReply("try again"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var out bytes.Buffer
	if err := c.Run(context.Background(), strings.NewReader("one\ntwo\n"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := out.String(), "Bot: try again\nBot: try again\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	c, err := New(&fakeHandler{}, "s1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Run(ctx, strings.NewReader("hello\n"), &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "s1"); err == nil {
		t.Fatal("expected error for nil handler")
	}
	if _, err := New(&fakeHandler{}, " "); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestRunConversation(t *testing.T) {
	t.Parallel()

	parts := catalogx.NewTable(contractx.TableParts, nil, []catalogx.Row{
		{
			contractx.FieldModelNumber: "XJ200",
			contractx.FieldDescription: "filter",
			contractx.FieldPartNumber:  "FLT-200",
			contractx.FieldType:        "Air",
			contractx.FieldYearSold:    2021,
			contractx.FieldPrice:       24.5,
		},
	})
	replies := promptx.MustLoadReplySet()
	dispatcher, err := intentx.NewDispatcher(catalogx.New(parts, nil), replies)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	orch, err := orchestrator.New(statex.NewMemoryStore(), dispatcher)
	if err != nil {
		t.Fatalf("orchestrator.New() error = %v", err)
	}
	c, err := New(orch, "session-1", WithBanner(replies.Banner))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	input := strings.Join([]string{
		"I need a filter part",
		"My model is XJ200",
		"I'm looking for a filter",
		"What's the price?",
		"Can I see a diagram?",
		"hello",
		"quit",
	}, "\n")

	var out bytes.Buffer
	if err := c.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := strings.Join([]string{
		"Parts Finder Chatbot",
		"Type 'quit' to exit",
		"Bot: Please provide a model number first.",
		"Bot: Model number XJ200 selected. What part are you looking for?",
		"Bot: Here are the details for your part:",
		"Part Number: FLT-200",
		"Type: Air",
		"Year: 2021",
		"Price: $24.50",
		"",
		"Would you like to see the diagram for this part?",
		"Bot: The price for this part is $24.50",
		"Bot: I can help you locate the diagram. Would you like to see it in the browser or download it?",
		"Bot: I can help you find parts by model number. Please provide a model number to start.",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("transcript mismatch\n got: %q\nwant: %q", out.String(), want)
	}
}
