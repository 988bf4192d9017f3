// Package console runs the interactive chat loop over a line-oriented reader
// and writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	QuitCommand = "quit"
	UserPrompt  = "You: "
	BotPrefix   = "Bot: "

	DefaultErrorReply = "Sorry, something went wrong. Please try again."
)

// Handler answers one utterance for a session.
type Handler interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

type Console struct {
	handler    Handler
	sessionID  string
	banner     string
	prompt     bool
	errorReply string
}

type Option func(*Console)

// WithBanner prints banner once before the first read.
func WithBanner(banner string) Option {
	return func(c *Console) {
		c.banner = banner
	}
}

// WithPrompt writes the "You: " prompt before each read. Use it only when the
// input is a terminal.
func WithPrompt(enabled bool) Option {
	return func(c *Console) {
		c.prompt = enabled
	}
}

func WithErrorReply(reply string) Option {
	return func(c *Console) {
		if strings.TrimSpace(reply) != "" {
			c.errorReply = reply
		}
	}
}

func New(handler Handler, sessionID string, opts ...Option) (*Console, error) {
	if handler == nil {
		return nil, errors.New("message handler is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id is required")
	}

	c := &Console{
		handler:    handler,
		sessionID:  sessionID,
		errorReply: DefaultErrorReply,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// IsQuit reports whether line ends the session.
func IsQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), QuitCommand)
}

// Run reads one utterance per line until quit, end of input, or ctx is done.
// A failed turn is logged and answered with the error reply; it never ends
// the loop.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if c.banner != "" {
		if _, err := fmt.Fprintln(out, c.banner); err != nil {
			return err
		}
	}

	reader := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.prompt {
			if _, err := io.WriteString(out, UserPrompt); err != nil {
				return err
			}
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read input: %w", readErr)
		}
		if errors.Is(readErr, io.EOF) && line == "" {
			if c.prompt {
				_, _ = fmt.Fprintln(out)
			}
			return nil
		}

		line = strings.TrimRight(line, "\r\n")
		if IsQuit(line) {
			return nil
		}

		reply, err := c.handler.HandleMessage(ctx, c.sessionID, line)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.Error().
				Err(err).
				Str("session_id", c.sessionID).
				Msg("handle message failed")
			reply = c.errorReply
		}

		if _, err := fmt.Fprintf(out, "%s%s\n", BotPrefix, reply); err != nil {
			return err
		}
	}
}
