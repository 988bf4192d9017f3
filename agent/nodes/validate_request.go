package nodes

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

var ErrInvalidSession = statex.ErrInvalidSession

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply  string
	Intent contractx.Intent
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.SessionState
	Reply   contractx.Reply
}

// ValidateRequest starts a turn. An empty utterance is valid and gets the
// default reply.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      strings.TrimRight(in.Text, "\r\n"),
		Now:       nowFn().UTC(),
	}, nil
}
