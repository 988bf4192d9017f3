// Package orchestrator runs one chat turn end to end: load the session,
// dispatch the utterance, save the session, return the reply.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	nodex "github.com/tanpawarit/Chative-Parts-Finder/agent/nodes"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

var ErrInvalidSession = nodex.ErrInvalidSession

type Orchestrator struct {
	store      statex.Store
	dispatcher contractx.IntentDispatcher

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(
	store statex.Store,
	dispatcher contractx.IntentDispatcher,
	opts ...Option,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if dispatcher == nil {
		return nil, errors.New("intent dispatcher is required")
	}

	o := &Orchestrator{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// EndSession drops the session's context.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) error {
	return o.store.Delete(ctx, sessionID)
}
