package intent

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

// Turn is one utterance being dispatched against a session.
type Turn struct {
	Utterance string
	Lowered   string
	Session   *statex.SessionState
}

func NewTurn(utterance string, st *statex.SessionState) *Turn {
	return &Turn{
		Utterance: utterance,
		Lowered:   strings.ToLower(utterance),
		Session:   st,
	}
}

func (t *Turn) Contains(keyword string) bool {
	return strings.Contains(t.Lowered, keyword)
}

func (t *Turn) ModelNumber() (string, bool) {
	return t.Session.Slot(statex.SlotModelNumber)
}

func (t *Turn) HasModel() bool {
	_, ok := t.ModelNumber()
	return ok
}

// Action runs a matched rule. handled=false hands the turn to the next rule.
type Action func(ctx context.Context, turn *Turn) (reply string, handled bool, err error)

// Rule is one row of the dispatch table.
type Rule struct {
	Intent contractx.Intent
	Match  func(turn *Turn) bool
	Apply  Action
}

// rules is the dispatch table, in priority order. Only the first rule that
// matches and handles the turn produces the reply.
func (d *Dispatcher) rules() []Rule {
	return []Rule{
		{
			Intent: contractx.IntentSetModel,
			Match:  func(t *Turn) bool { return t.Contains("model") },
			Apply:  d.setModel,
		},
		{
			Intent: contractx.IntentDescribePart,
			Match:  func(t *Turn) bool { return t.Contains("part") || t.Contains("looking for") },
			Apply:  d.describePart,
		},
		{
			Intent: contractx.IntentAskPrice,
			Match:  func(t *Turn) bool { return t.Contains("price") && t.HasModel() },
			Apply:  d.askPrice,
		},
		{
			Intent: contractx.IntentAskDiagram,
			Match:  func(t *Turn) bool { return t.Contains("diagram") && t.HasModel() },
			Apply:  d.askDiagram,
		},
		{
			Intent: contractx.IntentUnknown,
			Match:  func(*Turn) bool { return true },
			Apply:  d.fallback,
		},
	}
}

func (d *Dispatcher) setModel(_ context.Context, t *Turn) (string, bool, error) {
	model := ExtractModelNumber(t.Utterance)
	if err := t.Session.SetSlot(statex.SlotModelNumber, model); err != nil {
		return "", false, err
	}
	reply, err := d.replies.ModelSelected(model)
	if err != nil {
		return "", false, err
	}
	return reply, true, nil
}

func (d *Dispatcher) describePart(_ context.Context, t *Turn) (string, bool, error) {
	model, ok := t.ModelNumber()
	if !ok {
		return d.replies.NeedModel, true, nil
	}

	description := ExtractPartDescription(t.Lowered)
	part, found := d.lookup(model, description)
	if !found {
		return d.replies.PartNotFound, true, nil
	}

	if err := t.Session.SetSlot(statex.SlotPartDescription, description); err != nil {
		return "", false, err
	}
	reply, err := d.replies.PartDetails(part)
	if err != nil {
		return "", false, err
	}
	return reply, true, nil
}

// askPrice only answers when the stored selection resolves to a part.
// Otherwise the turn continues down the table.
func (d *Dispatcher) askPrice(_ context.Context, t *Turn) (string, bool, error) {
	model, _ := t.ModelNumber()
	description := t.Session.SlotOr(statex.SlotPartDescription, "")

	part, found := d.lookup(model, description)
	if !found {
		return "", false, nil
	}
	reply, err := d.replies.Price(part.Price)
	if err != nil {
		return "", false, err
	}
	return reply, true, nil
}

func (d *Dispatcher) askDiagram(context.Context, *Turn) (string, bool, error) {
	return d.replies.DiagramOffer, true, nil
}

func (d *Dispatcher) fallback(context.Context, *Turn) (string, bool, error) {
	return d.replies.Fallback, true, nil
}
