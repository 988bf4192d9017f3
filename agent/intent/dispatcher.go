// Package intent decides what a raw utterance asks for and answers it from
// the parts catalog, keeping the session's selected model between turns.
package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	promptx "github.com/tanpawarit/Chative-Parts-Finder/agent/prompt"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

// Dispatcher runs an utterance through the ordered rule table.
type Dispatcher struct {
	finder  contractx.PartFinder
	replies *promptx.ReplySet
	table   []Rule
}

var _ contractx.IntentDispatcher = (*Dispatcher)(nil)

// NewDispatcher builds a Dispatcher that looks parts up through finder.
func NewDispatcher(finder contractx.PartFinder, replies *promptx.ReplySet) (*Dispatcher, error) {
	if finder == nil {
		return nil, errors.New("part finder is required")
	}
	if replies == nil {
		return nil, errors.New("reply set is required")
	}

	d := &Dispatcher{
		finder:  finder,
		replies: replies,
	}
	d.table = d.rules()
	return d, nil
}

// Rules returns the dispatch table in priority order.
func (d *Dispatcher) Rules() []Rule {
	return append([]Rule(nil), d.table...)
}

// Dispatch answers one utterance and updates st in place.
func (d *Dispatcher) Dispatch(ctx context.Context, st *statex.SessionState, utterance string) (contractx.Reply, error) {
	if st == nil {
		return contractx.Reply{}, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}

	turn := NewTurn(utterance, st)
	for _, rule := range d.table {
		if !rule.Match(turn) {
			continue
		}

		reply, handled, err := rule.Apply(ctx, turn)
		if err != nil {
			return contractx.Reply{}, fmt.Errorf("intent %s: %w", rule.Intent, err)
		}
		if !handled {
			log.Debug().
				Str("session_id", st.SessionID).
				Str("intent", string(rule.Intent)).
				Msg("rule matched but did not answer, falling through")
			continue
		}

		log.Debug().
			Str("session_id", st.SessionID).
			Str("intent", string(rule.Intent)).
			Msg("utterance dispatched")
		return contractx.Reply{Intent: rule.Intent, Text: reply}, nil
	}

	// The table ends in a catch-all, so this is only reached with an empty table.
	return contractx.Reply{Intent: contractx.IntentUnknown, Text: d.replies.Fallback}, nil
}

// lookup treats every failure as "not found". Read failures are logged; a
// plain miss is not.
func (d *Dispatcher) lookup(modelNumber, description string) (contractx.PartRecord, bool) {
	part, err := d.finder.FindPart(modelNumber, description)
	if err == nil {
		return part, true
	}

	if errors.Is(err, contractx.ErrPartNotFound) {
		log.Debug().
			Str("model_number", modelNumber).
			Str("description", description).
			Msg("part not found")
	} else {
		log.Error().
			Err(err).
			Str("model_number", modelNumber).
			Str("description", description).
			Msg("error retrieving part info")
	}
	return contractx.PartRecord{}, false
}
