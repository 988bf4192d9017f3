package contract

import (
	"context"

	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

// PartFinder answers (model number, description) lookups against the Parts table.
type PartFinder interface {
	FindPart(modelNumber string, description string) (PartRecord, error)
}

// IntentDispatcher answers one utterance and updates the session in place.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, st *statex.SessionState, utterance string) (Reply, error)
}
