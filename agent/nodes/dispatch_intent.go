package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
)

func DispatchIntent(
	ctx context.Context,
	in *GraphState,
	dispatcher contractx.IntentDispatcher,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	reply, err := dispatcher.Dispatch(ctx, in.Session, in.Text)
	if err != nil {
		return nil, err
	}
	in.Reply = reply
	return in, nil
}
