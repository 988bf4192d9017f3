package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if strings.TrimSpace(in.Reply.Text) == "" {
		return GraphOutput{}, fmt.Errorf("%w: dispatcher returned empty reply", contractx.ErrValidation)
	}
	return GraphOutput{Reply: in.Reply.Text, Intent: in.Reply.Intent}, nil
}
