package replicate

import (
	"fmt"
	"strings"

	"github.com/benswift/langchain/pkg/chats/message"
	"github.com/benswift/langchain/pkg/chats/role"
)

// canceledReason is the fixed error text for predictions canceled remotely,
// which carry no reason of their own.
const canceledReason = "Prediction canceled"

// normalizePrediction converts a terminal prediction into the assistant's
// reply or a typed error. Output fragments are concatenated with no
// separator. It is a pure function of its input.
func normalizePrediction(pred Prediction) (message.Message, error) {
	switch pred.Status {
	case StatusSucceeded:
		msg := message.NewComplete(role.Assistant, strings.Join(pred.Output, ""))
		if err := msg.Validate(); err != nil {
			return message.Message{}, fmt.Errorf("replicate: %w", err)
		}
		return msg, nil
	case StatusFailed:
		return message.Message{}, &PredictionError{Status: StatusFailed, Reason: pred.Error}
	case StatusCanceled:
		return message.Message{}, &PredictionError{Status: StatusCanceled, Reason: canceledReason}
	default:
		return message.Message{}, fmt.Errorf("%w: status %q is not terminal", ErrMalformedResponse, pred.Status)
	}
}
