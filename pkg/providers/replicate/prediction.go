package replicate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benswift/langchain/pkg/modeladapter"
)

// Status is the lifecycle state of a prediction on the remote side.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

// Terminal reports whether no further state change will occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// InFlight reports whether the prediction is still executing.
func (s Status) InFlight() bool {
	return s == StatusStarting || s == StatusProcessing
}

// Prediction is the remote job as reported by the API. Output holds the text
// fragments emitted so far; Error carries the failure reason when Status is
// failed.
type Prediction struct {
	ID     string   `json:"id"`
	Status Status   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

// PredictionRequest is the body sent to create a prediction.
type PredictionRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

// PredictionInput holds the rendered prompt and decoding parameters.
type PredictionInput struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	TopK         int     `json:"top_k"`
}

// awaitPrediction polls the prediction until it reaches a terminal state.
// Non-terminal statuses re-poll with a jittered delay that doubles up to
// maxPollInterval; the whole loop is bounded by MaxPollDuration. A 429
// stretches the next delay instead of failing the call. Unknown or missing
// statuses are fatal.
func (a *Adapter) awaitPrediction(ctx context.Context, id string) (Prediction, error) {
	start := a.nowFunc()
	delay := a.PollInterval

	for {
		pred, err := a.backend.GetPrediction(ctx, id)

		var rle *modeladapter.RateLimitError
		switch {
		case err == nil:
			if pred.Status.Terminal() {
				return pred, nil
			}
			if !pred.Status.InFlight() {
				if pred.Status == "" {
					return Prediction{}, fmt.Errorf("%w: prediction %s has no status", ErrMalformedResponse, id)
				}
				return Prediction{}, fmt.Errorf("%w: prediction %s has unknown status %q", ErrMalformedResponse, id, pred.Status)
			}
		case errors.As(err, &rle):
			if rle.RetryAfter > delay {
				delay = rle.RetryAfter
			}
		default:
			return Prediction{}, fmt.Errorf("replicate: poll prediction %s: %w", id, err)
		}

		if a.nowFunc().Sub(start) >= a.MaxPollDuration {
			return Prediction{}, fmt.Errorf("replicate: prediction %s did not reach a terminal state within %s", id, a.MaxPollDuration)
		}

		if err := a.sleepFunc(ctx, a.jitter(delay)); err != nil {
			return Prediction{}, err
		}

		delay = min(delay*2, maxPollInterval)
	}
}

// jitter applies ±25% random jitter to a duration.
func (a *Adapter) jitter(d time.Duration) time.Duration {
	factor := 0.75 + a.randFunc()*0.5 //nolint:mnd // jitter range: ±25%
	return time.Duration(float64(d) * factor)
}
