package replicate

import (
	"context"
	"fmt"
)

// Backend issues the prediction API calls for an Adapter. The default
// implementation goes over HTTP; tests can inject a canned one instead of
// relying on ambient global state.
type Backend interface {
	// CreatePrediction submits a new prediction and returns its id. The
	// remote job starts executing as soon as this returns, whether or not
	// the caller sticks around to observe it.
	CreatePrediction(ctx context.Context, req PredictionRequest) (string, error)

	// GetPrediction fetches the current state of a prediction by id.
	GetPrediction(ctx context.Context, id string) (Prediction, error)
}

// httpBackend calls the real API through the adapter's HTTP helpers. Each
// call is bounded by the adapter's receive timeout.
type httpBackend struct {
	a *Adapter
}

func (b *httpBackend) CreatePrediction(ctx context.Context, req PredictionRequest) (string, error) {
	ctx, cancel := b.a.requestCtx(ctx)
	defer cancel()

	var pred Prediction
	if err := b.a.PostJSON(ctx, "/predictions", req, &pred); err != nil {
		return "", fmt.Errorf("replicate: create prediction: %w", err)
	}

	if pred.ID == "" {
		return "", fmt.Errorf("%w: create response has no id", ErrMalformedResponse)
	}

	return pred.ID, nil
}

func (b *httpBackend) GetPrediction(ctx context.Context, id string) (Prediction, error) {
	ctx, cancel := b.a.requestCtx(ctx)
	defer cancel()

	var pred Prediction
	if err := b.a.GetJSON(ctx, "/predictions/"+id, &pred); err != nil {
		return Prediction{}, err
	}

	return pred, nil
}

// StaticBackend returns one canned prediction for every call, standing in
// for the network during tests. The prediction must already be terminal;
// otherwise a caller would poll the same non-terminal payload forever.
type StaticBackend struct {
	pred Prediction
}

// NewStaticBackend validates that pred is terminal-shaped and wraps it.
func NewStaticBackend(pred Prediction) (*StaticBackend, error) {
	if !pred.Status.Terminal() {
		return nil, &ConfigError{
			Field:  "backend",
			Reason: fmt.Sprintf("static prediction must have a terminal status, got %q", pred.Status),
		}
	}
	return &StaticBackend{pred: pred}, nil
}

func (b *StaticBackend) CreatePrediction(_ context.Context, _ PredictionRequest) (string, error) {
	if b.pred.ID != "" {
		return b.pred.ID, nil
	}
	return "static", nil
}

func (b *StaticBackend) GetPrediction(_ context.Context, _ string) (Prediction, error) {
	return b.pred, nil
}
