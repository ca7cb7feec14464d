package replicate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benswift/langchain/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend replays a fixed sequence of poll results.
type scriptedBackend struct {
	polls []pollResult
	calls int
}

type pollResult struct {
	pred Prediction
	err  error
}

func (b *scriptedBackend) CreatePrediction(_ context.Context, _ PredictionRequest) (string, error) {
	return "job-1", nil
}

func (b *scriptedBackend) GetPrediction(_ context.Context, _ string) (Prediction, error) {
	r := b.polls[min(b.calls, len(b.polls)-1)]
	b.calls++
	return r.pred, r.err
}

// pollingAdapter builds an adapter around backend with deterministic timing:
// jitter factor pinned to 1.0 and sleeps recorded instead of taken.
func pollingAdapter(t *testing.T, backend Backend, sleeps *[]time.Duration) *Adapter {
	t.Helper()

	a, err := New(Options{
		Model:   "meta/llama-2-70b-chat",
		Version: "v1",
		Backend: backend,
	})
	require.NoError(t, err)

	now := time.Unix(0, 0)
	a.SetRandFunc(func() float64 { return 0.5 })
	a.SetSleepFunc(func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		now = now.Add(d)
		return nil
	})
	a.SetNowFunc(func() time.Time { return now })

	return a
}

func TestAwaitPrediction_WalksToSucceeded(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1", Status: StatusStarting}},
		{pred: Prediction{ID: "job-1", Status: StatusProcessing}},
		{pred: Prediction{ID: "job-1", Status: StatusSucceeded, Output: []string{"ok"}}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	pred, err := a.awaitPrediction(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, pred.Status)
	assert.Equal(t, 3, backend.calls)
	assert.Equal(t, []time.Duration{defaultPollInterval, 2 * defaultPollInterval}, sleeps)
}

func TestAwaitPrediction_TerminalFailureReturnedOnce(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1", Status: StatusFailed, Error: "boom"}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	pred, err := a.awaitPrediction(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, pred.Status)
	assert.Equal(t, 1, backend.calls, "polling must stop at the first terminal status")
	assert.Empty(t, sleeps)
}

func TestAwaitPrediction_BackoffDoublesAndCaps(t *testing.T) {
	polls := make([]pollResult, 0, 10)
	for i := 0; i < 8; i++ {
		polls = append(polls, pollResult{pred: Prediction{ID: "job-1", Status: StatusProcessing}})
	}
	polls = append(polls, pollResult{pred: Prediction{ID: "job-1", Status: StatusSucceeded}})
	backend := &scriptedBackend{polls: polls}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.NoError(t, err)

	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	assert.Equal(t, want, sleeps)
}

func TestAwaitPrediction_BudgetExhausted(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1", Status: StatusProcessing}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)
	a.MaxPollDuration = 30 * time.Second

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not reach a terminal state within 30s")
}

func TestAwaitPrediction_MissingStatus(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1"}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "no status")
}

func TestAwaitPrediction_UnknownStatus(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1", Status: Status("paused")}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), `unknown status "paused"`)
}

func TestAwaitPrediction_RateLimitStretchesDelay(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{err: &modeladapter.RateLimitError{RetryAfter: 2 * time.Second}},
		{pred: Prediction{ID: "job-1", Status: StatusSucceeded}},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.NoError(t, err)

	require.Len(t, sleeps, 1)
	assert.Equal(t, 2*time.Second, sleeps[0])
}

func TestAwaitPrediction_TransportErrorNotRetried(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{err: errors.New("connection reset")},
	}}

	var sleeps []time.Duration
	a := pollingAdapter(t, backend, &sleeps)

	_, err := a.awaitPrediction(context.Background(), "job-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll prediction job-1")
	assert.Equal(t, 1, backend.calls)
}

func TestAwaitPrediction_CancelDuringSleep(t *testing.T) {
	backend := &scriptedBackend{polls: []pollResult{
		{pred: Prediction{ID: "job-1", Status: StatusProcessing}},
	}}

	a, err := New(Options{
		Model:   "meta/llama-2-70b-chat",
		Version: "v1",
		Backend: backend,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.SetSleepFunc(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	_, err = a.awaitPrediction(ctx, "job-1")
	require.ErrorIs(t, err, context.Canceled)
}
