// Package replicate implements the modeladapter.Completer interface for
// language models hosted on Replicate.
//
// Replicate runs inference as asynchronous predictions: a create request
// returns a job id, and the client polls the job until it reaches a terminal
// state (succeeded, failed, or canceled). Complete hides that lifecycle
// behind a single blocking call. Streaming and tool invocation are not
// supported by this model family and are rejected up front.
package replicate

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/benswift/langchain/pkg/chats/chat"
	"github.com/benswift/langchain/pkg/chats/message"
	"github.com/benswift/langchain/pkg/modeladapter"
	"github.com/benswift/langchain/pkg/tools/toolbox"
)

// DefaultBaseURL is the base URL for the Replicate HTTP API.
const DefaultBaseURL = "https://api.replicate.com/v1"

const (
	defaultTemperature = 0.75
	defaultTopP        = 0.9
	defaultTopK        = 50

	defaultReceiveTimeout  = 60 * time.Second
	defaultPollInterval    = 500 * time.Millisecond
	defaultMaxPollDuration = 10 * time.Minute
	maxPollInterval        = 10 * time.Second
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Observer receives the normalized result of a call: the assistant's reply
// on success, or the error otherwise. It is invoked exactly once per call
// and is purely observational; it cannot change what Complete returns, and a
// panic inside it is contained.
type Observer func(msg message.Message, err error)

// Options configures an Adapter. Model and Version are required; zero
// decoding parameters take the provider's published defaults.
type Options struct {
	BaseURL  string // Defaults to DefaultBaseURL.
	APIToken string
	Model    string // e.g. "meta/llama-2-70b-chat".
	Version  string // Version id of the model to run.

	Temperature float64 // Sampling temperature, 0 < t <= 5. Default 0.75.
	TopP        float64 // Nucleus sampling threshold, 0 < p <= 1. Default 0.9.
	TopK        int     // Top-k sampling cutoff, >= 1. Default 50.
	Stream      bool    // Must be false; streaming is not supported.

	ReceiveTimeout  time.Duration // Per-round-trip network deadline. Default 60s.
	PollInterval    time.Duration // Initial delay between status polls. Default 500ms.
	MaxPollDuration time.Duration // Wall-clock budget for the whole poll loop. Default 10m.

	Client   *http.Client // Optional HTTP client.
	Backend  Backend      // Optional replacement for the HTTP calls (tests).
	Observer Observer     // Optional result observer.
}

// Adapter sends conversations to Replicate-hosted models and blocks until
// the resulting prediction terminates. Configuration is fixed at New;
// Adapters are safe for concurrent Complete calls.
type Adapter struct {
	modeladapter.ModelAdapter

	Version         string
	Temperature     float64
	TopP            float64
	TopK            int
	ReceiveTimeout  time.Duration
	PollInterval    time.Duration
	MaxPollDuration time.Duration

	backend  Backend
	observer Observer

	// Test seams; default to time.Now, modeladapter.ContextSleep, rand.Float64.
	nowFunc   func() time.Time
	sleepFunc func(ctx context.Context, d time.Duration) error
	randFunc  func() float64
}

// New validates opts and creates an Adapter.
func New(opts Options) (*Adapter, error) {
	if opts.Stream {
		return nil, &ConfigError{Field: "stream", Reason: "streaming responses are not supported"}
	}
	if opts.Model == "" {
		return nil, &ConfigError{Field: "model", Reason: "is required"}
	}
	if opts.Version == "" {
		return nil, &ConfigError{Field: "version", Reason: "is required"}
	}
	if opts.Temperature < 0 || opts.Temperature > 5 {
		return nil, &ConfigError{Field: "temperature", Reason: "must be between 0 and 5"}
	}
	if opts.TopP < 0 || opts.TopP > 1 {
		return nil, &ConfigError{Field: "top_p", Reason: "must be between 0 and 1"}
	}
	if opts.TopK < 0 {
		return nil, &ConfigError{Field: "top_k", Reason: "must not be negative"}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{
			Key:    opts.APIToken,
			Scheme: "Token",
		}, opts.Client),
		Version:         opts.Version,
		Temperature:     opts.Temperature,
		TopP:            opts.TopP,
		TopK:            opts.TopK,
		ReceiveTimeout:  opts.ReceiveTimeout,
		PollInterval:    opts.PollInterval,
		MaxPollDuration: opts.MaxPollDuration,
		backend:         opts.Backend,
		observer:        opts.Observer,
		nowFunc:         time.Now,
		sleepFunc:       modeladapter.ContextSleep,
		randFunc:        rand.Float64,
	}
	a.Name = opts.Model

	if a.Temperature == 0 {
		a.Temperature = defaultTemperature
	}
	if a.TopP == 0 {
		a.TopP = defaultTopP
	}
	if a.TopK == 0 {
		a.TopK = defaultTopK
	}
	if a.ReceiveTimeout <= 0 {
		a.ReceiveTimeout = defaultReceiveTimeout
	}
	if a.PollInterval <= 0 {
		a.PollInterval = defaultPollInterval
	}
	if a.MaxPollDuration <= 0 {
		a.MaxPollDuration = defaultMaxPollDuration
	}
	if a.backend == nil {
		a.backend = &httpBackend{a: a}
	}

	return a, nil
}

// SetNowFunc overrides the time source (for testing).
func (a *Adapter) SetNowFunc(fn func() time.Time) { a.nowFunc = fn }

// SetSleepFunc overrides the sleep function (for testing).
func (a *Adapter) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	a.sleepFunc = fn
}

// SetRandFunc overrides the random number generator (for testing).
func (a *Adapter) SetRandFunc(fn func() float64) { a.randFunc = fn }

// Complete renders the conversation to a prompt, creates a prediction, polls
// it to a terminal state, and returns the normalized assistant reply. The
// call blocks for the whole prediction lifetime; cancel ctx to abandon it
// (the remote job keeps running regardless). Declaring tools fails
// immediately with ErrToolsUnsupported before any network request.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error) {
	if len(tools) > 0 {
		return message.Message{}, ErrToolsUnsupported
	}

	msg, err := a.complete(ctx, c)
	a.notify(msg, err)

	return msg, err
}

func (a *Adapter) complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	systemPrompt, prompt, err := buildPrompt(c)
	if err != nil {
		return message.Message{}, err
	}

	req := PredictionRequest{
		Version: a.Version,
		Input: PredictionInput{
			Prompt:       prompt,
			SystemPrompt: systemPrompt,
			Temperature:  a.Temperature,
			TopP:         a.TopP,
			TopK:         a.TopK,
		},
	}

	id, err := a.backend.CreatePrediction(ctx, req)
	if err != nil {
		return message.Message{}, err
	}

	pred, err := a.awaitPrediction(ctx, id)
	if err != nil {
		return message.Message{}, err
	}

	return normalizePrediction(pred)
}

// notify hands the result to the observer. The observer's outcome never
// alters the call's result, so a panic here is swallowed.
func (a *Adapter) notify(msg message.Message, err error) {
	if a.observer == nil {
		return
	}

	defer func() { _ = recover() }()
	a.observer(msg, err)
}

// requestCtx bounds a single network round-trip with the receive timeout.
func (a *Adapter) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.ReceiveTimeout)
}
