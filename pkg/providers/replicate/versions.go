package replicate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benswift/langchain/pkg/modeladapter"
)

// versionList is the response of GET /models/{model}/versions. Results are
// ordered newest first.
type versionList struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// LatestVersion returns the newest published version id for model. It is a
// package function rather than an Adapter method so callers can resolve a
// version before they have one to configure the adapter with. An empty
// baseURL defaults to DefaultBaseURL; a nil client falls back to the default.
func LatestVersion(ctx context.Context, baseURL, apiToken, model string, client *http.Client) (string, error) {
	if model == "" {
		return "", &ConfigError{Field: "model", Reason: "is required"}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	ma := modeladapter.New(baseURL, modeladapter.Auth{Key: apiToken, Scheme: "Token"}, client)

	var list versionList
	if err := ma.GetJSON(ctx, "/models/"+model+"/versions", &list); err != nil {
		return "", fmt.Errorf("replicate: list versions: %w", err)
	}

	if len(list.Results) == 0 {
		return "", fmt.Errorf("%w: model %s has no versions", ErrMalformedResponse, model)
	}

	return list.Results[0].ID, nil
}

// LatestVersion resolves the newest version id of the adapter's own model.
func (a *Adapter) LatestVersion(ctx context.Context) (string, error) {
	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	return LatestVersion(ctx, a.BaseURL, a.Auth.Key, a.Name, a.Client)
}
