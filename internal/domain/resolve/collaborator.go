package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client calls the external natural-language resolution collaborator over
// HTTP. The collaborator owns the ML/NLP step; the engine only validates
// its structured suggestion.
type Client struct {
	http *resty.Client
}

// NewClient creates a collaborator client
func NewClient(baseURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &Client{http: http}
}

type suggestRequest struct {
	Hint string `json:"hint"`
}

// Suggest submits free text and returns the collaborator's structured
// {kind, props} proposal.
func (c *Client) Suggest(ctx context.Context, hint string) (*Suggestion, error) {
	var suggestion Suggestion

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(suggestRequest{Hint: hint}).
		SetResult(&suggestion).
		Post("/suggest")
	if err != nil {
		return nil, fmt.Errorf("collaborator request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("collaborator returned %s", resp.Status())
	}

	return &suggestion, nil
}
