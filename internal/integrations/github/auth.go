package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client. A non-empty
// apiEndpoint points the client at a GitHub Enterprise installation.
func NewClient(ctx context.Context, token, apiEndpoint string) (*Client, error) {
	var tc *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(tc)
	if apiEndpoint != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiEndpoint, apiEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to set API endpoint: %w", err)
		}
	}

	return &Client{
		client:  client,
		limiter: newDefaultLimiter(),
	}, nil
}
