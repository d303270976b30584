// Package github wraps the GitHub API for the notice job: listing issues
// by label and state, and closing idle ones.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/time/rate"
)

// Client wraps the GitHub API client behind a request rate limiter.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
}

// newDefaultLimiter keeps the job comfortably inside the 5000 req/h
// authenticated quota even when many repos share one token.
func newDefaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(1), 5)
}

// ListOptions narrows an issue listing.
type ListOptions struct {
	// Labels filters to issues carrying every listed label.
	Labels []string
	// State is "open", "closed" or "all"; empty means "open".
	State string
	// Sort is "created", "updated" or "comments".
	Sort string
	// Direction is "asc" or "desc".
	Direction string
}

// ListIssues fetches all issues of a repository matching opts, following
// pagination. The GitHub API returns pull requests as issues too; callers
// tell them apart with IsPullRequest.
func (c *Client) ListIssues(ctx context.Context, repo string, opts ListOptions) ([]*github.Issue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	apiOpts := &github.IssueListByRepoOptions{
		Labels:    opts.Labels,
		State:     opts.State,
		Sort:      opts.Sort,
		Direction: opts.Direction,
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var all []*github.Issue
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, apiOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s: %w", repo, err)
		}
		all = append(all, issues...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		apiOpts.Page = resp.NextPage
	}

	return all, nil
}

// CloseIssue closes a single issue.
func (c *Client) CloseIssue(ctx context.Context, repo string, number int) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req := &github.IssueRequest{State: github.String("closed")}
	_, _, err = c.client.Issues.Edit(ctx, owner, name, number, req)
	if err != nil {
		return fmt.Errorf("failed to close issue %s#%d: %w", repo, number, err)
	}
	return nil
}

// ListRequestedReviewers returns the logins of the users whose review is
// requested on a pull request. The issue listing does not carry these.
func (c *Client) ListRequestedReviewers(ctx context.Context, repo string, number int) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reviewers, _, err := c.client.PullRequests.ListReviewers(ctx, owner, name, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewers for %s#%d: %w", repo, number, err)
	}

	logins := make([]string, 0, len(reviewers.Users))
	for _, u := range reviewers.Users {
		logins = append(logins, u.GetLogin())
	}
	return logins, nil
}

// IsPullRequest reports whether an issue record is really a pull request.
func IsPullRequest(i *github.Issue) bool {
	return i.PullRequestLinks != nil
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository name: expected 'owner/repo', got '%s'", repo)
	}
	return parts[0], parts[1], nil
}
