package github

import (
	"context"
	"testing"
)

func TestSplitRepoValidation(t *testing.T) {
	tests := []struct {
		name       string
		repo       string
		shouldFail bool
		owner      string
		repoName   string
	}{
		{"valid format", "owner/repo", false, "owner", "repo"},
		{"missing slash", "ownerrepo", true, "", ""},
		{"empty owner", "/repo", true, "", ""},
		{"empty repo", "owner/", true, "", ""},
		{"empty string", "", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := splitRepo(tt.repo)
			if tt.shouldFail {
				if err == nil {
					t.Errorf("splitRepo(%q) expected error, got none", tt.repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitRepo(%q) unexpected error: %v", tt.repo, err)
			}
			if owner != tt.owner || name != tt.repoName {
				t.Errorf("splitRepo(%q) = (%q, %q), want (%q, %q)",
					tt.repo, owner, name, tt.owner, tt.repoName)
			}
		})
	}
}

func TestCloseIssueRejectsInvalidRepo(t *testing.T) {
	client := &Client{client: nil, limiter: newDefaultLimiter()}

	if err := client.CloseIssue(context.Background(), "not-a-repo", 1); err == nil {
		t.Error("Expected error for invalid repository name")
	}
}
