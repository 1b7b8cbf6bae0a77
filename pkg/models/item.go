package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents a GitHub account. Name is only populated by the
// user endpoint; list/item payloads carry the login alone.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// PullRequestLink marks an issue payload as belonging to a pull request.
type PullRequestLink struct {
	URL string `json:"url"`
}

// Issue represents a GitHub issue with the fields the extractor consumes.
type Issue struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	State       string           `json:"state"`
	User        User             `json:"user"`
	CreatedAt   time.Time        `json:"created_at"`
	ClosedAt    *time.Time       `json:"closed_at"`
	HTMLURL     string           `json:"html_url"`
	PullRequest *PullRequestLink `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether the issue payload is actually a pull
// request. The issues endpoint returns both.
func (i *Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	Merged    bool       `json:"merged"`
	User      User       `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`
	HTMLURL   string     `json:"html_url"`
}

// Comment represents a comment on an issue or pull request.
type Comment struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// CommitSignature is the author or committer block of a git commit.
type CommitSignature struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// CommitDetail is the git-level part of a commit payload.
type CommitDetail struct {
	Message   string          `json:"message"`
	Author    CommitSignature `json:"author"`
	Committer CommitSignature `json:"committer"`
}

// CommitFile describes one file touched by a commit. Only the single
// commit endpoint includes files; list payloads omit them.
type CommitFile struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Status    string `json:"status"`
	Patch     string `json:"patch"`
}

// Commit represents a commit as returned by the commits endpoints.
type Commit struct {
	SHA    string       `json:"sha"`
	Commit CommitDetail `json:"commit"`
	Files  []CommitFile `json:"files,omitempty"`
}

// ParseRepo splits "owner/repo" into its two parts.
func ParseRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}
