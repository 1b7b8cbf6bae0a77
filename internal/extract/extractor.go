// Package extract projects fetched GitHub items onto the configured
// field sets. Accessors are pure except where a field needs a secondary
// API call, which always goes through the rate-limited source.
package extract

import (
	"context"
	"fmt"

	"github.com/repolens/gh-miner/pkg/models"
)

// Source is the rate-limited view of the upstream API shared by the
// extractor and the pipeline.
type Source interface {
	GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error)
	GetPullRequest(ctx context.Context, org, repo string, number int) (*models.PullRequest, error)
	ListIssueComments(ctx context.Context, org, repo string, number int) ([]models.Comment, error)
	ListPullCommits(ctx context.Context, org, repo string, number int) ([]models.Commit, error)
	GetCommit(ctx context.Context, org, repo, sha string) (*models.Commit, error)
	GetUser(ctx context.Context, login string) (*models.User, error)
}

// Extractor pulls configured fields out of fetched items.
type Extractor struct {
	src         Source
	org         string
	repo        string
	stateFilter string
}

// New creates an extractor bound to one repository. stateFilter is the
// configured item state filter (open, closed, or all).
func New(src Source, org, repo, stateFilter string) *Extractor {
	return &Extractor{src: src, org: org, repo: repo, stateFilter: stateFilter}
}

// Issue extracts the requested fields from an issue, plus the mandatory
// item number.
func (e *Extractor) Issue(ctx context.Context, issue *models.Issue, fields []string) (map[string]any, error) {
	out := map[string]any{FieldItemNumber: issue.Number}

	for _, name := range fields {
		accessor, ok := issueDispatch[name]
		if !ok {
			return nil, fmt.Errorf("unknown issue field %q", name)
		}
		val, err := accessor(ctx, e, issue)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s for #%d: %w", name, issue.Number, err)
		}
		out[name] = val
	}

	return out, nil
}

// PullRequest extracts the requested PR fields plus, when commit fields
// are configured, the fields of the PR's last commit. The item number
// and merged flag are always collected. Unmerged PRs only get the
// mandatory fields unless the state filter is "open"; their data is
// noise for mining purposes.
func (e *Extractor) PullRequest(
	ctx context.Context, pr *models.PullRequest, prFields, commitFields []string,
) (map[string]any, error) {
	out := map[string]any{
		FieldItemNumber: pr.Number,
		FieldPRMerged:   pr.Merged,
	}

	if !pr.Merged && e.stateFilter != "open" {
		return out, nil
	}

	for _, name := range prFields {
		if name == FieldPRMerged {
			continue
		}
		accessor, ok := prDispatch[name]
		if !ok {
			return nil, fmt.Errorf("unknown pr field %q", name)
		}
		val, err := accessor(ctx, e, pr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s for #%d: %w", name, pr.Number, err)
		}
		out[name] = val
	}

	if len(commitFields) > 0 {
		commit, err := e.lastCommit(ctx, pr.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch last commit for #%d: %w", pr.Number, err)
		}
		// Commits that touch no files carry nothing worth extracting.
		if commit != nil && len(commit.Files) > 0 {
			commitOut, err := e.Commit(commit, commitFields)
			if err != nil {
				return nil, err
			}
			for name, val := range commitOut {
				out[name] = val
			}
		}
	}

	return out, nil
}

// Commit extracts the requested fields from a commit.
func (e *Extractor) Commit(commit *models.Commit, fields []string) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, name := range fields {
		accessor, ok := commitDispatch[name]
		if !ok {
			return nil, fmt.Errorf("unknown commit field %q", name)
		}
		out[name] = accessor(commit)
	}
	return out, nil
}

// userName resolves a login to a display name via the user endpoint.
func (e *Extractor) userName(ctx context.Context, login string) (string, error) {
	if login == "" {
		return "NaN", nil
	}
	user, err := e.src.GetUser(ctx, login)
	if err != nil {
		return "", err
	}
	return cleanString(user.Name), nil
}

// lastCommit returns the final commit of a pull request with its file
// list populated, or nil when the PR has no commits.
func (e *Extractor) lastCommit(ctx context.Context, number int) (*models.Commit, error) {
	commits, err := e.src.ListPullCommits(ctx, e.org, e.repo, number)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}

	// The list payload omits files; fetch the full commit.
	return e.src.GetCommit(ctx, e.org, e.repo, commits[len(commits)-1].SHA)
}
