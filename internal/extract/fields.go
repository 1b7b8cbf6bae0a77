package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/repolens/gh-miner/pkg/models"
)

// Category identifies which kind of item a field can be extracted from.
type Category string

const (
	CategoryCommit Category = "commit"
	CategoryIssue  Category = "issue"
	CategoryPR     Category = "pr"
)

// Field names that are always collected regardless of configuration.
const (
	FieldItemNumber = "item_number"
	FieldPRMerged   = "pr_merged"
)

// timeFormat renders timestamps the way the output document expects,
// e.g. "01/31/24, 03:04:05 PM".
const timeFormat = "01/02/06, 03:04:05 PM"

// commentSeparator joins the bodies of an item's comments into one string.
const commentSeparator = " =||= "

type issueAccessor func(ctx context.Context, e *Extractor, issue *models.Issue) (any, error)

type prAccessor func(ctx context.Context, e *Extractor, pr *models.PullRequest) (any, error)

type commitAccessor func(commit *models.Commit) any

// Dispatch tables mapping field names to accessors. Adding a key here is
// all it takes to make a new field configurable.
var (
	commitDispatch = map[string]commitAccessor{
		"commit_author_name": func(c *models.Commit) any { return c.Commit.Author.Name },
		"committer":          func(c *models.Commit) any { return c.Commit.Committer.Name },
		"commit_date":        func(c *models.Commit) any { return formatTime(c.Commit.Author.Date) },
		"commit_files":       commitFiles,
		"commit_message":     func(c *models.Commit) any { return cleanString(c.Commit.Message) },
		"commit_sha":         func(c *models.Commit) any { return c.SHA },
	}

	issueDispatch = map[string]issueAccessor{
		"issue_body": func(_ context.Context, _ *Extractor, i *models.Issue) (any, error) {
			return cleanString(i.Body), nil
		},
		"issue_closed": func(_ context.Context, _ *Extractor, i *models.Issue) (any, error) {
			return closedTime(i.ClosedAt), nil
		},
		"issue_comments": issueComments,
		"issue_title": func(_ context.Context, _ *Extractor, i *models.Issue) (any, error) {
			return i.Title, nil
		},
		"issue_userlogin": func(_ context.Context, _ *Extractor, i *models.Issue) (any, error) {
			return cleanString(i.User.Login), nil
		},
		"issue_username": func(ctx context.Context, e *Extractor, i *models.Issue) (any, error) {
			return e.userName(ctx, i.User.Login)
		},
	}

	prDispatch = map[string]prAccessor{
		"pr_body": func(_ context.Context, _ *Extractor, pr *models.PullRequest) (any, error) {
			return cleanString(pr.Body), nil
		},
		"pr_closed": func(_ context.Context, _ *Extractor, pr *models.PullRequest) (any, error) {
			return closedTime(pr.ClosedAt), nil
		},
		FieldPRMerged: func(_ context.Context, _ *Extractor, pr *models.PullRequest) (any, error) {
			return pr.Merged, nil
		},
		"pr_title": func(_ context.Context, _ *Extractor, pr *models.PullRequest) (any, error) {
			return pr.Title, nil
		},
		"pr_userlogin": func(_ context.Context, _ *Extractor, pr *models.PullRequest) (any, error) {
			return cleanString(pr.User.Login), nil
		},
		"pr_username": func(ctx context.Context, e *Extractor, pr *models.PullRequest) (any, error) {
			return e.userName(ctx, pr.User.Login)
		},
	}
)

// ValidFields returns the sorted field names available for a category.
func ValidFields(cat Category) []string {
	var names []string
	switch cat {
	case CategoryCommit:
		for name := range commitDispatch {
			names = append(names, name)
		}
	case CategoryIssue:
		for name := range issueDispatch {
			names = append(names, name)
		}
	case CategoryPR:
		for name := range prDispatch {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ValidateFields checks every name against the category's dispatch table
// so an unknown field fails at startup, not mid-extraction.
func ValidateFields(cat Category, names []string) error {
	for _, name := range names {
		var ok bool
		switch cat {
		case CategoryCommit:
			_, ok = commitDispatch[name]
		case CategoryIssue:
			_, ok = issueDispatch[name]
		case CategoryPR:
			_, ok = prDispatch[name]
		}
		if !ok {
			return fmt.Errorf("unknown %s field %q (valid: %s)",
				cat, name, strings.Join(ValidFields(cat), ", "))
		}
	}
	return nil
}

// cleanString strips carriage returns, newlines, and surrounding
// whitespace. Empty input becomes "NaN" so the output document has no
// empty cells.
func cleanString(s string) string {
	if s == "" {
		return "NaN"
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

// formatTime renders a timestamp in the output document's format.
func formatTime(t time.Time) string {
	return t.Format(timeFormat)
}

// closedTime renders the closing timestamp of an item, or "NaN" when the
// item is still open.
func closedTime(t *time.Time) string {
	if t == nil {
		return "NaN"
	}
	return formatTime(*t)
}

// issueComments collects every comment body on an issue into a single
// delimited string. The comment listing is a secondary API call routed
// through the rate-limited client.
func issueComments(ctx context.Context, e *Extractor, issue *models.Issue) (any, error) {
	comments, err := e.src.ListIssueComments(ctx, e.org, e.repo, issue.Number)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return "NaN", nil
	}

	bodies := make([]string, len(comments))
	for i, c := range comments {
		bodies[i] = strings.TrimSpace(c.Body)
	}
	return cleanString(strings.Join(bodies, commentSeparator)), nil
}

// commitFiles summarizes the files touched by a commit.
func commitFiles(c *models.Commit) any {
	fileList := make([]string, 0, len(c.Files))
	var additions, changes, removals int
	var patchText, statusStr strings.Builder

	for _, f := range c.Files {
		fileList = append(fileList, f.Filename)
		additions += f.Additions
		changes += f.Changes
		removals += f.Deletions
		patchText.WriteString(f.Patch + ", ")
		statusStr.WriteString(f.Status + ", ")
	}

	return map[string]any{
		"file_list":  fileList,
		"additions":  additions,
		"changes":    changes,
		"patch_text": cleanString(patchText.String()),
		"removals":   removals,
		"status":     cleanString(`"` + statusStr.String() + `"`),
	}
}
