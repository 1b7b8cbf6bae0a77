package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/repolens/gh-miner/pkg/models"
)

const commentsPerPage = 100

// GetIssue fetches a single issue by number. The payload may describe a
// pull request; callers check IsPullRequest.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	var issue models.Issue
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)
	if err := c.get(ctx, endpoint, &issue); err != nil {
		return nil, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return &issue, nil
}

// ListIssueComments fetches all comments on an issue using pagination.
func (c *Client) ListIssueComments(ctx context.Context, org, repo string, number int) ([]models.Comment, error) {
	var allComments []models.Comment
	page := 1

	for {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(commentsPerPage))
		params.Set("page", strconv.Itoa(page))

		endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments?%s", org, repo, number, params.Encode())

		var comments []models.Comment
		if err := c.get(ctx, endpoint, &comments); err != nil {
			return nil, fmt.Errorf("failed to list comments for #%d: %w", number, err)
		}

		allComments = append(allComments, comments...)

		if len(comments) < commentsPerPage {
			break
		}
		page++
	}

	return allComments, nil
}
