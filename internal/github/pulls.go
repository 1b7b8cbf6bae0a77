package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/repolens/gh-miner/pkg/models"
)

const commitsPerPage = 100

// GetPullRequest fetches a single pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, org, repo string, number int) (*models.PullRequest, error) {
	var pr models.PullRequest
	endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d", org, repo, number)
	if err := c.get(ctx, endpoint, &pr); err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return &pr, nil
}

// ListPullCommits fetches all commits on a pull request using pagination.
// List payloads omit file data; use GetCommit for that.
func (c *Client) ListPullCommits(ctx context.Context, org, repo string, number int) ([]models.Commit, error) {
	var allCommits []models.Commit
	page := 1

	for {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(commitsPerPage))
		params.Set("page", strconv.Itoa(page))

		endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d/commits?%s", org, repo, number, params.Encode())

		var commits []models.Commit
		if err := c.get(ctx, endpoint, &commits); err != nil {
			return nil, fmt.Errorf("failed to list commits for #%d: %w", number, err)
		}

		allCommits = append(allCommits, commits...)

		if len(commits) < commitsPerPage {
			break
		}
		page++
	}

	return allCommits, nil
}

// GetCommit fetches a single commit with its file list.
func (c *Client) GetCommit(ctx context.Context, org, repo, sha string) (*models.Commit, error) {
	var commit models.Commit
	endpoint := fmt.Sprintf("repos/%s/%s/commits/%s", org, repo, sha)
	if err := c.get(ctx, endpoint, &commit); err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	return &commit, nil
}
