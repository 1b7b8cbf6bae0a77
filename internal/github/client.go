package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/repolens/gh-miner/pkg/models"
)

// Client wraps GitHub REST operations behind a single rate-limited
// request primitive. All remote calls made anywhere in the extractor go
// through Client.get so throttling stays centralized.
type Client struct {
	rest    *api.RESTClient
	limiter *RateLimiter
}

// NewClient creates a client using the ambient gh authentication.
func NewClient(limiter *RateLimiter) (*Client, error) {
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 0)
	}
	return &Client{rest: rest, limiter: limiter}, nil
}

// NewClientWithToken creates a client authenticated with a static token.
func NewClientWithToken(token string, limiter *RateLimiter) (*Client, error) {
	rest, err := api.NewRESTClient(api.ClientOptions{AuthToken: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 0)
	}
	return &Client{rest: rest, limiter: limiter}, nil
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *RateLimiter {
	return c.limiter
}

// get performs one rate-limited GET against the API and decodes the JSON
// response into out. Throttling surfaces as *RateLimitError before the
// call is made; transport failures propagate unchanged.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Reserve(ctx); err != nil {
		return err
	}

	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return c.wrapError(err)
	}
	defer resp.Body.Close()

	c.limiter.Update(resp.Header)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// wrapError converts go-gh errors to the extractor's error taxonomy.
func (c *Client) wrapError(err error) error {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	// Secondary rate limits come back as 403/429; the headers on the
	// error response still carry the quota state.
	c.limiter.Update(httpErr.Headers)
	if httpErr.StatusCode == http.StatusTooManyRequests ||
		(httpErr.StatusCode == http.StatusForbidden && c.limiter.Remaining() == 0) {
		return &RateLimitError{ResetAt: c.limiter.ResetAt(), Remaining: c.limiter.Remaining()}
	}

	apiErr := &APIError{
		StatusCode: httpErr.StatusCode,
		Message:    httpErr.Message,
	}
	if httpErr.RequestURL != nil {
		apiErr.URL = httpErr.RequestURL.String()
	}
	if apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusGone {
		return fmt.Errorf("%w: %s", ErrItemNotFound, apiErr)
	}
	return apiErr
}

// GetUser fetches a user's profile. Item payloads only carry the login;
// the display name needs this secondary lookup.
func (c *Client) GetUser(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, fmt.Sprintf("users/%s", login), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
