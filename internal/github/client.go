package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cenkalti/backoff/v4"

	"github.com/taskflow-ai/taskflow/internal/types"
)

// NewClient creates a new GitHub client.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		BaseURL: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		RetryDelay: InitialRetryDelay,
	}
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
		RetryDelay: c.RetryDelay,
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or
// GitHub Enterprise).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    baseURL,
		HTTPClient: c.HTTPClient,
		RetryDelay: c.RetryDelay,
	}
}

// repoPath returns the "owner/repo" path segment.
func (c *Client) repoPath() string {
	return c.Owner + "/" + c.Repo
}

func (c *Client) issuesURL() string {
	return c.BaseURL + "/repos/" + c.repoPath() + "/issues"
}

func (c *Client) issueURL(number int) string {
	return c.issuesURL() + "/" + strconv.Itoa(number)
}

// doRequest performs an HTTP request with authentication. Transient
// failures (network errors, 429, rate-limited 403, 5xx) are retried with
// exponential backoff; other API errors abort immediately.
func (c *Client) doRequest(ctx context.Context, method, urlStr string, body interface{}) ([]byte, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var respBody []byte
	attempt := func() error {
		var reqBody io.Reader
		if jsonBody != nil {
			reqBody = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		const maxResponseSize = 10 * 1024 * 1024
		respBody, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case isRetryableStatus(resp):
			return fmt.Errorf("transient API error: %s (status %d)", string(respBody), resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("API error: %s (status %d)", string(respBody), resp.StatusCode))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.RetryDelay
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = InitialRetryDelay
	}
	if err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, MaxRetries), ctx)); err != nil {
		return nil, err
	}
	return respBody, nil
}

// isRetryableStatus reports whether the response indicates a transient
// condition. GitHub signals rate limiting with 429, or with 403 plus
// X-RateLimit-Remaining: 0.
func isRetryableStatus(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// CreateIssue creates a new issue in GitHub.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	reqBody := map[string]interface{}{
		"title": title,
		"body":  body,
	}
	if len(labels) > 0 {
		reqBody["labels"] = labels
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, c.issuesURL(), reqBody)
	if err != nil {
		return nil, &types.TrackerError{Op: "create", Err: err}
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, &types.TrackerError{Op: "create", Err: fmt.Errorf("failed to parse create response: %w", err)}
	}

	return &issue, nil
}

// UpdateIssue updates an existing issue. GitHub uses PATCH for issue
// updates.
func (c *Client) UpdateIssue(ctx context.Context, number int, updates map[string]interface{}) (*Issue, error) {
	respBody, err := c.doRequest(ctx, http.MethodPatch, c.issueURL(number), updates)
	if err != nil {
		return nil, &types.TrackerError{Op: "update", Err: err}
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, &types.TrackerError{Op: "update", Err: fmt.Errorf("failed to parse update response: %w", err)}
	}

	return &issue, nil
}

// CommentIssue posts a comment on an issue.
func (c *Client) CommentIssue(ctx context.Context, number int, body string) (*Comment, error) {
	reqBody := map[string]interface{}{"body": body}
	respBody, err := c.doRequest(ctx, http.MethodPost, c.issueURL(number)+"/comments", reqBody)
	if err != nil {
		return nil, &types.TrackerError{Op: "comment", Err: err}
	}

	var comment Comment
	if err := json.Unmarshal(respBody, &comment); err != nil {
		return nil, &types.TrackerError{Op: "comment", Err: fmt.Errorf("failed to parse comment response: %w", err)}
	}

	return &comment, nil
}

// CloseIssue closes an issue, posting an explanatory comment first. A
// comment failure does not block the close; the state change is the part
// that matters for sync correctness.
func (c *Client) CloseIssue(ctx context.Context, number int, comment string) (*Issue, error) {
	if comment != "" {
		// Comment failure does not block the close.
		_, _ = c.CommentIssue(ctx, number, comment)
	}

	respBody, err := c.doRequest(ctx, http.MethodPatch, c.issueURL(number), map[string]interface{}{
		"state": "closed",
	})
	if err != nil {
		return nil, &types.TrackerError{Op: "close", Err: err}
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, &types.TrackerError{Op: "close", Err: fmt.Errorf("failed to parse close response: %w", err)}
	}

	return &issue, nil
}

// FetchIssue retrieves a single issue by its number.
func (c *Client) FetchIssue(ctx context.Context, number int) (*Issue, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, c.issueURL(number), nil)
	if err != nil {
		return nil, &types.TrackerError{Op: "fetch", Err: err}
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, &types.TrackerError{Op: "fetch", Err: fmt.Errorf("failed to parse issue response: %w", err)}
	}

	return &issue, nil
}
