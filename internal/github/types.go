// Package github provides the issue tracker client over the GitHub REST API.
//
// The sync reconciler only ever creates, comments on, and closes issues;
// it never reads tracker state back (sync state is derived locally from
// the mapping document). The client surface is sized accordingly.
package github

import (
	"net/http"
	"time"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient failures
	// (network errors, 429, 5xx).
	MaxRetries = 3

	// InitialRetryDelay seeds the exponential backoff between retries.
	InitialRetryDelay = time.Second
)

// Client provides methods to interact with the GitHub REST API.
type Client struct {
	Token      string        // GitHub personal access token
	Owner      string        // Repository owner (user or org)
	Repo       string        // Repository name
	BaseURL    string        // API base URL (default: https://api.github.com)
	HTTPClient *http.Client  // Optional custom HTTP client
	RetryDelay time.Duration // Initial backoff interval (default: InitialRetryDelay)
}

// Issue represents an issue from the GitHub API.
type Issue struct {
	ID        int        `json:"id"`     // Global unique ID
	Number    int        `json:"number"` // Repository-scoped issue number
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"` // "open" or "closed"
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Labels    []Label    `json:"labels,omitempty"`
	User      *User      `json:"user,omitempty"` // Author
	HTMLURL   string     `json:"html_url,omitempty"`
}

// Label represents a GitHub label.
type Label struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// User represents a GitHub user.
type User struct {
	ID      int    `json:"id"`
	Login   string `json:"login"`
	HTMLURL string `json:"html_url,omitempty"`
}

// Comment represents an issue comment.
type Comment struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

// LabelNames extracts label name strings from a slice of Label structs.
func LabelNames(labels []Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return names
}
