// Package crossref provides a minimal, rate-limited client for the Crossref
// works API. It is used only as a fallback count signal, never required for
// correctness.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/refcheck/internal/catalog"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the per-request timeout. Lookups are best-effort;
	// a slow API must not stall the batch.
	DefaultTimeout = 15 * time.Second

	// RateLimit keeps us inside Crossref's polite-pool expectations.
	RateLimit = 2.0
)

// Client is a rate-limited HTTP client for the Crossref works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact email sent with each request, which routes
// traffic into Crossref's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-200 response from the Crossref API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crossref: %s (status %d)", e.Message, e.StatusCode)
}

type worksResponse struct {
	Message struct {
		ReferenceCount *int `json:"reference-count"`
		Items          []struct {
			DOI            string   `json:"DOI"`
			ReferenceCount *int     `json:"reference-count"`
			Title          []string `json:"title"`
		} `json:"items"`
	} `json:"message"`
}

// ReferenceCount looks up a work's declared reference count, by DOI when
// available, else by title search. It returns the count plus a source note
// ("crossref_by_doi", "crossref_by_title", "crossref_not_found", or
// "crossref_error: ..."); count is nil unless a lookup succeeded.
func (c *Client) ReferenceCount(ctx context.Context, doi, title string) (*int, string) {
	if doi != "" {
		count, err := c.countByDOI(ctx, catalog.NormalizeDOI(doi))
		if err == nil && count != nil {
			return count, "crossref_by_doi"
		}
		if err != nil {
			if _, ok := err.(*APIError); !ok {
				return nil, fmt.Sprintf("crossref_error: %v", err)
			}
		}
	}

	if title != "" {
		count, err := c.countByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Sprintf("crossref_error: %v", err)
		}
		if count != nil {
			return count, "crossref_by_title"
		}
	}

	return nil, "crossref_not_found"
}

func (c *Client) countByDOI(ctx context.Context, doi string) (*int, error) {
	var resp worksResponse
	if err := c.get(ctx, "/works/"+url.PathEscape(doi), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Message.ReferenceCount, nil
}

func (c *Client) countByTitle(ctx context.Context, title string) (*int, error) {
	params := url.Values{
		"query.title": {title},
		"rows":        {"1"},
		"select":      {"DOI,reference-count,title,author,issued"},
	}
	var resp worksResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Message.Items) == 0 {
		return nil, nil
	}
	return resp.Message.Items[0].ReferenceCount, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	u := c.baseURL + path
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) userAgent() string {
	contact := c.mailto
	if contact == "" {
		contact = "mailto:anonymous@example.com"
	}
	return fmt.Sprintf("refcheck/verify-citations (+%s)", contact)
}
