// Package http provides an HTTP implementation of ownmanual.ManualClient
// for the vendor's digital-manual API. Requests carry the session cookie
// string verbatim; the API has no other authentication mechanism.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fkarasek/ownmanual"
)

// DefaultBaseURL is the vendor's digital manual host.
const DefaultBaseURL = "https://digital-manual.skoda-auto.com"

// DefaultLanguage selects the manual's language variant.
const DefaultLanguage = "nl_NL"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 30 * time.Second

// userAgent mimics a desktop browser; the API rejects unknown clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Ensure Client implements ownmanual.ManualClient at compile time.
var _ ownmanual.ManualClient = (*Client)(nil)

// Client retrieves manual data over HTTP using session cookie
// authentication.
type Client struct {
	client   *http.Client
	baseURL  string
	language string
	cookie   string
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests to point the client
// at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithLanguage sets the manual language variant.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new Client authenticating with the given session
// cookie string.
func NewClient(cookie string, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		language: DefaultLanguage,
		cookie:   cookie,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// TopicTree fetches the table of contents rooted at the given key.
func (c *Client) TopicTree(ctx context.Context, key string) (*ownmanual.TOC, error) {
	params := url.Values{}
	params.Set("key", key)
	params.Set("displaytype", "desktop")
	params.Set("language", c.language)

	body, err := c.get(ctx, "/api/vw-topic/V1/topic", params)
	if err != nil {
		return nil, err
	}

	var toc ownmanual.TOC
	if err := json.Unmarshal(body, &toc); err != nil {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "malformed topic tree response for key %q: %v", key, err)
	}
	if len(toc.Trees) == 0 {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "topic tree for key %q contains no trees", key)
	}

	return &toc, nil
}

// TopicContent fetches the content of a single topic. The raw response
// bytes are preserved on the returned TopicContent.
func (c *Client) TopicContent(ctx context.Context, key string) (*ownmanual.TopicContent, error) {
	params := url.Values{}
	params.Set("key", key)
	params.Set("displaytype", "topic")
	params.Set("language", c.language)
	params.Set("query", "undefined")

	body, err := c.get(ctx, "/api/web/V6/topic", params)
	if err != nil {
		return nil, err
	}

	var content ownmanual.TopicContent
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "malformed topic response for key %q: %v", key, err)
	}
	content.Key = key
	content.Raw = body

	return &content, nil
}

// Image downloads an image referenced by topic content. Relative image
// URLs are resolved against the API host.
func (c *Client) Image(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "invalid image URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() {
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, ownmanual.Errorf(ownmanual.EINVALID, "invalid base URL %q: %v", c.baseURL, err)
		}
		u = base.ResolveReference(u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ownmanual.Errorf(ownmanual.EUNAVAILABLE, "image %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ownmanual.Errorf(ownmanual.EUNAVAILABLE, "%s: %v", reqURL, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, reqURL); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ownmanual.Errorf(ownmanual.EUNAUTHORIZED, "HTTP %d for %s: session cookies expired or missing", code, url)
	default:
		return ownmanual.Errorf(ownmanual.EUNAVAILABLE, "HTTP %d for %s", code, url)
	}
}
