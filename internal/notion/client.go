// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion is the client for the hosted workspace API. It defines the
// raw wire records as tagged unions, unrolls paginated endpoints and maps
// failed responses onto a small error taxonomy. Transient failures are
// retried by httputil.DoWithRetry.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/n2y/internal/httputil"
)

const (
	defaultBaseURL = "https://api.notion.com/v1/"
	apiVersion     = "2022-06-28"
	pageSize       = 100
)

// Client talks to the workspace API.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	maxRetries int
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests use httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" && u[len(u)-1] != '/' {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to install a
// caching transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPage fetches one page.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	var p Page
	if err := c.do(ctx, http.MethodGet, "pages/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}
	return &p, nil
}

// GetDatabase fetches one database's metadata and schema.
func (c *Client) GetDatabase(ctx context.Context, id string) (*Database, error) {
	var d Database
	if err := c.do(ctx, http.MethodGet, "databases/"+url.PathEscape(id), nil, nil, &d); err != nil {
		return nil, fmt.Errorf("getting database %s: %w", id, err)
	}
	return &d, nil
}

// GetBlock fetches one block.
func (c *Client) GetBlock(ctx context.Context, id string) (*Block, error) {
	var b Block
	if err := c.do(ctx, http.MethodGet, "blocks/"+url.PathEscape(id), nil, nil, &b); err != nil {
		return nil, fmt.Errorf("getting block %s: %w", id, err)
	}
	return &b, nil
}

// GetBlockChildren returns every child of a block, unrolling pagination.
func (c *Client) GetBlockChildren(ctx context.Context, id string) ([]Block, error) {
	path := "blocks/" + url.PathEscape(id) + "/children"
	blocks, err := paginate(func(cursor string) (*List[Block], error) {
		var page List[Block]
		err := c.do(ctx, http.MethodGet, path, cursorQuery(cursor), nil, &page)
		return &page, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting children of block %s: %w", id, err)
	}
	return blocks, nil
}

// QueryDatabase returns every row of a database matching filter, in the order
// given by sorts. Both may be nil.
func (c *Client) QueryDatabase(ctx context.Context, id string, filter any, sorts any) ([]Page, error) {
	path := "databases/" + url.PathEscape(id) + "/query"
	pages, err := paginate(func(cursor string) (*List[Page], error) {
		body := map[string]any{"page_size": pageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		if filter != nil {
			body["filter"] = filter
		}
		if sorts != nil {
			body["sorts"] = sorts
		}
		var page List[Page]
		err := c.do(ctx, http.MethodPost, path, nil, body, &page)
		return &page, err
	})
	if err != nil {
		return nil, fmt.Errorf("querying database %s: %w", id, err)
	}
	return pages, nil
}

// GetPagePropertyItems returns every item of a paginated page property such
// as a relation with more entries than fit inline.
func (c *Client) GetPagePropertyItems(ctx context.Context, pageID, propertyID string) ([]PropertyItem, error) {
	path := "pages/" + url.PathEscape(pageID) + "/properties/" + url.PathEscape(propertyID)
	items, err := paginate(func(cursor string) (*List[PropertyItem], error) {
		var page List[PropertyItem]
		err := c.do(ctx, http.MethodGet, path, cursorQuery(cursor), nil, &page)
		return &page, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting property %s of page %s: %w", propertyID, pageID, err)
	}
	return items, nil
}

// Download fetches the bytes behind a file URL. File URLs are pre-signed, so
// no authorization header is sent.
func (c *Client) Download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	resp, err := httputil.DoWithRetry(c.log.WithContext(ctx), c.http, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", fileURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(body)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download %s: %w", fileURL, err)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("method", method).Str("url", u).Msg("api request")

	resp, err := httputil.DoWithRetry(c.log.WithContext(ctx), c.http, req, c.maxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func parseError(status int, body []byte) error {
	var apiBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiBody); err == nil && IsAPIErrorCode(apiBody.Code) {
		return &APIError{Status: status, Code: apiBody.Code, Message: apiBody.Message}
	}
	return &HTTPError{Status: status, Body: string(body)}
}

func cursorQuery(cursor string) url.Values {
	q := url.Values{"page_size": {fmt.Sprint(pageSize)}}
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}
	return q
}

// paginate calls fetch with successive cursors until the server reports no
// more results, concatenating every page.
func paginate[T any](fetch func(cursor string) (*List[T], error)) ([]T, error) {
	var all []T
	cursor := ""
	for {
		page, err := fetch(cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}
