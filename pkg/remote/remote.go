// Package remote downloads the parts workbook from a document-sharing link.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxDocumentSizeBytes caps how much of a remote document is read.
const MaxDocumentSizeBytes int64 = 32 << 20

var ErrDocumentTooLarge = errors.New("remote document exceeds size limit")

type Config struct {
	URL     string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	docURL     string
	token      string
	maxBytes   int64
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	docURL := strings.TrimSpace(cfg.URL)
	if docURL == "" {
		return nil, errors.New("remote document url is required")
	}
	if _, err := url.ParseRequestURI(docURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		docURL:   docURL,
		token:    strings.TrimSpace(cfg.Token),
		maxBytes: MaxDocumentSizeBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Fetch downloads the whole document.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil remote client")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build document request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute document request: %w", err)
	}
	defer resp.Body.Close()

	// One extra byte tells a document that is exactly the limit from one that
	// is over it.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("document http status=%d body=%s", resp.StatusCode, snippet(raw))
	}
	if int64(len(raw)) > c.maxBytes {
		return nil, fmt.Errorf("%w: limit=%d", ErrDocumentTooLarge, c.maxBytes)
	}
	return raw, nil
}

func snippet(raw []byte) string {
	const max = 256
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
