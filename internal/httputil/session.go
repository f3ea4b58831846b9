// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the HTTP sessions used to talk to the map site.
// A session is an *http.Client with its own cookie jar and a transport that
// stamps browser-like headers on every request.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// BrowserHeaders returns the fixed headers sent with every request. The
// site root doubles as the Referer.
func BrowserHeaders(cfg types.HTTPConfig) http.Header {
	h := make(http.Header)
	if cfg.UserAgent != "" {
		h.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.BaseURL != "" {
		h.Set("Referer", cfg.BaseURL)
	}
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}

// headerTransport adds default headers to requests that do not already
// carry them.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header[k] = v
		}
	}
	return t.base.RoundTrip(req)
}

// NewSession returns a client with an empty cookie jar. Callers create one
// per outline file and release it with CloseSession.
func NewSession(cfg types.HTTPConfig) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{
		Jar: jar,
		Transport: &headerTransport{
			base:    base,
			headers: BrowserHeaders(cfg),
		},
	}, nil
}

// CloseSession drops the client's idle connections.
func CloseSession(client *http.Client) {
	client.CloseIdleConnections()
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Get issues a GET for url bounded by timeout. The timeout covers reading
// the body; it is released when the body is closed. A zero timeout leaves
// only ctx in control.
func Get(ctx context.Context, client *http.Client, url string, timeout time.Duration) (*http.Response, error) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}
