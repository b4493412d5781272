package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client is the HTTP access shared by connectors: a plain http.Client behind
// the per-host limiter, sending browser-like headers.
type Client struct {
	HC      *http.Client
	Limiter *HostLimiter
}

func NewClient(timeout time.Duration, limiter *HostLimiter) *Client {
	return &Client{
		HC:      &http.Client{Timeout: timeout},
		Limiter: limiter,
	}
}

// Do waits for the limiter, sends req and fails on 4xx/5xx.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}
	if err := c.Limiter.WaitURL(req.Context(), req.URL.String()); err != nil {
		return nil, err
	}

	res, err := c.HC.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		preview, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		res.Body.Close()
		return nil, fmt.Errorf("%s %s: status %d body=%s", req.Method, req.URL, res.StatusCode, Truncate(string(preview), 160))
	}
	return res, nil
}

func (c *Client) Get(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	return c.Do(req)
}

func (c *Client) GetJSON(ctx context.Context, u string, v any) error {
	res, err := c.Get(ctx, u, "application/json")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

func (c *Client) PostJSON(ctx context.Context, u string, body any, header http.Header, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

func (c *Client) GetDocument(ctx context.Context, u string) (*goquery.Document, error) {
	res, err := c.Get(ctx, u, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", u, err)
	}
	return doc, nil
}
