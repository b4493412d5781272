// Package sink forwards admitted postings to the spreadsheet endpoint.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"internscout/internal/domain"
	"internscout/internal/scrape/util"
)

var ErrStatus = errors.New("sheet endpoint rejected posting")

// Forwarder delivers one posting.
type Forwarder interface {
	Forward(ctx context.Context, p domain.Posting) error
}

// Sheet POSTs each posting as JSON to a web-app endpoint that appends a row.
type Sheet struct {
	Endpoint string
	Timeout  time.Duration

	hc *http.Client
}

var _ Forwarder = (*Sheet)(nil)

func NewSheet(endpoint string, timeout time.Duration) *Sheet {
	return &Sheet{
		Endpoint: endpoint,
		Timeout:  timeout,
		hc:       &http.Client{Timeout: timeout},
	}
}

// Forward succeeds only on a 2xx response.
func (s *Sheet) Forward(ctx context.Context, p domain.Posting) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode posting: %w", err)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("post to sheet: %w", err)
	}
	defer res.Body.Close()

	preview, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: status %d body=%s", ErrStatus, res.StatusCode, util.Truncate(string(preview), 160))
	}
	return nil
}
