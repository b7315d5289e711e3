// Package factsheet retrieves fund fact-sheet PDFs linked from provider
// spreadsheets, extracts their text and merges the parsed period returns
// into the ratings store.
package factsheet

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/httpclient"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"golang.org/x/time/rate"
)

// Fetcher implements interfaces.PDFFetcher over HTTP with a request
// timeout, a body size cap and rate limiting.
type Fetcher struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int
	logger      arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFFetcher = (*Fetcher)(nil)

// NewFetcher creates a new fact-sheet fetcher
func NewFetcher(config *common.FetchConfig, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		httpClient:  httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		limiter:     rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit),
		userAgent:   config.UserAgent,
		maxBodySize: config.MaxBodySize,
		logger:      logger,
	}
}

// WithHTTPClient sets a custom HTTP client.
func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.httpClient = client
	return f
}

// Fetch downloads one remote PDF.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBodySize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("Fetched fact sheet")
	return body, nil
}
