package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"commander-league/internal/constants"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimited = errors.New("rate limited by remote API")
)

// StatusError is returned for any other non-200 response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d from %s", e.Status, e.URL)
}

// httpClient is the shared fasthttp transport with per-host pacing.
type httpClient struct {
	client  *fasthttp.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger
}

func newHTTPClient(perSecond float64, timeout time.Duration, logger zerolog.Logger) *httpClient {
	return &httpClient{
		client: &fasthttp.Client{
			Name:                constants.UserAgent,
			MaxConnsPerHost:     8,
			ReadTimeout:         timeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		timeout: timeout,
		logger:  logger,
	}
}

func doRequest[T any](ctx context.Context, c *httpClient, url string) (*T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = start.Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("request failed")
		return nil, fmt.Errorf("request %s: %w", url, err)
	}

	status := resp.StatusCode()
	c.logger.Debug().
		Str("url", url).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Int("bytes", len(resp.Body())).
		Msg("remote API call")

	switch status {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case fasthttp.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
	default:
		return nil, &StatusError{URL: url, Status: status}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &result, nil
}
