package locate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

const (
	catalogRetryCount = 1
	// maxCatalogBytes caps index pages and API responses.
	maxCatalogBytes = 16 << 20
	userAgent       = "toolbelt"
)

var retryDelay = 250 * time.Millisecond

// errHTTPNotFound marks a 404 so sources can treat it as a legitimate miss.
var errHTTPNotFound = errors.New("http 404")

// RateLimitError indicates GitHub's API rate limit was hit.
type RateLimitError struct {
	Status    string
	Remaining *int
}

func (e *RateLimitError) Error() string {
	remainingText := "unknown"
	if e.Remaining != nil {
		remainingText = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf(messages.LocateRateLimitFmt, errs.ErrNetwork, e.Status, remainingText)
}

// Unwrap classifies rate limiting as a network failure.
func (e *RateLimitError) Unwrap() error { return errs.ErrNetwork }

type getter struct {
	client *http.Client
}

// get fetches url with one retry on transient failures. Every failure other
// than 404 wraps errs.ErrNetwork.
func (g getter) get(ctx context.Context, url string, accept string) ([]byte, error) {
	for attempt := 0; attempt <= catalogRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.LocateCreateRequestFmt, errs.ErrNetwork, url, err)
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := g.client.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				if !sleepCtx(ctx, retryDelay) {
					return nil, fmt.Errorf(messages.LocateRequestFailedFmt, errs.ErrNetwork, url, ctx.Err())
				}
				continue
			}
			return nil, fmt.Errorf(messages.LocateRequestFailedFmt, errs.ErrNetwork, url, err)
		}

		if resp.StatusCode != http.StatusOK {
			status, statusText := resp.StatusCode, resp.Status
			rateLimitErr := rateLimitErrorFromResponse(resp)
			_ = resp.Body.Close()
			if rateLimitErr != nil {
				return nil, rateLimitErr
			}
			if status == http.StatusNotFound {
				return nil, errHTTPNotFound
			}
			if shouldRetry(nil, status, attempt) {
				if !sleepCtx(ctx, retryDelay) {
					return nil, fmt.Errorf(messages.LocateRequestFailedFmt, errs.ErrNetwork, url, ctx.Err())
				}
				continue
			}
			return nil, fmt.Errorf(messages.LocateUnexpectedStatusFmt, errs.ErrNetwork, url, statusText)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf(messages.LocateReadBodyFmt, errs.ErrNetwork, url, err)
		}
		if len(data) > maxCatalogBytes {
			return nil, fmt.Errorf(messages.LocateResponseTooLargeFmt, errs.ErrNetwork, url, maxCatalogBytes)
		}
		return data, nil
	}
	return nil, fmt.Errorf(messages.LocateRequestFailedFmt, errs.ErrNetwork, url, errors.New(messages.LocateRetryBudgetExhausted))
}

func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Status: resp.Status}
	}
	// GitHub returns 403 Forbidden for unauthenticated exhaustion; confirm with rate-limit headers.
	if resp.StatusCode == http.StatusForbidden {
		remaining, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")))
		if err == nil && remaining == 0 {
			return &RateLimitError{Status: resp.Status, Remaining: &remaining}
		}
	}
	return nil
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= catalogRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
