package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

const (
	// DefaultMaxDownloadBytes caps a single artifact download.
	DefaultMaxDownloadBytes = int64(1 << 30)
	downloadRetryCount      = 1
)

var downloadRetryBackoff = 250 * time.Millisecond

// download writes url to dest, retrying once on network errors and 5xx responses.
func (f *Fetcher) download(ctx context.Context, url string, dest *os.File) error {
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, err)
		}
		req.Header.Set("User-Agent", "toolbelt")
		resp, err := f.client.Do(req)
		if err != nil {
			if shouldRetryDownload(ctx, attempt, err, 0) {
				f.sleep(downloadRetryBackoff)
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.FetchDownloadTimeoutFmt, errs.ErrDownloadFailed, url)
			}
			return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchDownload404Fmt, errs.ErrDownloadFailed, url)
		}
		if resp.StatusCode != http.StatusOK {
			status, statusText := resp.StatusCode, resp.Status
			_ = resp.Body.Close()
			if shouldRetryDownload(ctx, attempt, nil, status) {
				f.sleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.FetchDownloadStatusFmt, errs.ErrDownloadFailed, url, statusText)
		}

		if err := dest.Truncate(0); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, err)
		}

		n, copyErr := io.Copy(dest, io.LimitReader(resp.Body, f.maxBytes+1))
		_ = resp.Body.Close()
		if copyErr != nil {
			if shouldRetryDownload(ctx, attempt, copyErr, 0) {
				f.sleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, copyErr)
		}
		if n > f.maxBytes {
			return fmt.Errorf(messages.FetchDownloadTooLargeFmt, errs.ErrDownloadFailed, url, f.maxBytes)
		}
		return nil
	}
	return fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, url, errors.New(messages.LocateRetryBudgetExhausted))
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetryDownload(ctx context.Context, attempt int, err error, statusCode int) bool {
	if attempt >= downloadRetryCount || ctx.Err() != nil {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

// verifyChecksum compares the sha256 of path with expected.
func verifyChecksum(path string, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf(messages.FetchHashFileFmt, errs.ErrDownloadFailed, path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf(messages.FetchHashFileFmt, errs.ErrDownloadFailed, path, err)
	}
	actual := hex.EncodeToString(hasher.Sum(nil))
	if actual != strings.ToLower(strings.TrimSpace(expected)) {
		return fmt.Errorf(messages.FetchChecksumMismatchFmt, errs.ErrDownloadFailed, path, expected, actual)
	}
	return nil
}
