package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/pkg/errors"
)

const (
	fetchAttempts = 3
	fetchBackoff  = time.Second
	userAgent     = "Mozilla/5.0 (Windows NT 6.1) AppleWebKit/537.11 (KHTML, like Gecko) Chrome/23.0.1271.1 Safari/537.11"
)

// Fetcher downloads remote images into a local temp directory.
// Filenames are deterministic so repeated fetches of the same URL reuse
// the same path.
type Fetcher struct {
	tempDir    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates an image fetcher writing into tempDir
func NewFetcher(tempDir string, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		tempDir:    tempDir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// FileName derives the local filename from the URL path basename,
// ignoring any query string.
func FileName(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	name := parts[len(parts)-1]
	return strings.SplitN(name, "?", 2)[0]
}

// Fetch downloads the image once and returns its local path. The temp
// directory is created if absent; an unwritable directory is an ErrStorage.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	localPath := filepath.Join(f.tempDir, FileName(rawURL))

	if err := os.MkdirAll(f.tempDir, 0o777); err != nil {
		return "", &errors.ErrStorage{Path: f.tempDir, Message: err.Error()}
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(localPath, body, 0o644); err != nil {
		return "", &errors.ErrStorage{Path: f.tempDir, Message: "must be writable"}
	}

	return localPath, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(fetchBackoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create image request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			f.logger.Warn("Image fetch failed", zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("image fetch returned %d for %s", resp.StatusCode, rawURL)
			f.logger.Warn("Image fetch returned non-200", zap.String("url", rawURL), zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("image fetch failed after %d attempts: %w", fetchAttempts, lastErr)
}
