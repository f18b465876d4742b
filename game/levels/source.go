package levels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrLevelNotFound = errors.New("level not found")

// maxLevelBytes bounds a single level download
const maxLevelBytes = 1 << 20

// Source fetches raw level text by 1-based level number
type Source interface {
	Fetch(ctx context.Context, n int) (string, error)
}

// FileName returns the file name of level n
func FileName(n int) string {
	return fmt.Sprintf("level%d.txt", n)
}

// DirSource reads level{n}.txt files from a directory
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, n int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, FileName(n)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrLevelNotFound, FileName(n))
		}
		return "", fmt.Errorf("failed to read level %d: %w", n, err)
	}
	return string(data), nil
}

func (s DirSource) String() string {
	return s.Dir
}

// HTTPSource fetches {BaseURL}/levels/level{n}.txt
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source with a client that times out
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, n int) (string, error) {
	url := strings.TrimRight(s.BaseURL, "/") + "/levels/" + FileName(n)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch level %d: %w", n, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrLevelNotFound, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLevelBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read level %d: %w", n, err)
	}
	return string(data), nil
}

func (s *HTTPSource) String() string {
	return s.BaseURL
}
