package bitmap

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// FileProvider reads images from disk. Relative paths and file:// URLs are
// resolved against Root.
type FileProvider struct {
	Root string
}

func (p FileProvider) Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(path) && p.Root != "" {
		path = filepath.Join(p.Root, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap %s: %w", url, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return img, nil
}

// StatusError is returned for a non-200 HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// HTTPProvider downloads images. With Progress set a byte progress bar is
// drawn on stderr for each download.
type HTTPProvider struct {
	Client   *http.Client
	Progress bool
}

func (p HTTPProvider) Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if p.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "fetch "+url)
		defer bar.Close()
		body = io.TeeReader(resp.Body, bar)
	}

	img, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return img, nil
}

// SchemeProvider sends http and https URLs to HTTP and everything else to
// File.
type SchemeProvider struct {
	File FileProvider
	HTTP HTTPProvider
}

// NewProvider resolves local paths under root and downloads remote ones.
func NewProvider(root string) *SchemeProvider {
	return &SchemeProvider{File: FileProvider{Root: root}}
}

func (p *SchemeProvider) Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return p.HTTP.Fetch(ctx, url)
	}
	return p.File.Fetch(ctx, url)
}
