package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neon/webtidy/utils"
	"github.com/pterm/pterm"
)

// Download is the outcome of fetching one asset.
type Download struct {
	URL          string
	Path         string
	Bytes        int64
	MagicChecked bool
	Err          error
}

// Downloader fetches assets into a target directory.
type Downloader struct {
	Client    *http.Client
	TargetDir string
	Timeout   time.Duration
	fs        utils.FileSystem
	logger    *pterm.Logger
}

// NewDownloader creates a Downloader. A zero timeout leaves requests bounded only by ctx.
func NewDownloader(fs utils.FileSystem, targetDir string, timeout time.Duration, logger *pterm.Logger) *Downloader {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Downloader{
		Client:    &http.Client{},
		TargetDir: targetDir,
		Timeout:   timeout,
		fs:        fs,
		logger:    logger,
	}
}

// FileNameFromURL returns the last path segment of rawURL.
func FileNameFromURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", ErrEmptyURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("no file name in URL %q", rawURL)
	}
	return name, nil
}

// FetchAll downloads every URL in order. Failures are recorded per download.
func (d *Downloader) FetchAll(ctx context.Context, urls []string) []Download {
	downloads := make([]Download, 0, len(urls))
	for _, rawURL := range urls {
		downloads = append(downloads, d.Fetch(ctx, rawURL))
	}
	return downloads
}

// Fetch downloads one URL into the target directory and verifies its magic bytes. A
// file with a bad signature is still kept on disk; the error reports the mismatch.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) Download {
	download := Download{URL: rawURL}

	name, err := FileNameFromURL(rawURL)
	if err != nil {
		download.Err = err
		return download
	}
	download.Path = filepath.Join(d.TargetDir, name)

	data, err := d.get(ctx, rawURL)
	if err != nil {
		download.Err = err
		return download
	}

	if err := d.fs.MkdirAll(d.TargetDir, 0755); err != nil {
		download.Err = err
		return download
	}
	if err := d.fs.WriteFileAtomic(download.Path, data, 0644); err != nil {
		download.Err = err
		return download
	}
	download.Bytes = int64(len(data))

	d.logger.Debug("saved asset", d.logger.Args("path", download.Path, "size", humanize.IBytes(uint64(len(data)))))

	download.MagicChecked, download.Err = VerifyMagic(name, data)
	return download
}

func (d *Downloader) get(ctx context.Context, rawURL string) ([]byte, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("download timed out after %s: %w", d.Timeout, ctx.Err())
		}
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return data, nil
}
