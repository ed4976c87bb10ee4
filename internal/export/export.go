// Package export downloads asset imagery to local disk: full-size
// originals via the vendor's image proxy and render-ready variants by
// frame orientation.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/auragophers/aurago/internal/filex"
	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
	"github.com/auragophers/aurago/internal/timex"
)

// DefaultProxyBaseURL serves original uploads keyed by owner and
// storage file name.
const DefaultProxyBaseURL = "https://imgproxy.pushd.com/"

// Exporter pulls asset bytes over HTTP and lays them out on disk as
// <taken-at-stamp>-<file-name>, so a directory listing sorts
// chronologically.
type Exporter struct {
	client *http.Client
	log    logging.Logger

	// ProxyBaseURL is where originals live. Overridable for tests.
	ProxyBaseURL string

	// IgnoreCache forces a re-download even when the target file
	// already exists.
	IgnoreCache bool
}

func NewExporter(client *http.Client, log logging.Logger) *Exporter {
	return &Exporter{
		client:       client,
		log:          log,
		ProxyBaseURL: DefaultProxyBaseURL,
	}
}

// BestDisplayURL picks the variant URL a frame would render for the
// asset: the portrait crop on portrait-oriented frames, the landscape
// crop otherwise, falling back across the other variants when the
// preferred one is absent.
func BestDisplayURL(asset *models.Asset, frame *models.Frame) (string, bool) {
	var preferred []*string
	if frame != nil && frame.IsPortrait() {
		preferred = []*string{asset.PortraitURL, asset.Portrait45URL, asset.LandscapeURL, asset.Landscape1610URL}
	} else {
		preferred = []*string{asset.LandscapeURL, asset.Landscape1610URL, asset.PortraitURL, asset.Portrait45URL}
	}
	preferred = append(preferred, asset.ThumbnailURL)

	for _, u := range preferred {
		if u != nil && *u != "" {
			return *u, true
		}
	}
	return "", false
}

// localName builds the on-disk name for an asset. Assets with an
// unparsable taken_at keep just the storage file name.
func localName(asset *models.Asset) string {
	t, err := asset.TakenAtTime()
	if err != nil {
		return asset.FileName
	}
	return timex.PathSafeStamp(t) + "-" + asset.FileName
}

// Original downloads the full-size upload for asset into dir and
// returns its bytes plus the file path. An already exported file is
// returned from disk unless IgnoreCache is set.
func (e *Exporter) Original(ctx context.Context, asset *models.Asset, dir string) ([]byte, string, error) {
	name := localName(asset)
	path := filepath.Join(dir, name)

	if !e.IgnoreCache {
		if data, err := os.ReadFile(path); err == nil {
			e.log.Debug(ctx, "export served from disk", "path", path)
			return data, path, nil
		}
	}

	url := e.ProxyBaseURL + asset.UserID + "/" + asset.FileName
	data, err := e.fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}

	path, err = filex.WriteFile(dir, name, data)
	if err != nil {
		return nil, "", err
	}
	e.log.Info(ctx, "exported original", "path", path, "size", len(data))
	return data, path, nil
}

// Variant downloads the orientation-appropriate render of asset for
// frame into dir.
func (e *Exporter) Variant(ctx context.Context, asset *models.Asset, frame *models.Frame, dir string) ([]byte, string, error) {
	url, ok := BestDisplayURL(asset, frame)
	if !ok {
		return nil, "", fmt.Errorf("asset %s has no display variant", asset.FileName)
	}

	data, err := e.fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}

	path, err := filex.WriteFile(dir, localName(asset), data)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

// Thumbnail downloads the asset's thumbnail, or nothing when the
// backend has not generated one.
func (e *Exporter) Thumbnail(ctx context.Context, asset *models.Asset) ([]byte, error) {
	if asset.ThumbnailURL == nil || *asset.ThumbnailURL == "" {
		return nil, nil
	}
	return e.fetch(ctx, *asset.ThumbnailURL)
}

func (e *Exporter) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
