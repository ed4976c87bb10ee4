package export

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strptr(s string) *string { return &s }

func testAsset() *models.Asset {
	return &models.Asset{
		FileName: "abc123.jpg",
		UserID:   "user-9",
		TakenAt:  "2024-01-15T14:30:45.000Z",
	}
}

func newTestExporter(handler http.HandlerFunc) (*Exporter, *httptest.Server) {
	srv := httptest.NewServer(handler)
	e := NewExporter(srv.Client(), testLogger())
	e.ProxyBaseURL = srv.URL + "/"
	return e, srv
}

func TestBestDisplayURL(t *testing.T) {
	landscape := &models.Frame{Orientation: 1}
	portrait := &models.Frame{Orientation: 2}

	tests := []struct {
		name  string
		asset models.Asset
		frame *models.Frame
		want  string
		ok    bool
	}{
		{
			name:  "landscape frame prefers landscape url",
			asset: models.Asset{LandscapeURL: strptr("L"), PortraitURL: strptr("P")},
			frame: landscape,
			want:  "L", ok: true,
		},
		{
			name:  "portrait frame prefers portrait url",
			asset: models.Asset{LandscapeURL: strptr("L"), PortraitURL: strptr("P")},
			frame: portrait,
			want:  "P", ok: true,
		},
		{
			name:  "falls back across orientations",
			asset: models.Asset{PortraitURL: strptr("P")},
			frame: landscape,
			want:  "P", ok: true,
		},
		{
			name:  "thumbnail is the last resort",
			asset: models.Asset{ThumbnailURL: strptr("T")},
			frame: portrait,
			want:  "T", ok: true,
		},
		{
			name:  "nil frame treated as landscape",
			asset: models.Asset{LandscapeURL: strptr("L"), PortraitURL: strptr("P")},
			frame: nil,
			want:  "L", ok: true,
		},
		{
			name:  "no urls at all",
			asset: models.Asset{},
			frame: landscape,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestDisplayURL(&tt.asset, tt.frame)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "20240115T143045-abc123.jpg", localName(testAsset()))

	broken := testAsset()
	broken.TakenAt = "not a stamp"
	assert.Equal(t, "abc123.jpg", localName(broken))
}

func TestOriginal_DownloadsAndWrites(t *testing.T) {
	var gotPath string
	e, srv := newTestExporter(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("jpeg bytes"))
	})
	defer srv.Close()

	dir := t.TempDir()
	data, path, err := e.Original(context.Background(), testAsset(), dir)
	require.NoError(t, err)

	assert.Equal(t, "/user-9/abc123.jpg", gotPath)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, filepath.Join(dir, "20240115T143045-abc123.jpg"), path)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestOriginal_ServedFromDiskWhenPresent(t *testing.T) {
	requests := 0
	e, srv := newTestExporter(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("fresh"))
	})
	defer srv.Close()

	dir := t.TempDir()
	cached := filepath.Join(dir, "20240115T143045-abc123.jpg")
	require.NoError(t, os.WriteFile(cached, []byte("cached"), 0o660))

	data, _, err := e.Original(context.Background(), testAsset(), dir)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), data)
	assert.Zero(t, requests)
}

func TestOriginal_IgnoreCacheRefetches(t *testing.T) {
	e, srv := newTestExporter(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	})
	defer srv.Close()
	e.IgnoreCache = true

	dir := t.TempDir()
	cached := filepath.Join(dir, "20240115T143045-abc123.jpg")
	require.NoError(t, os.WriteFile(cached, []byte("cached"), 0o660))

	data, _, err := e.Original(context.Background(), testAsset(), dir)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), data)

	onDisk, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), onDisk, "cache file replaced")
}

func TestOriginal_HTTPError(t *testing.T) {
	e, srv := newTestExporter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, _, err := e.Original(context.Background(), testAsset(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestVariant_UsesOrientationURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("portrait render"))
	}))
	defer srv.Close()

	e := NewExporter(srv.Client(), testLogger())

	asset := testAsset()
	asset.PortraitURL = strptr(srv.URL + "/p")
	frame := &models.Frame{Orientation: 2}

	data, path, err := e.Variant(context.Background(), asset, frame, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []byte("portrait render"), data)
	assert.FileExists(t, path)
}

func TestVariant_NoURLs(t *testing.T) {
	e := NewExporter(http.DefaultClient, testLogger())

	_, _, err := e.Variant(context.Background(), testAsset(), &models.Frame{}, t.TempDir())
	require.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("thumb"))
	}))
	defer srv.Close()

	e := NewExporter(srv.Client(), testLogger())

	asset := testAsset()
	asset.ThumbnailURL = strptr(srv.URL + "/t")

	data, err := e.Thumbnail(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb"), data)

	none, err := e.Thumbnail(context.Background(), testAsset())
	require.NoError(t, err)
	assert.Nil(t, none)
}
