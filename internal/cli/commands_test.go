package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auragophers/aurago/internal/cache"
	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeAccount struct {
	email, password string
	user            *models.User
	err             error
}

func (f *fakeAccount) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.email, f.password = email, password
	return f.user, f.err
}

type fakeFrameAPI struct {
	frames    []models.Frame
	getFrames int
	byID      map[string]*models.Frame
}

func (f *fakeFrameAPI) GetFrames(ctx context.Context) ([]models.Frame, error) {
	f.getFrames++
	return f.frames, nil
}

func (f *fakeFrameAPI) GetFrame(ctx context.Context, frameID string) (*models.Frame, int, error) {
	if fr, ok := f.byID[frameID]; ok {
		return fr, 0, nil
	}
	return nil, 0, errors.New("no such frame")
}

type fakePager struct {
	frameIDs []string
	assets   []models.Asset
	err      error
}

func (f *fakePager) All(ctx context.Context, frameID string) ([]models.Asset, error) {
	f.frameIDs = append(f.frameIDs, frameID)
	return f.assets, f.err
}

type fakeSaga struct {
	frame *models.Frame
	data  []byte
	ext   string
	asset *models.Asset
	err   error
}

func (f *fakeSaga) Upload(ctx context.Context, frame *models.Frame, data []byte, extension, localIdentifier string) (*models.Asset, error) {
	f.frame, f.data, f.ext = frame, data, extension
	return f.asset, f.err
}

type fakeExporter struct {
	exported []string
	err      error
}

func (f *fakeExporter) Original(ctx context.Context, asset *models.Asset, dir string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	f.exported = append(f.exported, asset.FileName)
	return []byte("x"), filepath.Join(dir, asset.FileName), nil
}

func newTestApp(t *testing.T) (*App, *fakeAccount, *fakeFrameAPI, *fakePager, *fakeSaga, *fakeExporter) {
	t.Helper()
	silencePrintln(t)

	store, err := cache.New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	account := &fakeAccount{user: &models.User{Email: "u@example.com"}}
	remoteID := "R1"
	frames := &fakeFrameAPI{
		frames: []models.Frame{
			{ID: "frame-1", Name: "Hall"},
			{ID: "frame-2", Name: "Kitchen", Orientation: 2},
		},
		byID: map[string]*models.Frame{
			"frame-9": {ID: "frame-9", Name: "Office"},
		},
	}
	pager := &fakePager{assets: []models.Asset{{FileName: "a.jpg"}, {FileName: "b.jpg"}}}
	saga := &fakeSaga{asset: &models.Asset{ID: &remoteID, LocalIdentifier: "l1"}}
	exporter := &fakeExporter{}

	app := &App{
		log:      testLogger(),
		account:  account,
		frames:   frames,
		pager:    pager,
		saga:     saga,
		exporter: exporter,
		store:    store,
		reader:   bufio.NewReader(strings.NewReader("")),
	}
	return app, account, frames, pager, saga, exporter
}

func stubInput(t *testing.T, text, password string) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return text, nil
	}
	getPassword = func(w io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
}

func TestLogin_SetsUser(t *testing.T) {
	app, account, _, _, _, _ := newTestApp(t)
	stubInput(t, "u@example.com", "secret")

	require.NoError(t, app.Login(context.Background()))

	require.True(t, app.isLoggedIn())
	assert.Equal(t, "u@example.com", account.email)
	assert.Equal(t, "secret", account.password)
	assert.Equal(t, "u@example.com", app.status())
}

func TestLogin_Failure(t *testing.T) {
	app, account, _, _, _, _ := newTestApp(t)
	account.err = errors.New("bad credentials")
	stubInput(t, "u@example.com", "wrong")

	require.Error(t, app.Login(context.Background()))
	assert.False(t, app.isLoggedIn())
}

func TestLogout_ClearsSession(t *testing.T) {
	app, _, _, _, _, _ := newTestApp(t)
	app.user = &models.User{Email: "u@example.com"}
	app.frameList = []models.Frame{{ID: "frame-1"}}

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Empty(t, app.frameList)
	assert.Equal(t, "not logged in", app.status())
}

func TestFrames_ListsAndRemembers(t *testing.T) {
	app, _, frames, _, _, _ := newTestApp(t)

	require.NoError(t, app.Frames(context.Background()))
	require.Len(t, app.frameList, 2)
	assert.Equal(t, 1, frames.getFrames)

	// second call is served from the cache
	require.NoError(t, app.Frames(context.Background()))
	assert.Equal(t, 1, frames.getFrames)
	require.Len(t, app.frameList, 2)
}

func TestAssets_ByListPosition(t *testing.T) {
	app, _, _, pager, _, _ := newTestApp(t)
	require.NoError(t, app.Frames(context.Background()))

	require.NoError(t, app.Assets(context.Background(), []string{"2"}))
	assert.Equal(t, []string{"frame-2"}, pager.frameIDs)
}

func TestAssets_ByFrameID(t *testing.T) {
	app, _, _, pager, _, _ := newTestApp(t)

	require.NoError(t, app.Assets(context.Background(), []string{"frame-9"}))
	assert.Equal(t, []string{"frame-9"}, pager.frameIDs)
}

func TestAssets_BadPosition(t *testing.T) {
	app, _, _, _, _, _ := newTestApp(t)

	err := app.Assets(context.Background(), []string{"7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 7")
}

func TestUpload_ReadsFileAndRunsSaga(t *testing.T) {
	app, _, _, _, saga, _ := newTestApp(t)
	require.NoError(t, app.Frames(context.Background()))

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("image bytes"), 0o660))

	require.NoError(t, app.Upload(context.Background(), []string{"1", path}))

	require.NotNil(t, saga.frame)
	assert.Equal(t, "frame-1", saga.frame.ID)
	assert.Equal(t, []byte("image bytes"), saga.data)
	assert.Equal(t, ".jpg", saga.ext)
}

func TestUpload_MissingFile(t *testing.T) {
	app, _, _, _, _, _ := newTestApp(t)
	require.NoError(t, app.Frames(context.Background()))

	err := app.Upload(context.Background(), []string{"1", "/no/such/file.jpg"})
	require.Error(t, err)
}

func TestExport_DownloadsAllAssets(t *testing.T) {
	app, _, _, pager, _, exporter := newTestApp(t)
	require.NoError(t, app.Frames(context.Background()))

	require.NoError(t, app.Export(context.Background(), []string{"1"}))

	assert.Equal(t, []string{"frame-1"}, pager.frameIDs)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, exporter.exported)
}

func TestExport_SkipsFailedDownloads(t *testing.T) {
	app, _, _, _, _, exporter := newTestApp(t)
	exporter.err = errors.New("gone")
	require.NoError(t, app.Frames(context.Background()))

	require.NoError(t, app.Export(context.Background(), []string{"1"}),
		"individual download failures do not abort the export")
	assert.Empty(t, exporter.exported)
}
