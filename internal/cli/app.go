// Package cli implements the interactive aura shell: login, frame and
// asset listings, uploads and exports, driven by a small REPL.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/auragophers/aurago/internal/api"
	"github.com/auragophers/aurago/internal/assets"
	"github.com/auragophers/aurago/internal/cache"
	"github.com/auragophers/aurago/internal/config"
	"github.com/auragophers/aurago/internal/export"
	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
	"github.com/auragophers/aurago/internal/queue"
	"github.com/auragophers/aurago/internal/storage"
	"github.com/auragophers/aurago/internal/upload"
)

// The command handlers see their collaborators through narrow
// interfaces, so tests can stub them.
type sagaIface interface {
	Upload(ctx context.Context, frame *models.Frame, data []byte, extension, localIdentifier string) (*models.Asset, error)
}

type frameAPIIface interface {
	GetFrames(ctx context.Context) ([]models.Frame, error)
	GetFrame(ctx context.Context, frameID string) (*models.Frame, int, error)
}

type accountAPIIface interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type listerIface interface {
	All(ctx context.Context, frameID string) ([]models.Asset, error)
}

type exporterIface interface {
	Original(ctx context.Context, asset *models.Asset, dir string) ([]byte, string, error)
}

// App wires the gateways together behind the REPL commands. It keeps
// the last frame listing around so commands can refer to frames by
// their list position instead of the raw id.
type App struct {
	config   *config.Config
	log      logging.Logger
	account  accountAPIIface
	frames   frameAPIIface
	pager    listerIface
	saga     sagaIface
	exporter exporterIface
	store    *cache.Cache

	user      *models.User
	frameList []models.Frame
	reader    *bufio.Reader
}

// NewApp builds a fully wired App against the configured backend. The
// SQS poller needs AWS connectivity up front; everything else dials
// lazily.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	client, err := api.NewClient(cfg.APIBaseURL, log)
	if err != nil {
		return nil, err
	}

	frameAPI := api.NewFrameAPI(client)
	assetAPI := api.NewAssetAPI(client)

	uploader := storage.NewUploader(cfg.AWSRegion, cfg.IdentityPoolID, cfg.UploadBucket, log)

	poller, err := queue.NewPollerFromConfig(ctx, cfg.AWSRegion, log)
	if err != nil {
		return nil, err
	}
	poller.Timeout = cfg.AckTimeout
	poller.InitialBackoff = cfg.AckInitialBackoff
	poller.MaxBackoff = cfg.AckMaxBackoff

	store, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   cfg,
		log:      log,
		account:  api.NewAccountAPI(client),
		frames:   frameAPI,
		pager:    assets.NewPaginator(frameAPI, log, cfg.PagePacing),
		saga:     upload.NewOrchestrator(frameAPI, assetAPI, uploader, poller, log),
		exporter: export.NewExporter(client.HTTPClient(), log),
		store:    store,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if a.user == nil {
		return "not logged in"
	}
	return a.user.Email
}
