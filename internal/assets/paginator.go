// Package assets provides read-side helpers over the asset listing
// endpoints, most importantly cursor pagination across a frame's full
// collection.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
)

// Lister is the slice of the frame gateway pagination needs.
type Lister interface {
	GetAssets(ctx context.Context, frameID string, cursor *string) ([]models.Asset, *string, error)
}

// Paginator walks a frame's asset collection page by page. The backend
// paginates with opaque cursors and throttles aggressive readers, so
// consecutive page fetches are spaced by Pacing.
type Paginator struct {
	lister Lister
	log    logging.Logger

	// Pacing is the delay inserted before every page after the first.
	// Zero disables spacing.
	Pacing time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewPaginator(lister Lister, log logging.Logger, pacing time.Duration) *Paginator {
	return &Paginator{
		lister: lister,
		log:    log,
		Pacing: pacing,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// All fetches every asset on the frame, in the order the server returns
// them. The cursor chain is followed until the server reports no next
// page; a failure mid-walk aborts the whole walk rather than returning
// a partial collection.
func (p *Paginator) All(ctx context.Context, frameID string) ([]models.Asset, error) {
	return p.AllFrom(ctx, frameID, nil)
}

// AllFrom fetches from the given cursor onward. Cursors are opaque
// server tokens; the only valid sources are a previous page response
// and nil for the start of the collection.
func (p *Paginator) AllFrom(ctx context.Context, frameID string, cursor *string) ([]models.Asset, error) {
	var all []models.Asset
	for page := 1; ; page++ {
		if page > 1 {
			if err := p.sleep(ctx, p.Pacing); err != nil {
				return nil, err
			}
		}

		assets, next, err := p.lister.GetAssets(ctx, frameID, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetching asset page %d: %w", page, err)
		}
		all = append(all, assets...)
		p.log.Debug(ctx, "fetched asset page", "frame_id", frameID, "page", page, "count", len(assets))

		if next == nil {
			return all, nil
		}
		cursor = next
	}
}
