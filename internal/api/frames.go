package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/auragophers/aurago/internal/models"
)

// FrameAPI wraps the frame endpoints: listing, fetching and the asset
// selection operations the upload saga drives.
type FrameAPI struct {
	c *Client
}

func NewFrameAPI(c *Client) *FrameAPI {
	return &FrameAPI{c: c}
}

// GetFrames lists all frames visible to the authenticated user.
func (f *FrameAPI) GetFrames(ctx context.Context) ([]models.Frame, error) {
	var resp struct {
		Frames []models.Frame `json:"frames"`
	}
	if err := f.c.Get(ctx, "frames.json", nil, &resp); err != nil {
		return nil, fmt.Errorf("get frames: %w", err)
	}
	return resp.Frames, nil
}

// GetFrame fetches a single frame and its total asset count.
func (f *FrameAPI) GetFrame(ctx context.Context, frameID string) (*models.Frame, int, error) {
	var resp struct {
		Frame           models.Frame `json:"frame"`
		TotalAssetCount int          `json:"total_asset_count"`
	}
	if err := f.c.Get(ctx, "frames/"+frameID+".json", nil, &resp); err != nil {
		return nil, 0, fmt.Errorf("get frame %s: %w", frameID, err)
	}
	return &resp.Frame, resp.TotalAssetCount, nil
}

// SelectAsset asks the backend to associate the referenced asset with
// the frame. The returned count is the number of failed selections;
// zero is the only success condition.
func (f *FrameAPI) SelectAsset(ctx context.Context, frameID string, ref models.AssetPartialID) (int, error) {
	return f.assetOp(ctx, frameID, "select_asset", ref)
}

// ExcludeAsset hides the referenced asset from the frame's rotation.
func (f *FrameAPI) ExcludeAsset(ctx context.Context, frameID string, ref models.AssetPartialID) (int, error) {
	return f.assetOp(ctx, frameID, "exclude_asset", ref)
}

// RemoveAsset detaches the referenced asset from the frame.
func (f *FrameAPI) RemoveAsset(ctx context.Context, frameID string, ref models.AssetPartialID) (int, error) {
	return f.assetOp(ctx, frameID, "remove_asset", ref)
}

func (f *FrameAPI) assetOp(ctx context.Context, frameID, op string, ref models.AssetPartialID) (int, error) {
	if err := ref.Validate(); err != nil {
		return 0, err
	}

	var resp struct {
		NumberFailed int `json:"number_failed"`
	}
	path := "frames/" + frameID + "/" + op + ".json"
	if err := f.c.Post(ctx, path, ref.RequestFormat(), &resp); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return resp.NumberFailed, nil
}

// GetAssets fetches one page of the frame's asset listing. A nil cursor
// requests the first page; a nil next cursor in the result means the
// listing is exhausted. Cursors are opaque and must only be passed back
// unchanged.
func (f *FrameAPI) GetAssets(ctx context.Context, frameID string, cursor *string) ([]models.Asset, *string, error) {
	query := url.Values{}
	if cursor != nil {
		query.Set("cursor", *cursor)
	}

	var resp struct {
		Assets         []models.Asset `json:"assets"`
		NextPageCursor *string        `json:"next_page_cursor"`
	}
	if err := f.c.Get(ctx, "frames/"+frameID+"/assets.json", query, &resp); err != nil {
		return nil, nil, fmt.Errorf("get assets for frame %s: %w", frameID, err)
	}
	return resp.Assets, resp.NextPageCursor, nil
}
