package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/auragophers/aurago/internal/models"
)

// AssetAPI wraps the asset endpoints.
type AssetAPI struct {
	c *Client
}

func NewAssetAPI(c *Client) *AssetAPI {
	return &AssetAPI{c: c}
}

// batchUpdateFields is the subset of asset fields the backend accepts in
// batch_update. The record is keyed by local_identifier; the storage key
// and checksum are what reconciliation fills in.
type batchUpdateFields struct {
	ID              *string  `json:"id,omitempty"`
	LocalIdentifier string   `json:"local_identifier"`
	FileName        string   `json:"file_name"`
	MD5Hash         *string  `json:"md5_hash"`
	TakenAt         string   `json:"taken_at"`
	DataUTI         string   `json:"data_uti"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	RotationCW      int      `json:"rotation_cw"`
	ExifOrientation int      `json:"exif_orientation"`
	UserID          string   `json:"user_id,omitempty"`
	LocationName    *string  `json:"location_name,omitempty"`
	Location        []float64 `json:"location,omitempty"`
}

// BatchUpdate pushes the asset's current metadata to the backend and
// returns the assigned remote ids along with the identities the server
// confirmed. Callers must check their local identifier appears among the
// successes before treating the update as applied.
func (a *AssetAPI) BatchUpdate(ctx context.Context, asset *models.Asset) ([]string, []models.AssetPartialID, error) {
	body := map[string]any{
		"assets": []batchUpdateFields{{
			ID:              asset.ID,
			LocalIdentifier: asset.LocalIdentifier,
			FileName:        asset.FileName,
			MD5Hash:         asset.MD5Hash,
			TakenAt:         asset.TakenAt,
			DataUTI:         asset.DataUTI,
			Width:           asset.Width,
			Height:          asset.Height,
			RotationCW:      asset.RotationCW,
			ExifOrientation: asset.ExifOrientation,
			UserID:          asset.UserID,
			LocationName:    asset.LocationName,
			Location:        asset.Location,
		}},
	}

	var resp struct {
		IDs       []string                `json:"ids"`
		Successes []models.AssetPartialID `json:"successes"`
	}
	if err := a.c.Put(ctx, "assets/batch_update.json", body, &resp); err != nil {
		return nil, nil, fmt.Errorf("batch update: %w", err)
	}
	return resp.IDs, resp.Successes, nil
}

// GetAssetByLocalIdentifier resolves a client-generated identifier to
// the full remote record, plus any child albums and smart adds the
// backend associates with it.
func (a *AssetAPI) GetAssetByLocalIdentifier(ctx context.Context, localIdentifier string) (*models.Asset, []json.RawMessage, []json.RawMessage, error) {
	query := url.Values{}
	query.Set("local_identifier", localIdentifier)

	var resp struct {
		Asset       models.Asset      `json:"asset"`
		ChildAlbums []json.RawMessage `json:"child_albums"`
		SmartAdds   []json.RawMessage `json:"smart_adds"`
	}
	if err := a.c.Get(ctx, "assets/asset_for_local_identifier.json", query, &resp); err != nil {
		return nil, nil, nil, fmt.Errorf("asset for local identifier: %w", err)
	}
	return &resp.Asset, resp.ChildAlbums, resp.SmartAdds, nil
}

// UpdateTakenAtDate overrides the asset's taken_at timestamp.
func (a *AssetAPI) UpdateTakenAtDate(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	body := identityBody(asset)
	body["taken_at"] = asset.TakenAt

	var updated models.Asset
	if err := a.c.Post(ctx, "assets/update_taken_at_date.json", body, &updated); err != nil {
		return nil, fmt.Errorf("update taken at: %w", err)
	}
	return &updated, nil
}

// CropAsset pushes the asset's rotation and user crop rects.
func (a *AssetAPI) CropAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	body := identityBody(asset)
	body["rotation_cw"] = asset.RotationCW
	if asset.UserLandscapeRect != nil {
		body["user_landscape_rect"] = *asset.UserLandscapeRect
	}
	if asset.UserPortraitRect != nil {
		body["user_portrait_rect"] = *asset.UserPortraitRect
	}

	var resp struct {
		Asset models.Asset `json:"asset"`
	}
	if err := a.c.Post(ctx, "assets/crop.json", body, &resp); err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	return &resp.Asset, nil
}

// DeleteAsset removes a remote asset. Local-only records have nothing to
// delete server-side and are rejected.
func (a *AssetAPI) DeleteAsset(ctx context.Context, asset *models.Asset) error {
	if asset.IsLocalAsset() {
		return fmt.Errorf("delete asset: record has no remote id")
	}
	if err := a.c.Delete(ctx, "assets/"+*asset.ID+".json", nil); err != nil {
		return fmt.Errorf("delete asset %s: %w", *asset.ID, err)
	}
	return nil
}

func identityBody(asset *models.Asset) map[string]any {
	if asset.ID != nil {
		return map[string]any{"asset_id": *asset.ID}
	}
	return map[string]any{"asset_local_identifier": asset.LocalIdentifier}
}
