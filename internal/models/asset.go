// Package models holds the vendor API data model: assets, frames and
// users, with JSON tags matching the wire field names. Fields the backend
// may omit or null are pointer-typed.
package models

import (
	"encoding/json"
	"time"

	"github.com/auragophers/aurago/internal/common"
	"github.com/auragophers/aurago/internal/timex"
)

// AssetPadding describes letterboxing applied to a rendered crop.
type AssetPadding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// AssetSetting is the per-frame display state of an asset.
type AssetSetting struct {
	AddedByID         string `json:"added_by_id"`
	AssetID           string `json:"asset_id"`
	CreatedAt         string `json:"created_at"`
	FrameID           string `json:"frame_id"`
	Hidden            bool   `json:"hidden"`
	ID                string `json:"id"`
	LastImpressionAt  string `json:"last_impression_at"`
	Reason            string `json:"reason"`
	Selected          bool   `json:"selected"`
	UpdatedAt         string `json:"updated_at"`
	UpdatedSelectedAt string `json:"updated_selected_at"`
}

// Asset is the canonical server-side representation of a photo or video.
// A record without a remote ID exists only on the client; the upload saga
// promotes it to remote exactly once.
type Asset struct {
	AutoLandscape1610Rect   *string         `json:"auto_landscape_16_10_rect"`
	AutoPortrait45Rect      *string         `json:"auto_portrait_4_5_rect"`
	BurstID                 json.RawMessage `json:"burst_id,omitempty"`
	BurstSelectionTypes     json.RawMessage `json:"burst_selection_types,omitempty"`
	ColorizedFileName       *string         `json:"colorized_file_name"`
	CreatedAtOnClient       *string         `json:"created_at_on_client"`
	DataUTI                 string          `json:"data_uti"`
	DuplicateOfID           *string         `json:"duplicate_of_id"`
	Duration                *float64        `json:"duration"`
	DurationUnclipped       *float64        `json:"duration_unclipped"`
	ExifOrientation         int             `json:"exif_orientation"`
	Favorite                *bool           `json:"favorite"`
	FileName                string          `json:"file_name"`
	GlacieredAt             string          `json:"glaciered_at"`
	GoodResolution          bool            `json:"good_resolution"`
	HandledAt               *string         `json:"handled_at"`
	HDR                     *bool           `json:"hdr"`
	Height                  int             `json:"height"`
	HorizontalAccuracy      *float64        `json:"horizontal_accuracy"`
	ID                      *string         `json:"id"`
	IOSMediaSubtypes        *int            `json:"ios_media_subtypes"`
	IsLive                  *bool           `json:"is_live"`
	IsSubscription          bool            `json:"is_subscription"`
	Landscape1610URL        *string         `json:"landscape_16_10_url"`
	Landscape1610URLPadding *AssetPadding   `json:"landscape_16_10_url_padding"`
	LandscapeRect           *string         `json:"landscape_rect"`
	LandscapeURL            *string         `json:"landscape_url"`
	LandscapeURLPadding     *AssetPadding   `json:"landscape_url_padding"`
	LivePhotoOff            *bool           `json:"live_photo_off"`
	LocalIdentifier         string          `json:"local_identifier"`
	Location                []float64       `json:"location"`
	LocationName            *string         `json:"location_name"`
	MD5Hash                 *string         `json:"md5_hash"`
	MinibarLandscapeURL     *string         `json:"minibar_landscape_url"`
	MinibarPortraitURL      *string         `json:"minibar_portrait_url"`
	MinibarURL              *string         `json:"minibar_url"`
	ModifiedAt              *string         `json:"modified_at"`
	Orientation             *int            `json:"orientation"`
	OriginalFileName        *string         `json:"original_file_name"`
	Panorama                *bool           `json:"panorama"`
	Portrait45URL           *string         `json:"portrait_4_5_url"`
	Portrait45URLPadding    *AssetPadding   `json:"portrait_4_5_url_padding"`
	PortraitRect            *string         `json:"portrait_rect"`
	PortraitURL             *string         `json:"portrait_url"`
	PortraitURLPadding      *AssetPadding   `json:"portrait_url_padding"`
	RawFileName             *string         `json:"raw_file_name"`
	RepresentsBurst         json.RawMessage `json:"represents_burst,omitempty"`
	RotationCW              int             `json:"rotation_cw"`
	Selected                bool            `json:"selected"`
	SourceID                string          `json:"source_id"`
	TakenAt                 string          `json:"taken_at"`
	TakenAtGranularity      json.RawMessage `json:"taken_at_granularity,omitempty"`
	TakenAtUserOverrideAt   *string         `json:"taken_at_user_override_at"`
	ThumbnailURL            *string         `json:"thumbnail_url"`
	Unglacierable           bool            `json:"unglacierable"`
	UploadPriority          int             `json:"upload_priority"`
	UploadedAt              string          `json:"uploaded_at"`
	User                    *User           `json:"user"`
	UserID                  string          `json:"user_id"`
	UserLandscape1610Rect   *string         `json:"user_landscape_16_10_rect"`
	UserLandscapeRect       *string         `json:"user_landscape_rect"`
	UserPortrait45Rect      *string         `json:"user_portrait_4_5_rect"`
	UserPortraitRect        *string         `json:"user_portrait_rect"`
	VideoClipExcludesAudio  *bool           `json:"video_clip_excludes_audio"`
	VideoClipStart          json.RawMessage `json:"video_clip_start,omitempty"`
	VideoClippedByUserAt    *string         `json:"video_clipped_by_user_at"`
	VideoFileName           *string         `json:"video_file_name"`
	VideoURL                *string         `json:"video_url"`
	WidgetURL               *string         `json:"widget_url"`
	Width                   int             `json:"width"`
}

// IsLocalAsset reports whether the record exists only on the client,
// i.e. the backend has not assigned it a durable ID yet.
func (a *Asset) IsLocalAsset() bool {
	return a.ID == nil
}

// TakenAtTime parses the taken_at timestamp.
func (a *Asset) TakenAtTime() (time.Time, error) {
	return timex.ParseStamp(a.TakenAt)
}

// NewLocalAsset builds a local-only placeholder record for an upload in
// flight. The saga fills in the storage key and checksum after the blob
// upload and the backend assigns the remote ID during reconciliation.
func NewLocalAsset(localIdentifier string, takenAt time.Time) *Asset {
	return &Asset{
		LocalIdentifier: localIdentifier,
		TakenAt:         timex.FormatStamp(takenAt),
		DataUTI:         "public.jpeg",
		GoodResolution:  true,
	}
}

// AssetPartialID is a minimal reference to an asset for operations that
// only need identity. Exactly one of ID or LocalIdentifier is set; use
// the constructors rather than building the struct by hand.
type AssetPartialID struct {
	ID              string `json:"id,omitempty"`
	LocalIdentifier string `json:"local_identifier,omitempty"`
	UserID          string `json:"user_id,omitempty"`
}

// RemoteAssetID references an asset by its server-assigned ID.
func RemoteAssetID(id string) AssetPartialID {
	return AssetPartialID{ID: id}
}

// LocalAssetID references an asset by its client-generated identifier.
func LocalAssetID(localIdentifier string) AssetPartialID {
	return AssetPartialID{LocalIdentifier: localIdentifier}
}

// Validate rejects identities that carry neither or both identifiers.
func (p AssetPartialID) Validate() error {
	if (p.ID == "") == (p.LocalIdentifier == "") {
		return common.ErrInvalidAssetIdentity
	}
	return nil
}

// RequestFormat renders the identity the way selection endpoints expect.
// The iPhone client never passes user_id here, so neither do we.
func (p AssetPartialID) RequestFormat() map[string]string {
	if p.ID != "" {
		return map[string]string{"asset_id": p.ID}
	}
	return map[string]string{"asset_local_identifier": p.LocalIdentifier}
}
