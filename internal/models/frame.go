package models

import (
	"encoding/json"
	"strconv"
)

// Feature flags a frame may advertise.
const (
	FeatureSkipVideoPreload = "skip_video_preload"
	FeatureUDPCommands      = "udp_commands"
	FeatureMQTTEnabled      = "mqtt_enabled"
)

// Frame is the server-side state of a physical picture-frame device.
// The saga treats it as read-mostly; only the asset selection endpoints
// mutate its asset associations. ClientQueueURL and FrameQueueURL address
// the device's asynchronous acknowledgement channel.
type Frame struct {
	ID                         string            `json:"id"`
	Name                       string            `json:"name"`
	UserID                     string            `json:"user_id"`
	SoftwareVersion            string            `json:"software_version"`
	BuildVersion               string            `json:"build_version"`
	HWAndroidVersion           string            `json:"hw_android_version"`
	CreatedAt                  string            `json:"created_at"`
	UpdatedAt                  string            `json:"updated_at"`
	HandledAt                  string            `json:"handled_at"`
	DeletedAt                  *string           `json:"deleted_at"`
	UpdatedAtOnClient          *string           `json:"updated_at_on_client"`
	Orientation                int               `json:"orientation"`
	AutoBrightness             bool              `json:"auto_brightness"`
	MinBrightness              int               `json:"min_brightness"`
	MaxBrightness              int               `json:"max_brightness"`
	Brightness                 *int              `json:"brightness"`
	SenseMotion                bool              `json:"sense_motion"`
	DefaultSpeed               *string           `json:"default_speed"`
	SlideshowInterval          int               `json:"slideshow_interval"`
	SlideshowAuto              bool              `json:"slideshow_auto"`
	Digits                     int               `json:"digits"`
	Contributors               []User            `json:"contributors"`
	ContributorTokens          []json.RawMessage `json:"contributor_tokens"`
	HWSerial                   string            `json:"hw_serial"`
	MattingColor               string            `json:"matting_color"`
	TrimColor                  string            `json:"trim_color"`
	IsHandling                 bool              `json:"is_handling"`
	CalibrationsLastModifiedAt string            `json:"calibrations_last_modified_at"`
	GesturesOn                 bool              `json:"gestures_on"`
	PortraitPairingOff         *bool             `json:"portrait_pairing_off"`
	LivePhotosOn               bool              `json:"live_photos_on"`
	AutoProcessedPlaylistIDs   []json.RawMessage `json:"auto_processed_playlist_ids"`
	TimeZone                   string            `json:"time_zone"`
	WifiNetwork                string            `json:"wifi_network"`
	ColdBootAt                 *string           `json:"cold_boot_at"`
	IsCharityWaterFrame        bool              `json:"is_charity_water_frame"`
	NumAssets                  int               `json:"num_assets"`
	ThanksOn                   bool              `json:"thanks_on"`
	FrameQueueURL              *string           `json:"frame_queue_url"`
	ClientQueueURL             string            `json:"client_queue_url"`
	ScheduledDisplaySleep      bool              `json:"scheduled_display_sleep"`
	ScheduledDisplayOnAt       *string           `json:"scheduled_display_on_at"`
	ScheduledDisplayOffAt      *string           `json:"scheduled_display_off_at"`
	ForcedWifiState            *string           `json:"forced_wifi_state"`
	ForcedWifiRecipientEmail   *string           `json:"forced_wifi_recipient_email"`
	IsAnalogFrame              bool              `json:"is_analog_frame"`
	ControlType                string            `json:"control_type"`
	DisplayAspectRatio         string            `json:"display_aspect_ratio"`
	HasClaimableGift           *bool             `json:"has_claimable_gift"`
	GiftBillingHint            *string           `json:"gift_billing_hint"`
	Locale                     string            `json:"locale"`
	FrameType                  *int              `json:"frame_type"`
	Description                *string           `json:"description"`
	RepresentativeAssetID      *string           `json:"representative_asset_id"`
	SortMode                   *string           `json:"sort_mode"`
	EmailAddress               string            `json:"email_address"`
	Features                   []string          `json:"features"`
	LetterboxStyle             *string           `json:"letterbox_style"`
	User                       *User             `json:"user"`
	Playlists                  []json.RawMessage `json:"playlists"`
	DeliveredFrameGift         json.RawMessage   `json:"delivered_frame_gift,omitempty"`
	LastFeedItem               json.RawMessage   `json:"last_feed_item,omitempty"`
	LastImpression             json.RawMessage   `json:"last_impression,omitempty"`
	LastImpressionAt           string            `json:"last_impression_at"`
	ChildAlbums                []json.RawMessage `json:"child_albums"`
	SmartAdds                  []json.RawMessage `json:"smart_adds"`
	RecentAssets               []json.RawMessage `json:"recent_assets"`
}

// IsPortrait reports whether the device is mounted in a portrait
// orientation (2 or 3).
func (f *Frame) IsPortrait() bool {
	return f.Orientation == 2 || f.Orientation == 3
}

// FrameTypeLabel returns the frame type, or "normal" when the backend
// did not set one.
func (f *Frame) FrameTypeLabel() string {
	if f.FrameType == nil {
		return "normal"
	}
	return strconv.Itoa(*f.FrameType)
}
