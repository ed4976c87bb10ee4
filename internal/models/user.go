package models

// User is the vendor account record. AuthToken is only populated in
// login responses and is moved into transport headers afterwards.
type User struct {
	ID                string  `json:"id"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ShortID           *string `json:"short_id"`
	ShowPushPrompt    bool    `json:"show_push_prompt"`
	LatestAppVersion  *string `json:"latest_app_version"`
	AttributionID     *string `json:"attribution_id"`
	AttributionString *string `json:"attribution_string"`
	TestAccount       *bool   `json:"test_account"`
	AvatarFileName    *string `json:"avatar_file_name"`
	HasFrame          *bool   `json:"has_frame"`
	AnalyticsOptout   *bool   `json:"analytics_optout"`
	AdminAccount      *bool   `json:"admin_account"`
	AuthToken         string  `json:"auth_token"`
}
