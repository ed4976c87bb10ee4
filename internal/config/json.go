package config

import (
	"encoding/json"
	"os"

	"github.com/auragophers/aurago/internal/flagx"
	"github.com/auragophers/aurago/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "30s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config.
type JSONConfig struct {
	APIBaseURL        *string         `json:"api_base_url"`
	AWSRegion         *string         `json:"aws_region"`
	IdentityPoolID    *string         `json:"identity_pool_id"`
	UploadBucket      *string         `json:"upload_bucket"`
	AckTimeout        *timex.Duration `json:"ack_timeout"`
	AckInitialBackoff *timex.Duration `json:"ack_initial_backoff"`
	AckMaxBackoff     *timex.Duration `json:"ack_max_backoff"`
	PagePacing        *timex.Duration `json:"page_pacing"`
	CacheDir          *string         `json:"cache_dir"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c / -config flags (flagx.JSONConfigFlags);
// when no path is given the function is a no-op. Only fields present in
// the file override the current Config. Read or unmarshal errors panic,
// matching the fail-fast behavior of parseFlags.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.AWSRegion != nil {
		cfg.AWSRegion = *jc.AWSRegion
	}
	if jc.IdentityPoolID != nil {
		cfg.IdentityPoolID = *jc.IdentityPoolID
	}
	if jc.UploadBucket != nil {
		cfg.UploadBucket = *jc.UploadBucket
	}
	if jc.AckTimeout != nil {
		cfg.AckTimeout = jc.AckTimeout.Duration
	}
	if jc.AckInitialBackoff != nil {
		cfg.AckInitialBackoff = jc.AckInitialBackoff.Duration
	}
	if jc.AckMaxBackoff != nil {
		cfg.AckMaxBackoff = jc.AckMaxBackoff.Duration
	}
	if jc.PagePacing != nil {
		cfg.PagePacing = jc.PagePacing.Duration
	}
	if jc.CacheDir != nil {
		cfg.CacheDir = *jc.CacheDir
	}
}
