// Package config assembles runtime settings for the aurago client from
// defaults, an optional JSON file and command-line flags, in that order
// of precedence.
package config

import "time"

// Config holds runtime settings for the aurago client.
//
// Device-ack fields bound the SQS polling loop: the wait starts at
// AckInitialBackoff between receives, grows exponentially up to
// AckMaxBackoff, and gives up after AckTimeout. PagePacing is the
// courtesy delay between asset listing pages.
type Config struct {
	APIBaseURL     string
	AWSRegion      string
	IdentityPoolID string
	UploadBucket   string

	AckTimeout        time.Duration
	AckInitialBackoff time.Duration
	AckMaxBackoff     time.Duration
	PagePacing        time.Duration

	CacheDir string
}

// LoadDefaults populates c with the vendor production endpoints and
// polling bounds.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.pushd.com/v5/"
	c.AWSRegion = "us-east-1"
	c.IdentityPoolID = "us-east-1:b92826c0-8274-43db-abff-136977c13598"
	c.UploadBucket = "images.senseapp.co"
	c.AckTimeout = 2 * time.Minute
	c.AckInitialBackoff = 1 * time.Second
	c.AckMaxBackoff = 30 * time.Second
	c.PagePacing = 1 * time.Second
	c.CacheDir = "cache"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
