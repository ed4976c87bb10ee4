package config

import (
	"flag"
	"os"
	"time"

	"github.com/auragophers/aurago/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the vendor API (default from Config)
//	-r string   AWS region for storage and queue clients
//	-b string   upload bucket name
//	-t int      device acknowledgement timeout in seconds
//	-p int      pacing delay between listing pages in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-b", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the vendor API")
	fs.StringVar(&cfg.AWSRegion, "r", cfg.AWSRegion, "AWS region")
	fs.StringVar(&cfg.UploadBucket, "b", cfg.UploadBucket, "upload bucket name")
	ackTimeout := fs.Int("t", int(cfg.AckTimeout.Seconds()), "device ack timeout (in seconds)")
	pagePacing := fs.Int("p", int(cfg.PagePacing.Seconds()), "delay between listing pages (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AckTimeout = time.Duration(*ackTimeout) * time.Second
	cfg.PagePacing = time.Duration(*pagePacing) * time.Second
}
