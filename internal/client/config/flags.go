package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/happyplaces/internal/flagx"
)

var knownFlags = []string{
	"-lat", "-lon", "-acc",
	"-store", "-images", "-gallery", "-camera", "-t",
	"-z", "-width", "-height", "-log",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-user", "-s3-password",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-lat, -lon float   static location fix (both required to take effect)
//	-acc string        location accuracy: high, balanced, low
//	-store string      image store: fs or s3
//	-images string     directory of the fs image store
//	-gallery string    directory offered as the image gallery
//	-camera string     drop directory watched for new camera images
//	-t int             capture timeout in seconds (left alone unless given)
//	-z int             map zoom
//	-width, -height    map viewport size in cells
//	-log string        log level
//	-s3-*              bucket, region, endpoint, user and password of the S3 store
//
// The function filters os.Args to the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	lat := fs.Float64("lat", cfg.Latitude, "static fix latitude")
	lon := fs.Float64("lon", cfg.Longitude, "static fix longitude")
	fs.StringVar(&cfg.Accuracy, "acc", cfg.Accuracy, "location accuracy (high, balanced, low)")

	fs.StringVar(&cfg.StoreKind, "store", cfg.StoreKind, "image store (fs or s3)")
	fs.StringVar(&cfg.ImageDir, "images", cfg.ImageDir, "image store directory")
	fs.StringVar(&cfg.GalleryDir, "gallery", cfg.GalleryDir, "gallery directory")
	fs.StringVar(&cfg.CameraDir, "camera", cfg.CameraDir, "camera drop directory")
	timeout := fs.Int("t", int(cfg.CaptureTimeout.Seconds()), "capture timeout (in seconds)")

	fs.IntVar(&cfg.Zoom, "z", cfg.Zoom, "map zoom")
	fs.IntVar(&cfg.ViewWidth, "width", cfg.ViewWidth, "map width in cells")
	fs.IntVar(&cfg.ViewHeight, "height", cfg.ViewHeight, "map height in cells")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")

	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 endpoint URL")
	fs.StringVar(&cfg.S3.AccessKey, "s3-user", cfg.S3.AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3.SecretKey, "s3-password", cfg.S3.SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	if seen["t"] {
		cfg.CaptureTimeout = time.Duration(*timeout) * time.Second
	}
	if seen["lat"] || seen["lon"] {
		if !(seen["lat"] && seen["lon"]) && !cfg.FixSet {
			panic("config: -lat and -lon must be given together")
		}
		cfg.Latitude, cfg.Longitude, cfg.FixSet = *lat, *lon, true
	}
}
