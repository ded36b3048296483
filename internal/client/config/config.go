package config

import (
	"time"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/render"
)

// Image store kinds.
const (
	StoreFS = "fs"
	StoreS3 = "s3"
)

// S3 holds connection settings for the S3 image store.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the Happy Places CLI.
//
// Latitude and Longitude are the static location fix; they are only used
// when FixSet is true. CaptureTimeout bounds how long the camera waits for
// a new image.
type Config struct {
	Latitude  float64
	Longitude float64
	FixSet    bool
	Accuracy  string

	StoreKind  string
	ImageDir   string
	GalleryDir string
	CameraDir  string

	CaptureTimeout time.Duration

	Zoom       int
	ViewWidth  int
	ViewHeight int

	LogLevel string

	S3 S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Accuracy = "high"
	c.StoreKind = StoreFS
	c.ImageDir = "happyplaces/images"
	c.CameraDir = "happyplaces/camera"
	c.GalleryDir = "happyplaces/gallery"
	c.CaptureTimeout = 2 * time.Minute
	c.Zoom = render.DefaultZoom
	c.ViewWidth = 60
	c.ViewHeight = 16
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
}

// Fix returns the configured static location, if any.
func (c *Config) Fix() *models.Coordinate {
	if !c.FixSet {
		return nil
	}
	return &models.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
