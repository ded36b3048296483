package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/happyplaces/internal/flagx"
	"github.com/dmitrijs2005/happyplaces/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. It is
// seeded from the current Config, so keys missing from the file keep their
// earlier values.
type FileConfig struct {
	Latitude       *float64       `json:"latitude" yaml:"latitude"`
	Longitude      *float64       `json:"longitude" yaml:"longitude"`
	Accuracy       string         `json:"accuracy" yaml:"accuracy"`
	StoreKind      string         `json:"store" yaml:"store"`
	ImageDir       string         `json:"image_dir" yaml:"image_dir"`
	GalleryDir     string         `json:"gallery_dir" yaml:"gallery_dir"`
	CameraDir      string         `json:"camera_dir" yaml:"camera_dir"`
	CaptureTimeout timex.Duration `json:"capture_timeout" yaml:"capture_timeout"`
	Zoom           int            `json:"zoom" yaml:"zoom"`
	ViewWidth      int            `json:"view_width" yaml:"view_width"`
	ViewHeight     int            `json:"view_height" yaml:"view_height"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	S3             FileS3Config   `json:"s3" yaml:"s3"`
}

type FileS3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON. Panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := fromConfig(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func fromConfig(cfg *Config) FileConfig {
	fc := FileConfig{
		Accuracy:       cfg.Accuracy,
		StoreKind:      cfg.StoreKind,
		ImageDir:       cfg.ImageDir,
		GalleryDir:     cfg.GalleryDir,
		CameraDir:      cfg.CameraDir,
		CaptureTimeout: timex.Duration{Duration: cfg.CaptureTimeout},
		Zoom:           cfg.Zoom,
		ViewWidth:      cfg.ViewWidth,
		ViewHeight:     cfg.ViewHeight,
		LogLevel:       cfg.LogLevel,
		S3: FileS3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
	}
	if cfg.FixSet {
		lat, lon := cfg.Latitude, cfg.Longitude
		fc.Latitude, fc.Longitude = &lat, &lon
	}
	return fc
}

// apply copies the DTO back. A fix needs both coordinates unless one was
// already set, matching -lat and -lon.
func (fc FileConfig) apply(cfg *Config) {
	if (fc.Latitude == nil) != (fc.Longitude == nil) {
		panic("config: latitude and longitude must be given together")
	}
	if fc.Latitude != nil {
		cfg.Latitude, cfg.Longitude, cfg.FixSet = *fc.Latitude, *fc.Longitude, true
	}
	cfg.Accuracy = fc.Accuracy
	cfg.StoreKind = fc.StoreKind
	cfg.ImageDir = fc.ImageDir
	cfg.GalleryDir = fc.GalleryDir
	cfg.CameraDir = fc.CameraDir
	cfg.CaptureTimeout = fc.CaptureTimeout.Duration
	cfg.Zoom = fc.Zoom
	cfg.ViewWidth = fc.ViewWidth
	cfg.ViewHeight = fc.ViewHeight
	cfg.LogLevel = fc.LogLevel
	cfg.S3 = S3{
		Bucket:    fc.S3.Bucket,
		Region:    fc.S3.Region,
		Endpoint:  fc.S3.Endpoint,
		AccessKey: fc.S3.AccessKey,
		SecretKey: fc.S3.SecretKey,
	}
}
