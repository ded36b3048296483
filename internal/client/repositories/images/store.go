package images

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Register decoders for Format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/happyplaces/internal/common"
)

// Store persists image bytes and resolves the references it hands out.
type Store interface {
	// Store saves data and returns a stable reference for later display.
	Store(ctx context.Context, data []byte) (string, error)

	// Load returns the bytes behind ref.
	Load(ctx context.Context, ref string) ([]byte, error)

	// Remove deletes the image behind ref. Removing a missing image is not
	// an error.
	Remove(ctx context.Context, ref string) error
}

// Format decodes the image header and returns the format name ("jpeg",
// "png", "gif"). Undecodable data yields common.ErrCaptureFailed.
func Format(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", common.ErrCaptureFailed)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", common.ErrCaptureFailed, err)
	}
	return format, nil
}

func extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
