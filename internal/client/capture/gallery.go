package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dmitrijs2005/happyplaces/internal/common"
)

const galleryPattern = "**/*.{jpg,jpeg,png,gif,JPG,JPEG,PNG,GIF}"

// PickFunc lets the user pick one of the listed gallery images. It returns
// the chosen index, or -1 to cancel.
type PickFunc func(ctx context.Context, files []string) (int, error)

// Gallery offers the images found under a directory tree.
type Gallery struct {
	dir  string
	pick PickFunc
}

func NewGallery(dir string, pick PickFunc) *Gallery {
	return &Gallery{dir: dir, pick: pick}
}

// List returns gallery images relative to the gallery root, sorted.
func (g *Gallery) List() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(g.dir), galleryPattern)
	if err != nil {
		return nil, fmt.Errorf("glob gallery: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (g *Gallery) RequestImage(ctx context.Context) ([]byte, error) {
	files, err := g.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCaptureFailed, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: gallery %s is empty", common.ErrCaptureCancelled, g.dir)
	}

	i, err := g.pick(ctx, files)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(files) {
		return nil, common.ErrCaptureCancelled
	}

	data, err := os.ReadFile(filepath.Join(g.dir, filepath.FromSlash(files[i])))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrCaptureFailed, files[i], err)
	}
	return data, nil
}
