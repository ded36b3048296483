// Package capture provides the image sources a capture session can draw
// from. Camera and gallery results are plain image bytes; callers treat
// them identically.
package capture

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/happyplaces/internal/common"
)

// ImageCapture produces one still image per request. A user backing out
// yields common.ErrCaptureCancelled.
type ImageCapture interface {
	RequestImage(ctx context.Context) ([]byte, error)
}

// Func adapts a plain function to ImageCapture.
type Func func(ctx context.Context) ([]byte, error)

func (f Func) RequestImage(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// ChooseFunc asks which of the named sources to use. An empty name cancels.
type ChooseFunc func(ctx context.Context, names []string) (string, error)

// Chooser offers several sources per request, like a "select or take a
// picture" dialog.
type Chooser struct {
	sources map[string]ImageCapture
	choose  ChooseFunc
}

func NewChooser(choose ChooseFunc, sources map[string]ImageCapture) *Chooser {
	return &Chooser{sources: sources, choose: choose}
}

// Names returns the source names in a stable order.
func (c *Chooser) Names() []string {
	names := make([]string, 0, len(c.sources))
	for n := range c.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Chooser) RequestImage(ctx context.Context) ([]byte, error) {
	if len(c.sources) == 0 {
		return nil, fmt.Errorf("%w: no image sources configured", common.ErrCaptureFailed)
	}

	name, err := c.choose(ctx, c.Names())
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, common.ErrCaptureCancelled
	}

	src, ok := c.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source %q", common.ErrCaptureCancelled, name)
	}
	return src.RequestImage(ctx)
}
