// Package location resolves the device position through a Provider and
// keeps the most recent fix for the "current position" marker.
package location

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/common"
)

// Accuracy is a hint passed to the provider.
type Accuracy string

const (
	AccuracyHigh     Accuracy = "high"
	AccuracyBalanced Accuracy = "balanced"
	AccuracyLow      Accuracy = "low"
)

// ParseAccuracy maps a config value to an Accuracy, defaulting to high.
func ParseAccuracy(s string) Accuracy {
	switch Accuracy(s) {
	case AccuracyBalanced, AccuracyLow:
		return Accuracy(s)
	default:
		return AccuracyHigh
	}
}

// Provider performs a single-shot asynchronous fix.
type Provider interface {
	RequestCurrentFix(ctx context.Context, accuracy Accuracy) (models.Coordinate, error)
}

// Static answers every request with a configured coordinate. An unset
// Static reports common.ErrLocationUnavailable.
type Static struct {
	mu  sync.RWMutex
	fix *models.Coordinate
}

func NewStatic(fix *models.Coordinate) *Static {
	return &Static{fix: fix}
}

// Set replaces the configured fix; nil makes the provider unavailable.
func (s *Static) Set(fix *models.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fix = fix
}

func (s *Static) RequestCurrentFix(ctx context.Context, _ Accuracy) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fix == nil {
		return models.Coordinate{}, common.ErrLocationUnavailable
	}
	return *s.fix, nil
}
