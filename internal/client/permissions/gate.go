// Package permissions models the runtime permission prompts the client
// needs before using location and camera.
package permissions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
)

// Gate answers and requests runtime permissions. A denial is an ordinary
// false result, never an error; errors mean the prompt itself failed.
type Gate interface {
	HasPermission(kind models.PermissionKind) bool
	Request(ctx context.Context, kind models.PermissionKind) (bool, error)
}

// AskFunc shows a permission prompt and returns the user's answer.
type AskFunc func(ctx context.Context, kind models.PermissionKind) (bool, error)

// PromptGate asks once per kind and remembers grants for the rest of the
// process. Denials are not remembered, so the user can be asked again.
type PromptGate struct {
	mu      sync.Mutex
	granted map[models.PermissionKind]bool
	ask     AskFunc
}

func NewPromptGate(ask AskFunc) *PromptGate {
	return &PromptGate{granted: make(map[models.PermissionKind]bool), ask: ask}
}

func (g *PromptGate) HasPermission(kind models.PermissionKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted[kind]
}

func (g *PromptGate) Request(ctx context.Context, kind models.PermissionKind) (bool, error) {
	if g.HasPermission(kind) {
		return true, nil
	}

	ok, err := g.ask(ctx, kind)
	if err != nil {
		return false, err
	}

	if ok {
		g.mu.Lock()
		g.granted[kind] = true
		g.mu.Unlock()
	}
	return ok, nil
}

// Static is a fixed set of grants, for non-interactive runs and tests.
type Static map[models.PermissionKind]bool

func (s Static) HasPermission(kind models.PermissionKind) bool {
	return s[kind]
}

func (s Static) Request(ctx context.Context, kind models.PermissionKind) (bool, error) {
	return s[kind], nil
}

// AllowAll grants every kind.
func AllowAll() Static {
	return Static{models.PermissionLocation: true, models.PermissionCamera: true}
}
