package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptGate_RemembersGrant(t *testing.T) {
	asked := 0
	g := NewPromptGate(func(ctx context.Context, kind models.PermissionKind) (bool, error) {
		asked++
		return true, nil
	})
	ctx := context.Background()

	assert.False(t, g.HasPermission(models.PermissionCamera))

	ok, err := g.Request(ctx, models.PermissionCamera)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.HasPermission(models.PermissionCamera))

	ok, err = g.Request(ctx, models.PermissionCamera)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, asked, "granted permission is not asked again")

	assert.False(t, g.HasPermission(models.PermissionLocation), "grants are per kind")
}

func TestPromptGate_DenialCanBeRetried(t *testing.T) {
	answers := []bool{false, true}
	g := NewPromptGate(func(ctx context.Context, kind models.PermissionKind) (bool, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	})
	ctx := context.Background()

	ok, err := g.Request(ctx, models.PermissionCamera)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, g.HasPermission(models.PermissionCamera))

	ok, err = g.Request(ctx, models.PermissionCamera)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPromptGate_PromptError(t *testing.T) {
	boom := errors.New("stdin closed")
	g := NewPromptGate(func(ctx context.Context, kind models.PermissionKind) (bool, error) {
		return false, boom
	})

	ok, err := g.Request(context.Background(), models.PermissionLocation)
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestStatic(t *testing.T) {
	s := Static{models.PermissionLocation: true}
	assert.True(t, s.HasPermission(models.PermissionLocation))
	assert.False(t, s.HasPermission(models.PermissionCamera))

	ok, err := s.Request(context.Background(), models.PermissionCamera)
	require.NoError(t, err)
	assert.False(t, ok)

	all := AllowAll()
	assert.True(t, all.HasPermission(models.PermissionCamera))
}
