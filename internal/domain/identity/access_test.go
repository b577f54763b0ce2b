package identity

import (
	"errors"
	"testing"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBranch(t *testing.T) {
	home := uuid.New()
	other := uuid.New()

	t.Run("CEO without request is unscoped", func(t *testing.T) {
		ceo := NewActor(uuid.New(), RoleCEO, nil)
		got, err := ResolveBranch(ceo, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("CEO request becomes explicit filter", func(t *testing.T) {
		ceo := NewActor(uuid.New(), RoleCEO, &home)
		got, err := ResolveBranch(ceo, &other)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, other, *got)
	})

	t.Run("manager is pinned to home branch", func(t *testing.T) {
		mgr := NewActor(uuid.New(), RoleManager, &home)
		got, err := ResolveBranch(mgr, nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, home, *got)

		got, err = ResolveBranch(mgr, &home)
		require.NoError(t, err)
		assert.Equal(t, home, *got)
	})

	t.Run("non-CEO asking for another branch is denied", func(t *testing.T) {
		for _, role := range []Role{RoleManager, RoleSalesAgent} {
			actor := NewActor(uuid.New(), role, &home)
			got, err := ResolveBranch(actor, &other)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, shared.ErrAccessDenied), "role %s", role)
		}
	})

	t.Run("non-CEO without home branch is denied", func(t *testing.T) {
		agent := NewActor(uuid.New(), RoleSalesAgent, nil)
		_, err := ResolveBranch(agent, nil)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("nil uuid is treated as absent", func(t *testing.T) {
		agent := NewActor(uuid.New(), RoleSalesAgent, &home)
		nilID := uuid.Nil
		got, err := ResolveBranch(agent, &nilID)
		require.NoError(t, err)
		assert.Equal(t, home, *got)
	})
}

func TestResolveWriteBranch(t *testing.T) {
	home := uuid.New()

	t.Run("requires a branch", func(t *testing.T) {
		ceo := NewActor(uuid.New(), RoleCEO, nil)
		_, err := ResolveWriteBranch(ceo, uuid.Nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("rejects foreign branch regardless of payload", func(t *testing.T) {
		agent := NewActor(uuid.New(), RoleSalesAgent, &home)
		for i := 0; i < 10; i++ {
			_, err := ResolveWriteBranch(agent, uuid.New())
			assert.True(t, errors.Is(err, shared.ErrAccessDenied))
		}
	})

	t.Run("CEO may write anywhere", func(t *testing.T) {
		ceo := NewActor(uuid.New(), RoleCEO, nil)
		target := uuid.New()
		got, err := ResolveWriteBranch(ceo, target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})
}

func TestCheckOwnership(t *testing.T) {
	home := uuid.New()
	mgr := NewActor(uuid.New(), RoleManager, &home)

	assert.NoError(t, CheckOwnership(mgr, home))
	assert.True(t, errors.Is(CheckOwnership(mgr, uuid.New()), shared.ErrAccessDenied))
	assert.NoError(t, CheckOwnership(NewActor(uuid.New(), RoleCEO, nil), uuid.New()))
}

func TestNewActor_CopiesBranch(t *testing.T) {
	b := uuid.New()
	a := NewActor(uuid.New(), RoleManager, &b)
	b = uuid.New()
	require.NotNil(t, a.BranchID)
	assert.NotEqual(t, b, *a.BranchID)
}
