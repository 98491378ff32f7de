package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestProjectApplyUpdate(t *testing.T) {
	project := newProject(1, 100, 40, 0)

	err := project.ApplyUpdate(strPtr("Novo nome"), nil, int64Ptr(150), baseDate)
	require.NoError(t, err)
	assert.Equal(t, "Novo nome", project.Name)
	assert.Equal(t, int64(150), project.FullAmount)
	assert.Equal(t, "Reforma do abrigo", project.Description)
	assert.False(t, project.FullyInvested)
}

func TestProjectApplyUpdateRejectsAmountBelowInvested(t *testing.T) {
	project := newProject(1, 100, 40, 0)

	err := project.ApplyUpdate(nil, nil, int64Ptr(30), baseDate)
	assert.ErrorIs(t, err, ErrFullAmountTooLow)
	assert.Equal(t, int64(100), project.FullAmount)
}

func TestProjectApplyUpdateRejectsNonPositiveAmount(t *testing.T) {
	project := newProject(1, 100, 0, 0)

	err := project.ApplyUpdate(nil, nil, int64Ptr(0), baseDate)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestProjectApplyUpdateClosesOnShrinkToInvested(t *testing.T) {
	// Reduzir o alvo até o valor já investido fecha o projeto na hora:
	// invested == full nunca fica em aberto.
	now := baseDate.Add(time.Hour)
	project := newProject(1, 100, 40, 0)

	err := project.ApplyUpdate(nil, nil, int64Ptr(40), now)
	require.NoError(t, err)

	assert.Equal(t, int64(40), project.FullAmount)
	assert.True(t, project.FullyInvested)
	require.NotNil(t, project.CloseDate)
	assert.Equal(t, now, *project.CloseDate)
}

func TestProjectApplyUpdateRejectsClosedProject(t *testing.T) {
	project := newProject(1, 50, 50, 0)
	project.close(baseDate.Add(time.Hour))

	err := project.ApplyUpdate(strPtr("Tarde demais"), nil, nil, baseDate)
	assert.ErrorIs(t, err, ErrProjectClosed)
}

func TestProjectCanDelete(t *testing.T) {
	fresh := newProject(1, 100, 0, 0)
	assert.NoError(t, fresh.CanDelete())

	funded := newProject(2, 100, 1, 0)
	assert.ErrorIs(t, funded.CanDelete(), ErrProjectInvested)
}
