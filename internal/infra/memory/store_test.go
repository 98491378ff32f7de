package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOpenOrderAndTieBreak(t *testing.T) {
	store := NewStore()
	// Mesmo create_date para todo mundo: o desempate tem que ser por id.
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return fixed }

	projects := NewProjectRepository(store)
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		p := &domain.Project{Name: name, Description: "d"}
		p.FullAmount = 10
		require.NoError(t, projects.Create(ctx, p))
	}

	entities, err := ledger.SelectOpen(ctx, domain.KindProject)
	require.NoError(t, err)
	require.Len(t, entities, 3)
	assert.Equal(t, int64(1), entities[0].Fund().ID)
	assert.Equal(t, int64(2), entities[1].Fund().ID)
	assert.Equal(t, int64(3), entities[2].Fund().ID)
}

func TestSelectOpenSkipsClosedEntities(t *testing.T) {
	store := NewStore()
	projects := NewProjectRepository(store)
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	open := &domain.Project{Name: "aberto", Description: "d"}
	open.FullAmount = 10
	require.NoError(t, projects.Create(ctx, open))

	closed := &domain.Project{Name: "fechado", Description: "d"}
	closed.FullAmount = 10
	require.NoError(t, projects.Create(ctx, closed))

	// Fecha o segundo via SaveAll, como a alocação faria.
	closed.InvestedAmount = 10
	closed.FullyInvested = true
	now := time.Now()
	closed.CloseDate = &now
	require.NoError(t, ledger.SaveAll(ctx, []domain.LedgerEntity{closed}))

	entities, err := ledger.SelectOpen(ctx, domain.KindProject)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, open.ID, entities[0].Fund().ID)
}

func TestSelectOpenReturnsCopies(t *testing.T) {
	store := NewStore()
	donations := NewDonationRepository(store)
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	donation := &domain.Donation{}
	donation.FullAmount = 50
	require.NoError(t, donations.Create(ctx, donation))

	entities, err := ledger.SelectOpen(ctx, domain.KindDonation)
	require.NoError(t, err)
	require.Len(t, entities, 1)

	// Mutação na cópia não vaza para o "banco" antes do SaveAll.
	entities[0].Fund().InvestedAmount = 50

	stored, err := donations.GetByID(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.InvestedAmount)
}

func TestRefreshReadsPersistedState(t *testing.T) {
	store := NewStore()
	donations := NewDonationRepository(store)
	ledger := NewLedgerRepository(store)
	ctx := context.Background()

	donation := &domain.Donation{}
	donation.FullAmount = 50
	require.NoError(t, donations.Create(ctx, donation))

	donation.InvestedAmount = 20
	require.NoError(t, ledger.SaveAll(ctx, []domain.LedgerEntity{donation}))

	refreshed, err := ledger.Refresh(ctx, donation)
	require.NoError(t, err)
	assert.Equal(t, int64(20), refreshed.Fund().InvestedAmount)
}
