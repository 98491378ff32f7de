package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/infra/memory"
	"github.com/Anya-sl/cat-charity-fund/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type publishedEvent struct {
	Exchange   string
	RoutingKey string
	Body       interface{}
}

// recordingPublisher captura os eventos em vez de falar com o RabbitMQ.
type recordingPublisher struct {
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Exchange: exchange, RoutingKey: routingKey, Body: body})
	return nil
}

type fixture struct {
	store     *memory.Store
	projects  *memory.ProjectRepository
	donations *memory.DonationRepository
	runner    *usecase.AllocationRunner
	txManager memory.TxManager
	publisher *recordingPublisher
}

func newFixture() *fixture {
	store := memory.NewStore()
	// Relógio determinístico: cada Create acontece um minuto depois do anterior.
	tick := 0
	store.Now = func() time.Time {
		tick++
		return testBase.Add(time.Duration(tick) * time.Minute)
	}
	return &fixture{
		store:     store,
		projects:  memory.NewProjectRepository(store),
		donations: memory.NewDonationRepository(store),
		runner:    usecase.NewAllocationRunner(memory.NewLedgerRepository(store)),
		publisher: &recordingPublisher{},
	}
}

func (f *fixture) seedProject(t *testing.T, name string, fullAmount int64) *domain.Project {
	t.Helper()
	project := &domain.Project{Name: name, Description: "descrição"}
	project.FullAmount = fullAmount
	require.NoError(t, f.projects.Create(context.Background(), project))
	return project
}

func (f *fixture) createDonationUC() *usecase.CreateDonationUseCase {
	return usecase.NewCreateDonation(f.donations, f.runner, f.txManager, f.publisher)
}

func TestCreateDonationAllocatesOldestProjectFirst(t *testing.T) {
	f := newFixture()
	older := f.seedProject(t, "Ração", 60)
	newer := f.seedProject(t, "Vacinas", 50)

	output, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{FullAmount: 100})
	require.NoError(t, err)

	// A doação de 100 fecha o projeto mais antigo (60) e deixa 40 no seguinte.
	assert.Equal(t, int64(100), output.InvestedAmount)
	assert.True(t, output.FullyInvested)
	require.NotNil(t, output.CloseDate)

	storedOlder, err := f.projects.GetByID(context.Background(), older.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), storedOlder.InvestedAmount)
	assert.True(t, storedOlder.FullyInvested)

	storedNewer, err := f.projects.GetByID(context.Background(), newer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), storedNewer.InvestedAmount)
	assert.False(t, storedNewer.FullyInvested)
}

func TestCreateDonationWithoutOpenProjects(t *testing.T) {
	f := newFixture()

	output, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{FullAmount: 30})
	require.NoError(t, err)

	assert.Equal(t, int64(0), output.InvestedAmount)
	assert.False(t, output.FullyInvested)
	assert.Nil(t, output.CloseDate)
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture()

	_, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{FullAmount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	donations, err := f.donations.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestCreateDonationStorageFaultLeavesProjectsUntouched(t *testing.T) {
	f := newFixture()
	project := f.seedProject(t, "Castração", 80)

	f.store.SaveErr = errors.New("connection reset")

	_, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{FullAmount: 80})
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")

	// Falha de storage: nenhuma alocação parcial fica visível.
	stored, err := f.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.InvestedAmount)
	assert.False(t, stored.FullyInvested)

	// Nenhum evento é publicado em caso de erro.
	assert.Empty(t, f.publisher.events)
}

func TestCreateDonationPublishesAllocationEvent(t *testing.T) {
	f := newFixture()
	f.seedProject(t, "Brinquedos", 20)

	_, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{FullAmount: 20})
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, "fund_events", event.Exchange)
	assert.Equal(t, "allocation.donation", event.RoutingKey)

	body, ok := event.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(20), body["invested"])
	assert.Equal(t, true, body["fully_invested"])
	assert.NotEmpty(t, body["run_id"])
}

func TestCreateDonationKeepsCommentAndExactMatchClosesBoth(t *testing.T) {
	f := newFixture()
	project := f.seedProject(t, "Telhado", 20)

	comment := "para o telhado"
	output, err := f.createDonationUC().Execute(context.Background(), usecase.CreateDonationInput{
		FullAmount: 20,
		Comment:    &comment,
	})
	require.NoError(t, err)

	require.NotNil(t, output.Comment)
	assert.Equal(t, comment, *output.Comment)
	assert.True(t, output.FullyInvested)

	stored, err := f.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	require.True(t, stored.FullyInvested)
	require.NotNil(t, stored.CloseDate)
	require.NotNil(t, output.CloseDate)
	// Fecharam na mesma rodada: mesmo close_date.
	assert.Equal(t, *stored.CloseDate, *output.CloseDate)
}
