// Package memory guarda o fundo inteiro em memória, protegido por mutex.
// Serve de dublê de storage nos testes de usecase e para rodar a API
// localmente sem Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
)

// Store é o estado compartilhado entre os repositórios em memória.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	projects  map[int64]*domain.Project
	donations map[int64]*domain.Donation

	// Now é trocável nos testes para datas determinísticas.
	Now func() time.Time

	// SaveErr, quando setado, faz o próximo SaveAll falhar (simula
	// falha de storage no commit).
	SaveErr error
}

func NewStore() *Store {
	return &Store{
		nextID:    1,
		projects:  make(map[int64]*domain.Project),
		donations: make(map[int64]*domain.Donation),
		Now:       time.Now,
	}
}

func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// Cópias defensivas: quem está fora do "banco" nunca segura o mesmo
// ponteiro que está guardado, igual a uma linha lida de verdade.
func copyProject(p *domain.Project) *domain.Project {
	clone := *p
	if p.CloseDate != nil {
		closed := *p.CloseDate
		clone.CloseDate = &closed
	}
	return &clone
}

func copyDonation(d *domain.Donation) *domain.Donation {
	clone := *d
	if d.CloseDate != nil {
		closed := *d.CloseDate
		clone.CloseDate = &closed
	}
	if d.Comment != nil {
		comment := *d.Comment
		clone.Comment = &comment
	}
	return &clone
}

// TxManager é o TransactionManager de memória: não há BEGIN/COMMIT,
// apenas injeta um crachá não-nulo para satisfazer o contrato do UoW.
type TxManager struct{}

type memoryTx struct{}

func (TxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, gateway.TransactionKey, memoryTx{}))
}

// LedgerRepository implementa o seam de alocação sobre o Store.
type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) SelectOpen(ctx context.Context, kind domain.EntityKind) ([]domain.LedgerEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var entities []domain.LedgerEntity
	if kind == domain.KindProject {
		for _, project := range s.projects {
			if project.Open() {
				entities = append(entities, copyProject(project))
			}
		}
	} else {
		for _, donation := range s.donations {
			if donation.Open() {
				entities = append(entities, copyDonation(donation))
			}
		}
	}

	// Mesma ordenação do SELECT: create_date ASC, desempate por id.
	sort.Slice(entities, func(i, j int) bool {
		a, b := entities[i].Fund(), entities[j].Fund()
		if a.CreateDate.Equal(b.CreateDate) {
			return a.ID < b.ID
		}
		return a.CreateDate.Before(b.CreateDate)
	})
	return entities, nil
}

func (r *LedgerRepository) SaveAll(ctx context.Context, entities []domain.LedgerEntity) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		err := s.SaveErr
		s.SaveErr = nil
		return err
	}

	for _, entity := range entities {
		switch e := entity.(type) {
		case *domain.Project:
			stored, ok := s.projects[e.ID]
			if !ok {
				return domain.ErrProjectNotFound
			}
			stored.InvestedAmount = e.InvestedAmount
			stored.FullyInvested = e.FullyInvested
			stored.CloseDate = e.CloseDate
		case *domain.Donation:
			stored, ok := s.donations[e.ID]
			if !ok {
				return domain.ErrDonationNotFound
			}
			stored.InvestedAmount = e.InvestedAmount
			stored.FullyInvested = e.FullyInvested
			stored.CloseDate = e.CloseDate
		}
	}
	return nil
}

func (r *LedgerRepository) Refresh(ctx context.Context, entity domain.LedgerEntity) (domain.LedgerEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.Fund().ID
	if entity.Kind() == domain.KindProject {
		stored, ok := s.projects[id]
		if !ok {
			return nil, domain.ErrProjectNotFound
		}
		return copyProject(stored), nil
	}
	stored, ok := s.donations[id]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	return copyDonation(stored), nil
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	return r
}

// ProjectRepository implementa gateway.ProjectRepository sobre o Store.
type ProjectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	project.ID = s.allocateID()
	project.CreateDate = s.Now()
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return copyProject(stored), nil
}

func (r *ProjectRepository) GetIDByName(ctx context.Context, name string) (int64, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, project := range s.projects {
		if project.Name == name {
			return project.ID, true, nil
		}
	}
	return 0, false, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*domain.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, copyProject(project))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.projects[project.ID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	stored.Name = project.Name
	stored.Description = project.Description
	stored.FullAmount = project.FullAmount
	stored.FullyInvested = project.FullyInvested
	stored.CloseDate = project.CloseDate
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (r *ProjectRepository) WithTx(tx gateway.TransactionObject) gateway.ProjectRepository {
	return r
}

// DonationRepository implementa gateway.DonationRepository sobre o Store.
type DonationRepository struct {
	store *Store
}

func NewDonationRepository(store *Store) *DonationRepository {
	return &DonationRepository{store: store}
}

func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	donation.ID = s.allocateID()
	donation.CreateDate = s.Now()
	s.donations[donation.ID] = copyDonation(donation)
	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.donations[id]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	return copyDonation(stored), nil
}

func (r *DonationRepository) List(ctx context.Context) ([]*domain.Donation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	donations := make([]*domain.Donation, 0, len(s.donations))
	for _, donation := range s.donations {
		donations = append(donations, copyDonation(donation))
	}
	sort.Slice(donations, func(i, j int) bool { return donations[i].ID < donations[j].ID })
	return donations, nil
}

func (r *DonationRepository) WithTx(tx gateway.TransactionObject) gateway.DonationRepository {
	return r
}

// Compile-time checks
var (
	_ gateway.LedgerRepository   = (*LedgerRepository)(nil)
	_ gateway.ProjectRepository  = (*ProjectRepository)(nil)
	_ gateway.DonationRepository = (*DonationRepository)(nil)
	_ gateway.TransactionManager = TxManager{}
)
