package gateway

import (
	"context"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
)

// LedgerRepository é o seam consumido pelo motor de alocação.
// O Usecase só interage com isso, sem saber se é Postgres ou memória.
type LedgerRepository interface {
	// SelectOpen retorna as entidades ainda abertas do tipo pedido,
	// ordenadas por data de criação (desempate por id). Só leitura.
	SelectOpen(ctx context.Context, kind domain.EntityKind) ([]domain.LedgerEntity, error)

	// SaveAll persiste o conjunto mutado de uma alocação. Deve rodar
	// dentro da transação corrente: ou grava tudo, ou nada.
	SaveAll(ctx context.Context, entities []domain.LedgerEntity) error

	// Refresh relê o estado persistido da entidade.
	Refresh(ctx context.Context, entity domain.LedgerEntity) (domain.LedgerEntity, error)

	// WithTx retorna uma cópia do repositório ligada àquela transação.
	WithTx(tx TransactionObject) LedgerRepository
}

// ProjectRepository define o contrato de persistência de projetos.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetIDByName(ctx context.Context, name string) (int64, bool, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error

	WithTx(tx TransactionObject) ProjectRepository
}

// DonationRepository define o contrato de persistência de doações.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByID(ctx context.Context, id int64) (*domain.Donation, error)
	List(ctx context.Context) ([]*domain.Donation, error)

	WithTx(tx TransactionObject) DonationRepository
}
