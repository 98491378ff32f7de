package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
)

// AllocationRunner executa uma rodada de alocação: carrega as candidatas
// abertas do tipo oposto, roda o algoritmo em memória e grava o conjunto
// mutado. Sempre chamado de dentro de uma transação já aberta: quem abre
// (e comita) é o usecase de criação.
type AllocationRunner struct {
	ledgerRepository gateway.LedgerRepository
}

func NewAllocationRunner(ledgerRepo gateway.LedgerRepository) *AllocationRunner {
	return &AllocationRunner{
		ledgerRepository: ledgerRepo,
	}
}

// Run devolve a trigger relida após a gravação.
// Em caso de erro de storage, nada foi aplicado (rollback fica por conta
// do TransactionManager) e as mutações em memória devem ser descartadas.
func (r *AllocationRunner) Run(
	ctx context.Context,
	tx gateway.TransactionObject,
	trigger domain.LedgerEntity,
	counterKind domain.EntityKind,
) (domain.LedgerEntity, error) {
	ledgerRepoTx := r.ledgerRepository.WithTx(tx)

	candidates, err := ledgerRepoTx.SelectOpen(ctx, counterKind)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar candidatas abertas (%s): %w", counterKind, err)
	}

	// Um único timestamp para todos os fechamentos da rodada: entidades
	// fechadas juntas ficam indistinguíveis na ordenação por close_date.
	mutated, err := domain.Allocate(trigger, candidates, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := ledgerRepoTx.SaveAll(ctx, mutated); err != nil {
		return nil, fmt.Errorf("falha ao gravar resultado da alocação: %w", err)
	}

	refreshed, err := ledgerRepoTx.Refresh(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("falha ao reler a entidade após alocação: %w", err)
	}
	return refreshed, nil
}
