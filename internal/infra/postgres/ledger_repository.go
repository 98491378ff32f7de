package postgres

import (
	"context"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository é o seam de alocação: enxerga projects e donations
// pelo mesmo contrato (LedgerEntity), escolhendo a tabela pelo kind.
type LedgerRepository struct {
	pool *pgxpool.Pool
	db   dbtx
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{
		pool: pool,
		db:   pool,
	}
}

// 🔐 FOR UPDATE: dentro da transação de alocação as candidatas ficam
// travadas até o commit; duas rodadas concorrentes nunca enxergam a
// mesma candidata como aberta.
const (
	selectOpenProjects = `SELECT ` + projectColumns + ` FROM projects
		WHERE fully_invested = FALSE
		ORDER BY create_date ASC, id ASC
		FOR UPDATE`

	selectOpenDonations = `SELECT ` + donationColumns + ` FROM donations
		WHERE fully_invested = FALSE
		ORDER BY create_date ASC, id ASC
		FOR UPDATE`

	updateProjectFund  = `UPDATE projects SET invested_amount = $1, fully_invested = $2, close_date = $3 WHERE id = $4`
	updateDonationFund = `UPDATE donations SET invested_amount = $1, fully_invested = $2, close_date = $3 WHERE id = $4`
)

func (r *LedgerRepository) SelectOpen(ctx context.Context, kind domain.EntityKind) ([]domain.LedgerEntity, error) {
	query := selectOpenDonations
	if kind == domain.KindProject {
		query = selectOpenProjects
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select open %s entities: %w", kind, err)
	}
	defer rows.Close()

	var entities []domain.LedgerEntity
	for rows.Next() {
		var entity domain.LedgerEntity
		if kind == domain.KindProject {
			entity, err = scanProject(rows)
		} else {
			entity, err = scanDonation(rows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan open %s entity: %w", kind, err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to select open %s entities: %w", kind, err)
	}
	return entities, nil
}

// SaveAll grava os contadores do conjunto mutado em lote (pgx.Batch).
// Rodando dentro da transação do UoW, o lote inteiro comita ou nada comita.
func (r *LedgerRepository) SaveAll(ctx context.Context, entities []domain.LedgerEntity) error {
	if len(entities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entity := range entities {
		query := updateDonationFund
		if entity.Kind() == domain.KindProject {
			query = updateProjectFund
		}
		fund := entity.Fund()
		batch.Queue(query, fund.InvestedAmount, fund.FullyInvested, ptrToTimestamptz(fund.CloseDate), fund.ID)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, entity := range entities {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("failed to save allocation batch: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("failed to save allocation batch: %s %d vanished mid-transaction",
				entity.Kind(), entity.Fund().ID)
		}
	}
	return nil
}

// Refresh relê a entidade do banco (estado pós-gravação).
func (r *LedgerRepository) Refresh(ctx context.Context, entity domain.LedgerEntity) (domain.LedgerEntity, error) {
	id := entity.Fund().ID
	if entity.Kind() == domain.KindProject {
		query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
		project, err := scanProject(r.db.QueryRow(ctx, query, id))
		if err != nil {
			return nil, fmt.Errorf("failed to refresh project %d: %w", id, err)
		}
		return project, nil
	}

	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	donation, err := scanDonation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to refresh donation %d: %w", id, err)
	}
	return donation, nil
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &LedgerRepository{
		pool: r.pool,
		db:   pgTx,
	}
}

var _ gateway.LedgerRepository = (*LedgerRepository)(nil)
