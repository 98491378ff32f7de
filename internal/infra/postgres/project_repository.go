package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, name, description, full_amount, invested_amount, fully_invested, create_date, close_date`

// ProjectRepository implementa gateway.ProjectRepository usando pgx/v5
type ProjectRepository struct {
	pool *pgxpool.Pool //  Usamos pgxpool em vez de sql.DB
	db   dbtx          // pool ou pgx.Tx, conforme WithTx
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		pool: pool,
		db:   pool,
	}
}

// Create insere um novo projeto; id, create_date e contadores vêm do banco.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `INSERT INTO projects (name, description, full_amount)
		VALUES ($1, $2, $3)
		RETURNING id, invested_amount, fully_invested, create_date`

	var create pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, project.Name, project.Description, project.FullAmount).
		Scan(&project.ID, &project.InvestedAmount, &project.FullyInvested, &create)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNameTaken
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	project.CreateDate = create.Time
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		// pgx retorna pgx.ErrNoRows, diferente de sql.ErrNoRows
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// GetIDByName devolve o id do projeto com aquele nome, se existir.
// Usado na verificação de unicidade antes de criar/renomear.
func (r *ProjectRepository) GetIDByName(ctx context.Context, name string) (int64, bool, error) {
	const query = `SELECT id FROM projects WHERE name = $1`

	var id int64
	err := r.db.QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up project name: %w", err)
	}
	return id, true, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update grava os campos editáveis. invested_amount pertence ao SaveAll
// da alocação e não passa por aqui, mas fully_invested/close_date sim:
// reduzir o alvo até o valor investido fecha o projeto na edição.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `UPDATE projects
		SET name = $1, description = $2, full_amount = $3, fully_invested = $4, close_date = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		project.Name, project.Description, project.FullAmount,
		project.FullyInvested, ptrToTimestamptz(project.CloseDate), project.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNameTaken
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM projects WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *ProjectRepository) WithTx(tx gateway.TransactionObject) gateway.ProjectRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &ProjectRepository{
		pool: r.pool,
		db:   pgTx,
	}
}

var _ gateway.ProjectRepository = (*ProjectRepository)(nil)
