package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
)

// UpdateProjectInput usa ponteiros: nil significa "não alterar".
type UpdateProjectInput struct {
	ProjectID   int64
	Name        *string
	Description *string
	FullAmount  *int64
}

type UpdateProjectUseCase struct {
	projectRepository  gateway.ProjectRepository
	transactionManager gateway.TransactionManager
}

func NewUpdateProject(
	projectRepo gateway.ProjectRepository,
	txManager gateway.TransactionManager,
) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{
		projectRepository:  projectRepo,
		transactionManager: txManager,
	}
}

// Execute aplica a edição respeitando as regras: projeto fechado é imutável,
// o alvo não pode ficar abaixo do investido e o nome continua único.
// A edição não dispara realocação, pois o saldo já investido não se move.
// Caso o novo alvo seja exatamente o valor já investido, o projeto sai
// daqui fechado.
func (u *UpdateProjectUseCase) Execute(ctx context.Context, input UpdateProjectInput) (*ProjectOutput, error) {
	var updated *domain.Project

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		projectRepoTx := u.projectRepository.WithTx(transactionObject)

		project, err := projectRepoTx.GetByID(contextWithTx, input.ProjectID)
		if err != nil {
			return err
		}

		if input.Name != nil && *input.Name != project.Name {
			if id, exists, err := projectRepoTx.GetIDByName(contextWithTx, *input.Name); err != nil {
				return fmt.Errorf("falha ao verificar nome do projeto: %w", err)
			} else if exists && id != project.ID {
				return domain.ErrNameTaken
			}
		}

		if err := project.ApplyUpdate(input.Name, input.Description, input.FullAmount, time.Now().UTC()); err != nil {
			return err
		}

		if err := projectRepoTx.Update(contextWithTx, project); err != nil {
			return fmt.Errorf("falha ao atualizar projeto: %w", err)
		}

		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	output := newProjectOutput(updated)
	return &output, nil
}
