package usecase

import (
	"context"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
)

type DeleteProjectUseCase struct {
	projectRepository  gateway.ProjectRepository
	transactionManager gateway.TransactionManager
}

func NewDeleteProject(
	projectRepo gateway.ProjectRepository,
	txManager gateway.TransactionManager,
) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{
		projectRepository:  projectRepo,
		transactionManager: txManager,
	}
}

// Execute remove o projeto. Projeto que já recebeu aporte não pode ser
// apagado, só fechado (regra verificada pelo domínio).
func (u *DeleteProjectUseCase) Execute(ctx context.Context, projectID int64) error {
	return u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		projectRepoTx := u.projectRepository.WithTx(transactionObject)

		project, err := projectRepoTx.GetByID(contextWithTx, projectID)
		if err != nil {
			return err
		}

		if err := project.CanDelete(); err != nil {
			return err
		}

		if err := projectRepoTx.Delete(contextWithTx, projectID); err != nil {
			return fmt.Errorf("falha ao remover projeto: %w", err)
		}
		return nil
	})
}
