package usecase

import (
	"context"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CreateProjectInput struct {
	Name        string
	Description string
	FullAmount  int64
}

type CreateProjectUseCase struct {
	projectRepository  gateway.ProjectRepository
	allocationRunner   *AllocationRunner
	transactionManager gateway.TransactionManager
	eventPublisher     gateway.EventPublisher
}

func NewCreateProject(
	projectRepo gateway.ProjectRepository,
	runner *AllocationRunner,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projectRepository:  projectRepo,
		allocationRunner:   runner,
		transactionManager: txManager,
		eventPublisher:     publisher,
	}
}

// Execute cria o projeto e já consome as doações abertas, na ordem de
// chegada, dentro de uma única transação.
func (u *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*ProjectOutput, error) {
	if input.FullAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var refreshed *domain.Project

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		projectRepoTx := u.projectRepository.WithTx(transactionObject)

		// Nome é único: a verificação roda na mesma transação da criação.
		if _, exists, err := projectRepoTx.GetIDByName(contextWithTx, input.Name); err != nil {
			return fmt.Errorf("falha ao verificar nome do projeto: %w", err)
		} else if exists {
			return domain.ErrNameTaken
		}

		project := &domain.Project{
			Name:        input.Name,
			Description: input.Description,
		}
		project.FullAmount = input.FullAmount

		if err := projectRepoTx.Create(contextWithTx, project); err != nil {
			return fmt.Errorf("falha ao criar projeto: %w", err)
		}

		result, err := u.allocationRunner.Run(contextWithTx, transactionObject, project, domain.KindDonation)
		if err != nil {
			return err
		}

		refreshed = result.(*domain.Project)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publishAllocated(ctx, refreshed)

	output := newProjectOutput(refreshed)
	return &output, nil
}

func (u *CreateProjectUseCase) publishAllocated(ctx context.Context, project *domain.Project) {
	if u.eventPublisher == nil {
		return
	}
	event := map[string]interface{}{
		"run_id":         uuid.New().String(),
		"kind":           string(domain.KindProject),
		"entity_id":      project.ID,
		"full_amount":    project.FullAmount,
		"invested":       project.InvestedAmount,
		"fully_invested": project.FullyInvested,
	}
	if err := u.eventPublisher.Publish(ctx, "fund_events", "allocation.project", event); err != nil {
		log.Error().Err(err).Msg("Falha ao publicar evento de alocação")
	}
}
