package usecase

import (
	"context"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CreateDonationInput define os dados necessários para registrar uma doação.
// Usamos DTOs (Data Transfer Objects) para não acoplar a API HTTP ao UseCase.
type CreateDonationInput struct {
	FullAmount int64 // Valor em centavos (ex: 1000 = R$ 10,00)
	Comment    *string
}

// CreateDonationUseCase contém as dependências necessárias.
type CreateDonationUseCase struct {
	donationRepository gateway.DonationRepository
	allocationRunner   *AllocationRunner
	transactionManager gateway.TransactionManager // Nosso "Unit of Work"
	eventPublisher     gateway.EventPublisher
}

func NewCreateDonation(
	donationRepo gateway.DonationRepository,
	runner *AllocationRunner,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *CreateDonationUseCase {
	return &CreateDonationUseCase{
		donationRepository: donationRepo,
		allocationRunner:   runner,
		transactionManager: txManager,
		eventPublisher:     publisher,
	}
}

// Execute cria a doação e distribui o valor entre os projetos abertos,
// tudo dentro de uma única transação (BEGIN ... COMMIT).
func (u *CreateDonationUseCase) Execute(ctx context.Context, input CreateDonationInput) (*DonationOutput, error) {
	if input.FullAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var refreshed *domain.Donation

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		// Recuperar o "crachá" da transação injetado pelo TransactionManager.Run
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		donationRepoTx := u.donationRepository.WithTx(transactionObject)

		donation := &domain.Donation{Comment: input.Comment}
		donation.FullAmount = input.FullAmount

		if err := donationRepoTx.Create(contextWithTx, donation); err != nil {
			return fmt.Errorf("falha ao registrar doação: %w", err)
		}

		// A doação recém-criada é a trigger; os projetos abertos, as candidatas.
		result, err := u.allocationRunner.Run(contextWithTx, transactionObject, donation, domain.KindProject)
		if err != nil {
			return err
		}

		refreshed = result.(*domain.Donation)
		return nil // Sucesso! O Commit será executado agora.
	})
	if err != nil {
		return nil, err
	}

	u.publishAllocated(ctx, refreshed)

	output := newDonationOutput(refreshed)
	return &output, nil
}

func (u *CreateDonationUseCase) publishAllocated(ctx context.Context, donation *domain.Donation) {
	if u.eventPublisher == nil {
		return
	}
	event := map[string]interface{}{
		"run_id":         uuid.New().String(),
		"kind":           string(domain.KindDonation),
		"entity_id":      donation.ID,
		"full_amount":    donation.FullAmount,
		"invested":       donation.InvestedAmount,
		"fully_invested": donation.FullyInvested,
	}
	// Evento é melhor esforço: falha vira log, nunca derruba a request.
	if err := u.eventPublisher.Publish(ctx, "fund_events", "allocation.donation", event); err != nil {
		log.Error().Err(err).Msg("Falha ao publicar evento de alocação")
	}
}
