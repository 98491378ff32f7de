package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
)

// ProjectOutput é o formato devolvido pela API para projetos.
type ProjectOutput struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	FullAmount     int64      `json:"full_amount"`
	InvestedAmount int64      `json:"invested_amount"`
	FullyInvested  bool       `json:"fully_invested"`
	CreateDate     time.Time  `json:"create_date"`
	CloseDate      *time.Time `json:"close_date,omitempty"`
}

// DonationOutput é o formato devolvido pela API para doações.
type DonationOutput struct {
	ID             int64      `json:"id"`
	Comment        *string    `json:"comment,omitempty"`
	FullAmount     int64      `json:"full_amount"`
	InvestedAmount int64      `json:"invested_amount"`
	FullyInvested  bool       `json:"fully_invested"`
	CreateDate     time.Time  `json:"create_date"`
	CloseDate      *time.Time `json:"close_date,omitempty"`
}

func newProjectOutput(p *domain.Project) ProjectOutput {
	return ProjectOutput{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		FullAmount:     p.FullAmount,
		InvestedAmount: p.InvestedAmount,
		FullyInvested:  p.FullyInvested,
		CreateDate:     p.CreateDate,
		CloseDate:      p.CloseDate,
	}
}

func newDonationOutput(d *domain.Donation) DonationOutput {
	return DonationOutput{
		ID:             d.ID,
		Comment:        d.Comment,
		FullAmount:     d.FullAmount,
		InvestedAmount: d.InvestedAmount,
		FullyInvested:  d.FullyInvested,
		CreateDate:     d.CreateDate,
		CloseDate:      d.CloseDate,
	}
}

type ListProjectsUseCase struct {
	projectRepository gateway.ProjectRepository
}

func NewListProjects(projectRepo gateway.ProjectRepository) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepository: projectRepo}
}

func (u *ListProjectsUseCase) Execute(ctx context.Context) ([]ProjectOutput, error) {
	projects, err := u.projectRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar projetos: %w", err)
	}

	outputs := make([]ProjectOutput, 0, len(projects))
	for _, project := range projects {
		outputs = append(outputs, newProjectOutput(project))
	}
	return outputs, nil
}

type ListDonationsUseCase struct {
	donationRepository gateway.DonationRepository
}

func NewListDonations(donationRepo gateway.DonationRepository) *ListDonationsUseCase {
	return &ListDonationsUseCase{donationRepository: donationRepo}
}

func (u *ListDonationsUseCase) Execute(ctx context.Context) ([]DonationOutput, error) {
	donations, err := u.donationRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar doações: %w", err)
	}

	outputs := make([]DonationOutput, 0, len(donations))
	for _, donation := range donations {
		outputs = append(outputs, newDonationOutput(donation))
	}
	return outputs, nil
}
