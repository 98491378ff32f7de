package domain

import "time"

// Project representa um projeto beneficente aguardando financiamento.
type Project struct {
	FundBase
	Name        string
	Description string
}

func (p *Project) Kind() EntityKind { return KindProject }
func (p *Project) Fund() *FundBase  { return &p.FundBase }

// CanDelete valida a regra de remoção: projeto com aporte não pode ser apagado.
func (p *Project) CanDelete() error {
	if p.InvestedAmount != 0 {
		return ErrProjectInvested
	}
	return nil
}

// ApplyUpdate altera os campos editáveis respeitando as regras de negócio:
// projeto fechado é imutável e o alvo nunca fica abaixo do já investido.
// Se o novo alvo cair exatamente no valor já investido, o projeto fecha
// aqui mesmo (invested == full nunca fica em aberto).
func (p *Project) ApplyUpdate(name, description *string, fullAmount *int64, now time.Time) error {
	if p.FullyInvested {
		return ErrProjectClosed
	}
	if fullAmount != nil {
		if *fullAmount <= 0 {
			return ErrInvalidAmount
		}
		if *fullAmount < p.InvestedAmount {
			return ErrFullAmountTooLow
		}
		p.FullAmount = *fullAmount
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if p.InvestedAmount == p.FullAmount {
		p.close(now)
	}
	return nil
}
