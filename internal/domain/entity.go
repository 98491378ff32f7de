package domain

import "time"

// EntityKind identifica o tipo concreto de uma entidade do fundo.
type EntityKind string

const (
	KindProject  EntityKind = "project"
	KindDonation EntityKind = "donation"
)

// Counter retorna o tipo oposto: doações investem em projetos e vice-versa.
func (k EntityKind) Counter() EntityKind {
	if k == KindProject {
		return KindDonation
	}
	return KindProject
}

// FundBase é o estado compartilhado entre Project e Donation.
// Clean Architecture: Esta entidade não sabe o que é JSON nem SQL.
type FundBase struct {
	ID             int64
	FullAmount     int64 // valor alvo em centavos (ex: 1000 = R$ 10,00)
	InvestedAmount int64
	FullyInvested  bool
	CreateDate     time.Time
	CloseDate      *time.Time
}

// LedgerEntity é a capacidade comum que o motor de alocação enxerga.
// Project e Donation são intercambiáveis para o algoritmo.
type LedgerEntity interface {
	Kind() EntityKind
	Fund() *FundBase
}

// Métodos de domínio (Lógica pura)

// Room retorna quanto ainda falta para a entidade atingir o alvo.
func (f *FundBase) Room() int64 {
	return f.FullAmount - f.InvestedAmount
}

// Open indica se a entidade ainda aceita alocação.
func (f *FundBase) Open() bool {
	return !f.FullyInvested
}

// close marca a entidade como totalmente investida.
// Idempotente: o segundo close na mesma execução é ignorado.
func (f *FundBase) close(now time.Time) {
	if f.FullyInvested {
		return
	}
	f.FullyInvested = true
	closedAt := now
	f.CloseDate = &closedAt
}
