package domain

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrInvalidAmount    = errors.New("full amount must be greater than zero")
	ErrNameTaken        = errors.New("project name already in use")
	ErrProjectClosed    = errors.New("closed project cannot be modified")
	ErrProjectInvested  = errors.New("project with investments cannot be deleted")
	ErrFullAmountTooLow = errors.New("full amount cannot be lower than invested amount")

	// ErrLedgerCorrupted indica violação de invariante após a alocação.
	// Nunca é corrigido silenciosamente: é bug de lógica, não erro de usuário.
	ErrLedgerCorrupted = errors.New("ledger invariant violated")
)
