package domain

import "time"

// Allocate distribui o déficit da entidade recém-criada (trigger) entre as
// candidatas abertas do tipo oposto, na ordem recebida (mais antiga primeiro).
// Função pura: mexe apenas nos objetos em memória, sem tocar em storage.
//
// Retorna o conjunto de entidades alteradas (candidatas tocadas + a própria
// trigger). O dinheiro é conservado: cada centavo somado em uma candidata é
// somado simultaneamente na trigger.
func Allocate(trigger LedgerEntity, candidates []LedgerEntity, now time.Time) ([]LedgerEntity, error) {
	t := trigger.Fund()

	// Trigger já fechada é no-op: devolve só ela, intacta.
	if t.FullyInvested || t.Room() == 0 {
		return []LedgerEntity{trigger}, nil
	}

	remaining := t.Room()
	mutated := make([]LedgerEntity, 0, len(candidates)+1)

	for _, candidate := range candidates {
		if remaining == 0 {
			break
		}

		c := candidate.Fund()
		room := c.Room()
		if room <= 0 {
			// O seletor garante que isso não acontece (aberta => room > 0),
			// mas uma candidata sem espaço não conta como mutada.
			continue
		}

		delta := min(remaining, room)
		c.InvestedAmount += delta
		t.InvestedAmount += delta
		remaining -= delta

		if c.InvestedAmount == c.FullAmount {
			c.close(now)
		}
		mutated = append(mutated, candidate)

		if t.InvestedAmount == t.FullAmount {
			// Trigger satisfeita: fecha e para na hora. Candidatas
			// posteriores ficam intactas (ordem de chegada é contrato).
			t.close(now)
			break
		}
	}

	mutated = append(mutated, trigger)

	for _, entity := range mutated {
		if err := checkConsistency(entity.Fund()); err != nil {
			return nil, err
		}
	}
	return mutated, nil
}

func checkConsistency(f *FundBase) error {
	if f.InvestedAmount < 0 || f.InvestedAmount > f.FullAmount {
		return ErrLedgerCorrupted
	}
	if f.FullyInvested != (f.InvestedAmount == f.FullAmount) {
		return ErrLedgerCorrupted
	}
	if f.FullyInvested != (f.CloseDate != nil) {
		return ErrLedgerCorrupted
	}
	return nil
}
