package domain

// Donation representa uma doação individual que financia projetos abertos.
type Donation struct {
	FundBase
	Comment *string
}

func (d *Donation) Kind() EntityKind { return KindDonation }
func (d *Donation) Fund() *FundBase  { return &d.FundBase }
