package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/Anya-sl/cat-charity-fund/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationColumns = `id, comment, full_amount, invested_amount, fully_invested, create_date, close_date`

// DonationRepository implementa gateway.DonationRepository usando pgx/v5
type DonationRepository struct {
	pool *pgxpool.Pool
	db   dbtx
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{
		pool: pool,
		db:   pool,
	}
}

func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	const query = `INSERT INTO donations (comment, full_amount)
		VALUES ($1, $2)
		RETURNING id, invested_amount, fully_invested, create_date`

	var create pgtype.Timestamptz
	// Comment é *string no domínio, mas pgtype.Text no banco
	err := r.db.QueryRow(ctx, query, textToPgType(donation.Comment), donation.FullAmount).
		Scan(&donation.ID, &donation.InvestedAmount, &donation.FullyInvested, &create)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	donation.CreateDate = create.Time
	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	donation, err := scanDonation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return donation, nil
}

func (r *DonationRepository) List(ctx context.Context) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

func (r *DonationRepository) WithTx(tx gateway.TransactionObject) gateway.DonationRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &DonationRepository{
		pool: r.pool,
		db:   pgTx,
	}
}

var _ gateway.DonationRepository = (*DonationRepository)(nil)
