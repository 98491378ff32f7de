package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Anya-sl/cat-charity-fund/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// dbtx é o subconjunto comum entre *pgxpool.Pool e pgx.Tx.
// Permite que o mesmo repositório rode solto (pool) ou dentro de uma
// transação (WithTx) sem duplicar código.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation detecta violação de UNIQUE (código 23505 do Postgres).
// O check-then-insert do nome pode perder a corrida para um create
// concorrente; a constraint do banco é a palavra final.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanProject(s scanner) (*domain.Project, error) {
	var (
		project   domain.Project
		create    pgtype.Timestamptz
		closeDate pgtype.Timestamptz
	)
	err := s.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.FullAmount,
		&project.InvestedAmount,
		&project.FullyInvested,
		&create,
		&closeDate,
	)
	if err != nil {
		return nil, err
	}
	//  pgtype.Timestamptz é uma struct, acessamos o valor .Time
	project.CreateDate = create.Time
	project.CloseDate = timestamptzToPtr(closeDate)
	return &project, nil
}

func scanDonation(s scanner) (*domain.Donation, error) {
	var (
		donation  domain.Donation
		comment   pgtype.Text
		create    pgtype.Timestamptz
		closeDate pgtype.Timestamptz
	)
	err := s.Scan(
		&donation.ID,
		&comment,
		&donation.FullAmount,
		&donation.InvestedAmount,
		&donation.FullyInvested,
		&create,
		&closeDate,
	)
	if err != nil {
		return nil, err
	}
	donation.Comment = pgTextToPtr(comment)
	donation.CreateDate = create.Time
	donation.CloseDate = timestamptzToPtr(closeDate)
	return &donation, nil
}

// Mappers: pgtype <-> Go types

func textToPgType(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func ptrToTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
