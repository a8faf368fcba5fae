package repository

import (
	"context"
	"errors"
	"fmt"

	"phone-auth/internal/data/entity"
	"phone-auth/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateCode signals the UNIQUE(number, code) constraint fired.
// Callers redraw the code and retry.
var ErrDuplicateCode = errors.New("verification code already exists for this number")

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindLatest(ctx context.Context, number, code string) (*entity.VerificationCode, error)
	DeleteByNumberCode(ctx context.Context, number, code string) error
}

type verificationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVerificationCodeRepository(db database.PgxIface, log *zap.Logger) VerificationCodeRepository {
	return &verificationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "verification_code")),
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, number, code, issued_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.Number,
		code.Code,
		code.IssuedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("number", code.Number),
		)
		return fmt.Errorf("create verification code for %s: %w", code.Number, err)
	}

	return nil
}

// FindLatest returns the most recently issued record for (number, code),
// or nil when no such record exists. Expiry is the caller's judgement.
func (r *verificationCodeRepository) FindLatest(ctx context.Context, number, code string) (*entity.VerificationCode, error) {
	query := `
		SELECT id, number, code, issued_at
		FROM verification_codes
		WHERE number = $1
		  AND code = $2
		ORDER BY issued_at DESC
		LIMIT 1
	`

	var rec entity.VerificationCode
	err := r.db.QueryRow(ctx, query, number, code).Scan(
		&rec.ID,
		&rec.Number,
		&rec.Code,
		&rec.IssuedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find verification code",
			zap.Error(err),
			zap.String("number", number),
		)
		return nil, fmt.Errorf("find verification code for %s: %w", number, err)
	}

	return &rec, nil
}

// DeleteByNumberCode removes all records matching (number, code).
// Deleting a pair that does not exist is a no-op.
func (r *verificationCodeRepository) DeleteByNumberCode(ctx context.Context, number, code string) error {
	query := `
		DELETE FROM verification_codes
		WHERE number = $1 AND code = $2
	`

	_, err := r.db.Exec(ctx, query, number, code)
	if err != nil {
		r.log.Error("Failed to delete verification code",
			zap.Error(err),
			zap.String("number", number),
		)
		return fmt.Errorf("delete verification code for %s: %w", number, err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
