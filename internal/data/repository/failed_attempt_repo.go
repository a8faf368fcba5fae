package repository

import (
	"context"
	"fmt"

	"phone-auth/internal/data/entity"
	"phone-auth/pkg/database"

	"go.uber.org/zap"
)

type FailedAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.FailedAttempt) error
	RecentByActor(ctx context.Context, key entity.ActorKey, limit int) ([]*entity.FailedAttempt, error)
}

type failedAttemptRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFailedAttemptRepository(db database.PgxIface, log *zap.Logger) FailedAttemptRepository {
	return &failedAttemptRepository{
		db:  db,
		log: log.With(zap.String("repository", "failed_attempt")),
	}
}

func (r *failedAttemptRepository) Create(ctx context.Context, attempt *entity.FailedAttempt) error {
	query := `
		INSERT INTO failed_attempts (id, ip, number, category, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		attempt.ID,
		attempt.IP,
		attempt.Number,
		attempt.Category,
		attempt.OccurredAt,
	)

	if err != nil {
		r.log.Error("Failed to create failed attempt",
			zap.Error(err),
			zap.String("actor", attempt.ActorKey.String()),
			zap.String("category", string(attempt.Category)),
		)
		return fmt.Errorf("create failed attempt: %w", err)
	}

	return nil
}

// RecentByActor returns the most recent attempts whose IP or number matches
// the key, newest first. Empty key fields never match; matching is
// category-independent so rotating between login and verification failures
// still counts against the same actor.
func (r *failedAttemptRepository) RecentByActor(ctx context.Context, key entity.ActorKey, limit int) ([]*entity.FailedAttempt, error) {
	query := `
		SELECT id, ip, number, category, occurred_at
		FROM failed_attempts
		WHERE (ip = $1 AND $1 <> '')
		   OR (number = $2 AND $2 <> '')
		ORDER BY occurred_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, key.IP, key.Number, limit)
	if err != nil {
		r.log.Error("Failed to query failed attempts",
			zap.Error(err),
			zap.String("actor", key.String()),
		)
		return nil, fmt.Errorf("query failed attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*entity.FailedAttempt
	for rows.Next() {
		var attempt entity.FailedAttempt
		if err := rows.Scan(
			&attempt.ID,
			&attempt.IP,
			&attempt.Number,
			&attempt.Category,
			&attempt.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan failed attempt: %w", err)
		}
		attempts = append(attempts, &attempt)
	}

	return attempts, rows.Err()
}
