package repository

import (
	"context"
	"fmt"

	"phone-auth/internal/data/entity"
	"phone-auth/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BlockRepository interface {
	Create(ctx context.Context, block *entity.Block) error
	FindByActor(ctx context.Context, key entity.ActorKey) (*entity.Block, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBlockRepository(db database.PgxIface, log *zap.Logger) BlockRepository {
	return &blockRepository{
		db:  db,
		log: log.With(zap.String("repository", "block")),
	}
}

func (r *blockRepository) Create(ctx context.Context, block *entity.Block) error {
	query := `
		INSERT INTO blocks (id, ip, number, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		block.ID,
		block.IP,
		block.Number,
		block.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create block",
			zap.Error(err),
			zap.String("actor", block.ActorKey.String()),
		)
		return fmt.Errorf("create block: %w", err)
	}

	return nil
}

// FindByActor returns the newest block matching the key's IP or number,
// or nil when the actor has no block on record. Any single active match is
// enough to deny admission, so one row suffices.
func (r *blockRepository) FindByActor(ctx context.Context, key entity.ActorKey) (*entity.Block, error) {
	query := `
		SELECT id, ip, number, created_at
		FROM blocks
		WHERE (ip = $1 AND $1 <> '')
		   OR (number = $2 AND $2 <> '')
		ORDER BY created_at DESC
		LIMIT 1
	`

	var block entity.Block
	err := r.db.QueryRow(ctx, query, key.IP, key.Number).Scan(
		&block.ID,
		&block.IP,
		&block.Number,
		&block.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find block",
			zap.Error(err),
			zap.String("actor", key.String()),
		)
		return nil, fmt.Errorf("find block: %w", err)
	}

	return &block, nil
}

func (r *blockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM blocks
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete block",
			zap.Error(err),
			zap.String("block_id", id.String()),
		)
		return fmt.Errorf("delete block %s: %w", id.String(), err)
	}

	return nil
}
