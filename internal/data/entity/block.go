package entity

import (
	"time"

	"github.com/google/uuid"
)

// Block temporarily denies an IP or phone number. Active while
// created_at + block duration is in the future; expired blocks are
// removed lazily by the next read that finds them.
type Block struct {
	ID uuid.UUID `db:"id"`
	ActorKey
	CreatedAt time.Time `db:"created_at"`
}
