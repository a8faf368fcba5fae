package entity

import (
	"time"

	"github.com/google/uuid"
)

type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// ActorKey identifies who is acting: an IP address, a phone number, or both.
// Failed attempts and blocks are keyed on it; either field may be empty but
// records with both empty are never written or matched.
type ActorKey struct {
	IP     string `db:"ip"`
	Number string `db:"number"`
}

func (k ActorKey) Empty() bool {
	return k.IP == "" && k.Number == ""
}

func (k ActorKey) String() string {
	if k.IP != "" {
		return k.IP
	}
	return k.Number
}
