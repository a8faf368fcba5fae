package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is a short-lived 6-digit code issued to a phone number.
// (number, code) is unique among stored records.
type VerificationCode struct {
	ID       uuid.UUID `db:"id"`
	Number   string    `db:"number"`
	Code     string    `db:"code"`
	IssuedAt time.Time `db:"issued_at"`
}
