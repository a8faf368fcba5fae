package entity

import (
	"time"

	"github.com/google/uuid"
)

type FailureCategory string

const (
	FailureLogin     FailureCategory = "login"
	FailureSMSVerify FailureCategory = "sms-verify"
)

// FailedAttempt records one unsuccessful login or code verification.
// Append-only; never mutated after creation.
type FailedAttempt struct {
	ID uuid.UUID `db:"id"`
	ActorKey
	Category   FailureCategory `db:"category"`
	OccurredAt time.Time       `db:"occurred_at"`
}
