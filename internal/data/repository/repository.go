package repository

import (
	"phone-auth/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User             UserRepository
	Session          SessionRepository
	VerificationCode VerificationCodeRepository
	FailedAttempt    FailedAttemptRepository
	Block            BlockRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		Session:          NewSessionRepository(db, log),
		VerificationCode: NewVerificationCodeRepository(db, log),
		FailedAttempt:    NewFailedAttemptRepository(db, log),
		Block:            NewBlockRepository(db, log),
	}
}
