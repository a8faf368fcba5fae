package usecase

import (
	"phone-auth/internal/data/repository"
	"phone-auth/pkg/sms"
	"phone-auth/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Abuse        AbuseService
	Verification VerificationService
	Auth         AuthService
}

func NewService(repo *repository.Repository, config *utils.Config, sender sms.Sender, log *zap.Logger) *Service {
	abuse := NewAbuseService(repo, config, log)
	verification := NewVerificationService(repo, abuse, sender, config, log)

	return &Service{
		Abuse:        abuse,
		Verification: verification,
		Auth:         NewAuthService(repo, abuse, verification, config, log),
	}
}
