package usecase

import (
	"context"
	"errors"
	"time"

	"phone-auth/internal/data/entity"
	"phone-auth/internal/data/repository"
	"phone-auth/internal/dto/request"
	"phone-auth/internal/dto/response"
	"phone-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Signup(ctx context.Context, ip string, req *request.SignupRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, ip string, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	abuse        AbuseService
	verification VerificationService
	config       *utils.Config
	log          *zap.Logger
	now          func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	abuse AbuseService,
	verification VerificationService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:        repo.User,
		sessions:     repo.Session,
		abuse:        abuse,
		verification: verification,
		config:       config,
		log:          log,
		now:          time.Now,
	}
}

// Signup registers a user whose phone number carries a valid verification
// code. The code is checked first and consumed only after the user record is
// in place, so a failed insert leaves the code usable for a retry.
func (s *authService) Signup(ctx context.Context, ip string, req *request.SignupRequest) (*response.AuthResponse, error) {
	if err := s.abuse.AdmissionCheck(ctx, ip, req.Number); err != nil {
		return nil, err
	}

	if err := s.verification.Check(ctx, req.Number, req.Code); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Number:       req.Number,
		PasswordHash: hashed,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.verification.Consume(ctx, req.Number, req.Code); err != nil {
		// the code served its purpose; a leftover record only costs a row
		s.log.Warn("Failed to consume verification code",
			zap.Error(err),
			zap.String("number", req.Number),
		)
	}

	session, err := s.createSession(ctx, user.ID, ip)
	if err != nil {
		s.log.Warn("Failed to create session after signup",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("number", user.Number),
	)

	return response.AuthToResponse(user, session), nil
}

// Login checks phone number + password. A credential failure feeds the
// failed attempt tracker under the login category.
func (s *authService) Login(ctx context.Context, ip string, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := s.abuse.AdmissionCheck(ctx, ip, req.Number); err != nil {
		return nil, err
	}

	user, err := s.users.FindByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		if recErr := s.abuse.RecordFailure(ctx, ip, req.Number, entity.FailureLogin); recErr != nil {
			s.log.Error("Failed to record login failure",
				zap.Error(recErr),
				zap.String("number", req.Number),
			)
		}
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID, ip)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("number", user.Number),
	)

	return response.AuthToResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return errors.New("invalid token format")
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, ip string) (*entity.Session, error) {
	now := s.now()
	expiry := time.Duration(s.config.Session.ExpiryHours) * time.Hour

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(expiry),
	}
	if ip != "" {
		session.IPAddress = &ip
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
