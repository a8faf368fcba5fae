package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"phone-auth/internal/data/entity"
	"phone-auth/internal/data/repository"
	"phone-auth/pkg/sms"
	"phone-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRegistered  = errors.New("phone number already registered")
	ErrCodeNotFound       = errors.New("verification code not found")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique verification code")
)

// VerificationService owns the verification-code lifecycle: issuance with a
// collision-safe random draw, validity checks, and consumption. A valid check
// does not consume the code; callers that are done with it call Consume.
type VerificationService interface {
	Issue(ctx context.Context, ip, number string) (string, error)
	Verify(ctx context.Context, ip, number, code string) error
	Check(ctx context.Context, number, code string) error
	Consume(ctx context.Context, number, code string) error
}

type verificationService struct {
	codes   repository.VerificationCodeRepository
	users   repository.UserRepository
	abuse   AbuseService
	sender  sms.Sender
	config  *utils.Config
	log     *zap.Logger
	now     func() time.Time
	randInt func(n int) int
}

func NewVerificationService(
	repo *repository.Repository,
	abuse AbuseService,
	sender sms.Sender,
	config *utils.Config,
	log *zap.Logger,
) VerificationService {
	return &verificationService{
		codes:   repo.VerificationCode,
		users:   repo.User,
		abuse:   abuse,
		sender:  sender,
		config:  config,
		log:     log,
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// Issue reserves a fresh 6-digit code for the number, hands it to the SMS
// sink, and returns it. Numbers that already belong to a registered user are
// rejected. Delivery is fire-and-forget: a sink failure is logged but the
// issued code stands.
func (s *verificationService) Issue(ctx context.Context, ip, number string) (string, error) {
	if err := s.abuse.AdmissionCheck(ctx, ip, number); err != nil {
		return "", err
	}

	existing, err := s.users.FindByNumber(ctx, number)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrAlreadyRegistered
	}

	code, err := s.reserveCode(ctx, number)
	if err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, number, code); err != nil {
		s.log.Warn("SMS delivery failed",
			zap.Error(err),
			zap.String("number", number),
		)
	}

	s.log.Info("Verification code issued", zap.String("number", number))
	return code, nil
}

// reserveCode draws random codes until the (number, code) uniqueness
// constraint admits one. The collision odds per draw are about 1/900000, so
// the cap exists to fail loudly on pathological storage, not to be reached.
func (s *verificationService) reserveCode(ctx context.Context, number string) (string, error) {
	for i := 0; i < s.config.Security.CodeRetryCap; i++ {
		code := fmt.Sprintf("%06d", 100000+s.randInt(900000))

		rec := &entity.VerificationCode{
			ID:       uuid.New(),
			Number:   number,
			Code:     code,
			IssuedAt: s.now(),
		}

		err := s.codes.Create(ctx, rec)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		return "", err
	}

	s.log.Error("Code generation retry cap reached", zap.String("number", number))
	return "", ErrCodeSpaceExhausted
}

// Check inspects the most recently issued record for (number, code) without
// consuming it. An expired match purges all matching records. A wrong or
// never-issued code is ErrCodeNotFound; recording that as abuse is the
// caller's business.
func (s *verificationService) Check(ctx context.Context, number, code string) error {
	rec, err := s.codes.FindLatest(ctx, number, code)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrCodeNotFound
	}

	ttl := time.Duration(s.config.Security.CodeTTLMinutes) * time.Minute
	if rec.IssuedAt.Add(ttl).After(s.now()) {
		return nil
	}

	if err := s.codes.DeleteByNumberCode(ctx, number, code); err != nil {
		return err
	}
	return ErrCodeExpired
}

// Verify is the gated verification operation behind the code-verification
// endpoint: admission first, then Check. A wrong code feeds the failed
// attempt tracker; an expired one does not, it only tells the caller to
// request a new code.
func (s *verificationService) Verify(ctx context.Context, ip, number, code string) error {
	if err := s.abuse.AdmissionCheck(ctx, ip, number); err != nil {
		return err
	}

	err := s.Check(ctx, number, code)
	if errors.Is(err, ErrCodeNotFound) {
		if recErr := s.abuse.RecordFailure(ctx, ip, number, entity.FailureSMSVerify); recErr != nil {
			// bookkeeping is best-effort; the wrong-code outcome stands
			s.log.Error("Failed to record verification failure",
				zap.Error(recErr),
				zap.String("number", number),
			)
		}
	}
	return err
}

// Consume deletes the matching records. Consuming a pair that no longer
// exists is a no-op.
func (s *verificationService) Consume(ctx context.Context, number, code string) error {
	return s.codes.DeleteByNumberCode(ctx, number, code)
}
