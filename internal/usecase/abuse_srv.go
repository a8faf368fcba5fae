package usecase

import (
	"context"
	"errors"
	"time"

	"phone-auth/internal/data/entity"
	"phone-auth/internal/data/repository"
	"phone-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPhoneRequired = errors.New("phone number is required")
	ErrBlocked       = errors.New("temporarily blocked")
)

// AbuseService tracks failed attempts per actor (IP and/or phone number) and
// converts bursts of failures into temporary blocks. Every sensitive
// operation calls AdmissionCheck before doing its own work.
type AbuseService interface {
	AdmissionCheck(ctx context.Context, ip, number string) error
	RecordFailure(ctx context.Context, ip, number string, category entity.FailureCategory) error
	IsBlocked(ctx context.Context, ip, number string) (bool, error)
}

type abuseService struct {
	attempts repository.FailedAttemptRepository
	blocks   repository.BlockRepository
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAbuseService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AbuseService {
	return &abuseService{
		attempts: repo.FailedAttempt,
		blocks:   repo.Block,
		config:   config,
		log:      log,
		now:      time.Now,
	}
}

// AdmissionCheck denies when the phone number is missing or the actor is
// currently blocked. A nil return admits the request.
func (s *abuseService) AdmissionCheck(ctx context.Context, ip, number string) error {
	if number == "" {
		return ErrPhoneRequired
	}

	blocked, err := s.IsBlocked(ctx, ip, number)
	if err != nil {
		return err
	}
	if blocked {
		s.log.Warn("Admission denied",
			zap.String("ip", ip),
			zap.String("number", number),
		)
		return ErrBlocked
	}

	return nil
}

// RecordFailure appends an attempt and evaluates the sliding trigger: when a
// third-most-recent matching attempt exists and falls within the failure
// window of the new one, the actor gets blocked. Fewer matches is steady
// state, not an error.
func (s *abuseService) RecordFailure(ctx context.Context, ip, number string, category entity.FailureCategory) error {
	key := entity.ActorKey{IP: ip, Number: number}
	if key.Empty() {
		// nothing to key the attempt on; skip instead of writing a
		// record that would spuriously match other blank attempts
		return nil
	}

	attempt := &entity.FailedAttempt{
		ID:         uuid.New(),
		ActorKey:   key,
		Category:   category,
		OccurredAt: s.now(),
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return err
	}

	threshold := s.config.Security.FailureThreshold
	recent, err := s.attempts.RecentByActor(ctx, key, threshold)
	if err != nil {
		return err
	}
	if len(recent) < threshold {
		return nil
	}

	window := time.Duration(s.config.Security.FailureWindowMinutes) * time.Minute
	oldest := recent[threshold-1]
	if !oldest.OccurredAt.Add(window).After(attempt.OccurredAt) {
		return nil
	}

	block := &entity.Block{
		ID:        uuid.New(),
		ActorKey:  key,
		CreatedAt: attempt.OccurredAt,
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return err
	}

	s.log.Info("Actor blocked after repeated failures",
		zap.String("ip", ip),
		zap.String("number", number),
		zap.String("category", string(category)),
	)
	return nil
}

// IsBlocked reports whether the actor has an active block. An expired block
// found along the way is deleted; expiry is lazy, there is no sweeper.
func (s *abuseService) IsBlocked(ctx context.Context, ip, number string) (bool, error) {
	key := entity.ActorKey{IP: ip, Number: number}
	if key.Empty() {
		return false, nil
	}

	block, err := s.blocks.FindByActor(ctx, key)
	if err != nil {
		return false, err
	}
	if block == nil {
		return false, nil
	}

	duration := time.Duration(s.config.Security.BlockMinutes) * time.Minute
	if block.CreatedAt.Add(duration).After(s.now()) {
		return true, nil
	}

	// stale record; remove it so it never denies anyone again
	if err := s.blocks.Delete(ctx, block.ID); err != nil {
		s.log.Warn("Failed to remove expired block",
			zap.Error(err),
			zap.String("block_id", block.ID.String()),
		)
	}
	return false, nil
}
