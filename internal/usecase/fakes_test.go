package usecase

import (
	"context"
	"sort"

	"phone-auth/internal/data/entity"
	"phone-auth/internal/data/repository"
	"phone-auth/pkg/utils"

	"github.com/google/uuid"
)

// In-memory repository fakes backing the service tests.

type fakeCodeRepo struct {
	records    []*entity.VerificationCode
	forceDupes int // return ErrDuplicateCode for this many Create calls
	createErr  error
	creates    int
}

func (f *fakeCodeRepo) Create(ctx context.Context, code *entity.VerificationCode) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if f.forceDupes > 0 {
		f.forceDupes--
		return repository.ErrDuplicateCode
	}
	for _, rec := range f.records {
		if rec.Number == code.Number && rec.Code == code.Code {
			return repository.ErrDuplicateCode
		}
	}
	f.records = append(f.records, code)
	return nil
}

func (f *fakeCodeRepo) FindLatest(ctx context.Context, number, code string) (*entity.VerificationCode, error) {
	var latest *entity.VerificationCode
	for _, rec := range f.records {
		if rec.Number != number || rec.Code != code {
			continue
		}
		if latest == nil || rec.IssuedAt.After(latest.IssuedAt) {
			latest = rec
		}
	}
	return latest, nil
}

func (f *fakeCodeRepo) DeleteByNumberCode(ctx context.Context, number, code string) error {
	kept := f.records[:0]
	for _, rec := range f.records {
		if rec.Number != number || rec.Code != code {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

type fakeAttemptRepo struct {
	attempts []*entity.FailedAttempt
}

func (f *fakeAttemptRepo) Create(ctx context.Context, attempt *entity.FailedAttempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAttemptRepo) RecentByActor(ctx context.Context, key entity.ActorKey, limit int) ([]*entity.FailedAttempt, error) {
	var matched []*entity.FailedAttempt
	for _, a := range f.attempts {
		if (key.IP != "" && a.IP == key.IP) || (key.Number != "" && a.Number == key.Number) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeBlockRepo struct {
	blocks []*entity.Block
}

func (f *fakeBlockRepo) Create(ctx context.Context, block *entity.Block) error {
	f.blocks = append(f.blocks, block)
	return nil
}

func (f *fakeBlockRepo) FindByActor(ctx context.Context, key entity.ActorKey) (*entity.Block, error) {
	var newest *entity.Block
	for _, b := range f.blocks {
		if (key.IP != "" && b.IP == key.IP) || (key.Number != "" && b.Number == key.Number) {
			if newest == nil || b.CreatedAt.After(newest.CreatedAt) {
				newest = b
			}
		}
	}
	return newest, nil
}

func (f *fakeBlockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := f.blocks[:0]
	for _, b := range f.blocks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	f.blocks = kept
	return nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByNumber(ctx context.Context, number string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Number == number {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions []*entity.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	for _, s := range f.sessions {
		if s.Token.String() == token && s.RevokedAt == nil {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	for _, s := range f.sessions {
		if s.Token.String() == token && s.RevokedAt == nil {
			revoked := s.ExpiresAt
			s.RevokedAt = &revoked
			return nil
		}
	}
	return nil
}

type fakeSender struct {
	sent []string // "number:code"
	err  error
}

func (f *fakeSender) Send(ctx context.Context, number, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, number+":"+code)
	return nil
}

type testRepos struct {
	codes    *fakeCodeRepo
	attempts *fakeAttemptRepo
	blocks   *fakeBlockRepo
	users    *fakeUserRepo
	sessions *fakeSessionRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	fakes := &testRepos{
		codes:    &fakeCodeRepo{},
		attempts: &fakeAttemptRepo{},
		blocks:   &fakeBlockRepo{},
		users:    &fakeUserRepo{},
		sessions: &fakeSessionRepo{},
	}
	repo := &repository.Repository{
		User:             fakes.users,
		Session:          fakes.sessions,
		VerificationCode: fakes.codes,
		FailedAttempt:    fakes.attempts,
		Block:            fakes.blocks,
	}
	return repo, fakes
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Security: utils.SecurityConfig{
			CodeTTLMinutes:       60,
			BlockMinutes:         60,
			FailureWindowMinutes: 5,
			FailureThreshold:     3,
			CodeRetryCap:         20,
		},
	}
}
