package usecase

import (
	"context"
	"testing"
	"time"

	"phone-auth/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testIP     = "203.0.113.7"
	testNumber = "09123456789"
)

func newAbuseForTests(t *testing.T) (*abuseService, *testRepos, *time.Time) {
	t.Helper()
	repo, fakes := newTestRepos()
	svc := NewAbuseService(repo, testConfig(), zap.NewNop()).(*abuseService)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, fakes, &now
}

func TestRecordFailure_BurstWithinWindowCreatesBlock(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	for _, offset := range []time.Duration{0, 1 * time.Minute, 4 * time.Minute} {
		*now = base.Add(offset)
		require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureSMSVerify))
	}

	require.Len(t, fakes.blocks.blocks, 1)
	require.Equal(t, testIP, fakes.blocks.blocks[0].IP)
	require.Equal(t, testNumber, fakes.blocks.blocks[0].Number)

	*now = base.Add(4*time.Minute + 30*time.Second)
	blocked, err := svc.IsBlocked(ctx, testIP, testNumber)
	require.NoError(t, err)
	require.True(t, blocked)
}

func TestRecordFailure_SpreadBeyondWindowNoBlock(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	for _, offset := range []time.Duration{0, 3 * time.Minute, 10 * time.Minute} {
		*now = base.Add(offset)
		require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureLogin))
	}

	require.Empty(t, fakes.blocks.blocks)
}

func TestRecordFailure_InsufficientHistoryIsNotAnError(t *testing.T) {
	svc, fakes, _ := newAbuseForTests(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureLogin))
	require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureLogin))

	require.Len(t, fakes.attempts.attempts, 2)
	require.Empty(t, fakes.blocks.blocks)
}

func TestRecordFailure_MatchesAcrossRotatingIPs(t *testing.T) {
	// one phone number attacked from three different addresses still trips
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	for i, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		*now = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, svc.RecordFailure(ctx, ip, testNumber, entity.FailureSMSVerify))
	}

	require.Len(t, fakes.blocks.blocks, 1)
}

func TestRecordFailure_MatchesAcrossRotatingNumbers(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	for i, number := range []string{"09111111111", "09222222222", "09333333333"} {
		*now = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, svc.RecordFailure(ctx, testIP, number, entity.FailureLogin))
	}

	require.Len(t, fakes.blocks.blocks, 1)
	require.Equal(t, testIP, fakes.blocks.blocks[0].IP)
}

func TestRecordFailure_CategoryIndependentTrigger(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureLogin))
	*now = base.Add(1 * time.Minute)
	require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureSMSVerify))
	*now = base.Add(2 * time.Minute)
	require.NoError(t, svc.RecordFailure(ctx, testIP, testNumber, entity.FailureLogin))

	require.Len(t, fakes.blocks.blocks, 1)
}

func TestRecordFailure_BlankActorSkipped(t *testing.T) {
	svc, fakes, _ := newAbuseForTests(t)

	require.NoError(t, svc.RecordFailure(context.Background(), "", "", entity.FailureLogin))
	require.Empty(t, fakes.attempts.attempts)
}

func TestIsBlocked_LazyExpiry(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()
	base := *now

	fakes.blocks.blocks = append(fakes.blocks.blocks, &entity.Block{
		ID:        uuid.New(),
		ActorKey:  entity.ActorKey{IP: testIP, Number: testNumber},
		CreatedAt: base,
	})

	*now = base.Add(59 * time.Minute)
	blocked, err := svc.IsBlocked(ctx, testIP, testNumber)
	require.NoError(t, err)
	require.True(t, blocked)

	*now = base.Add(61 * time.Minute)
	blocked, err = svc.IsBlocked(ctx, testIP, testNumber)
	require.NoError(t, err)
	require.False(t, blocked)
	require.Empty(t, fakes.blocks.blocks, "expired block should be removed on read")

	// an expired block never denies twice
	blocked, err = svc.IsBlocked(ctx, testIP, testNumber)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestAdmissionCheck_MissingPhone(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()

	// deny on missing number regardless of block state
	fakes.blocks.blocks = append(fakes.blocks.blocks, &entity.Block{
		ID:        uuid.New(),
		ActorKey:  entity.ActorKey{IP: testIP},
		CreatedAt: *now,
	})

	err := svc.AdmissionCheck(ctx, testIP, "")
	require.ErrorIs(t, err, ErrPhoneRequired)
}

func TestAdmissionCheck_BlockedActorDenied(t *testing.T) {
	svc, fakes, now := newAbuseForTests(t)
	ctx := context.Background()

	fakes.blocks.blocks = append(fakes.blocks.blocks, &entity.Block{
		ID:        uuid.New(),
		ActorKey:  entity.ActorKey{Number: testNumber},
		CreatedAt: *now,
	})

	err := svc.AdmissionCheck(ctx, "another-ip", testNumber)
	require.ErrorIs(t, err, ErrBlocked)
}

func TestAdmissionCheck_CleanActorAdmitted(t *testing.T) {
	svc, _, _ := newAbuseForTests(t)

	require.NoError(t, svc.AdmissionCheck(context.Background(), testIP, testNumber))
}
