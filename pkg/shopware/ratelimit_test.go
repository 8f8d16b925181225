package shopware_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotekhq/shopware6-client/pkg/shopware"
)

func TestRateLimiterDailyBudget(t *testing.T) {
	t.Parallel()

	r := shopware.NewRateLimiter(1000, 1000, 3)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.Equal(t, int64(3), r.DailyCount())
	assert.Equal(t, int64(0), r.Remaining())

	err := r.Wait(context.Background())
	require.ErrorIs(t, err, shopware.ErrDailyLimitReached)
}

func TestRateLimiterWindowReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := &now
	r := shopware.NewRateLimiter(1000, 1000, 2,
		shopware.WithRateLimiterNowFunc(func() time.Time { return *clock }))

	require.NoError(t, r.Wait(context.Background()))
	require.NoError(t, r.Wait(context.Background()))
	require.ErrorIs(t, r.Wait(context.Background()), shopware.ErrDailyLimitReached)

	// The budget comes back once the 24-hour window rolls over.
	*clock = now.Add(25 * time.Hour)
	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, int64(1), r.DailyCount())
}

func TestRateLimiterWithoutDailyBudget(t *testing.T) {
	t.Parallel()

	r := shopware.NewRateLimiter(1000, 1000, 0)

	for i := 0; i < 10; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.Equal(t, int64(-1), r.Remaining())
}

func TestRateLimiterContextCancellation(t *testing.T) {
	t.Parallel()

	// Rate of one per hour with an exhausted burst forces Wait to block
	// until the context gives up.
	r := shopware.NewRateLimiter(1.0/3600, 1, 0)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	require.Error(t, err)
}
