package service

import (
	"context"
	"testing"

	"tontine-core/internal/model"
	"tontine-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startedCycle builds a closed tontine with an active cycle whose first round
// is open, using the arrival payout order.
func startedCycle(t *testing.T, minMembers int) (*fakeStore, *model.Tontine, *model.TontineCycle, []uint64) {
	t.Helper()
	ctx := context.Background()
	store, tontine, userIDs := closedTontine(t, minMembers)
	svc := newCycleService(store)

	cycle, err := svc.CreateCycle(ctx, tontine.ID, tontine.OwnerID, CreateCycleInput{})
	require.NoError(t, err)
	started, err := svc.StartCycle(ctx, cycle.ID, tontine.OwnerID)
	require.NoError(t, err)
	return store, tontine, started, userIDs
}

func payRound(t *testing.T, store *fakeStore, tontine *model.Tontine, roundID uint64, userIDs []uint64) {
	t.Helper()
	svc := NewPaymentService(store)
	for _, uid := range userIDs {
		_, err := svc.CreateForRound(context.Background(), roundID, uid, tontine.Amount)
		require.NoError(t, err)
	}
}

func TestCloseRoundRequiresAllPayments(t *testing.T) {
	ctx := context.Background()
	store, tontine, cycle, userIDs := startedCycle(t, 3)
	svc := NewRoundService(store)

	first := cycle.Rounds[0]

	// no payments at all
	_, _, err := svc.CloseRound(ctx, first.ID, tontine.OwnerID)
	assert.True(t, errno.Is(err, errno.ErrPaymentsIncomplete))

	// one of three paid is still incomplete
	payRound(t, store, tontine, first.ID, userIDs[:1])
	_, _, err = svc.CloseRound(ctx, first.ID, tontine.OwnerID)
	assert.True(t, errno.Is(err, errno.ErrPaymentsIncomplete))
}

func TestCloseRoundOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store, tontine, cycle, userIDs := startedCycle(t, 2)
	svc := NewRoundService(store)

	first := cycle.Rounds[0]
	payRound(t, store, tontine, first.ID, userIDs)

	_, _, err := svc.CloseRound(ctx, first.ID, userIDs[1])
	assert.True(t, errno.Is(err, errno.ErrNotOwner))
}

func TestCloseRoundAdvancesCycle(t *testing.T) {
	ctx := context.Background()
	store, tontine, cycle, userIDs := startedCycle(t, 3)
	svc := NewRoundService(store)

	first := cycle.Rounds[0]
	payRound(t, store, tontine, first.ID, userIDs)

	closed, completed, err := svc.CloseRound(ctx, first.ID, tontine.OwnerID)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, model.RoundClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	// the collector of round 1 is marked as collected
	order, err := store.PayoutOrders().ListByCycle(ctx, cycle.ID)
	require.NoError(t, err)
	assert.True(t, order[0].HasCollected)
	assert.NotNil(t, order[0].CollectedAt)
	assert.False(t, order[1].HasCollected)

	// cycle advanced to round 2, which is now open
	current, err := store.Cycles().GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CycleActive, current.Status)
	assert.Equal(t, 2, current.CurrentRound)

	second, err := store.Rounds().GetByNumber(ctx, cycle.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RoundOpen, second.Status)

	// the closed round cannot be closed again
	_, _, err = svc.CloseRound(ctx, first.ID, tontine.OwnerID)
	assert.True(t, errno.Is(err, errno.ErrRoundNotOpen))
}

func TestCloseLastRoundCompletesCycle(t *testing.T) {
	ctx := context.Background()
	store, tontine, cycle, userIDs := startedCycle(t, 2)
	svc := NewRoundService(store)

	// run both rounds to completion
	for n := 1; n <= cycle.TotalRounds; n++ {
		round, err := store.Rounds().GetByNumber(ctx, cycle.ID, n)
		require.NoError(t, err)
		payRound(t, store, tontine, round.ID, userIDs)

		_, completed, err := svc.CloseRound(ctx, round.ID, tontine.OwnerID)
		require.NoError(t, err)
		assert.Equal(t, n == cycle.TotalRounds, completed)
	}

	final, err := store.Cycles().GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CycleCompleted, final.Status)

	// every member collected exactly once
	order, err := store.PayoutOrders().ListByCycle(ctx, cycle.ID)
	require.NoError(t, err)
	for _, entry := range order {
		assert.True(t, entry.HasCollected)
	}
}

func TestCloseRoundNotFound(t *testing.T) {
	store, tontine, _, _ := startedCycle(t, 2)
	svc := NewRoundService(store)

	_, _, err := svc.CloseRound(context.Background(), 999, tontine.OwnerID)
	assert.True(t, errno.Is(err, errno.ErrRoundNotFound))
}

func TestGetRound(t *testing.T) {
	store, _, cycle, _ := startedCycle(t, 2)
	svc := NewRoundService(store)

	round, err := svc.GetRound(context.Background(), cycle.Rounds[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, round.RoundNumber)

	_, err = svc.GetRound(context.Background(), 999)
	assert.True(t, errno.Is(err, errno.ErrRoundNotFound))
}
