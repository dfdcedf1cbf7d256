package service

import (
	"testing"
	"time"

	"tontine-core/internal/model"
	"tontine-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverseShuffler deterministically reverses the slice so the random policy
// can be asserted against a known permutation
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

// identityShuffler leaves the slice untouched
type identityShuffler struct{}

func (identityShuffler) Shuffle(n int, swap func(i, j int)) {}

func membersAt(joinTimes ...time.Time) []model.TontineMember {
	members := make([]model.TontineMember, len(joinTimes))
	for i, at := range joinTimes {
		members[i] = model.TontineMember{
			ID:        uint64(i + 1),
			TontineID: 1,
			UserID:    uint64(i + 101),
			JoinedAt:  at,
		}
	}
	return members
}

func TestGenerateArrivalOrdersByJoinTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// joined out of order on purpose
	members := membersAt(base.Add(2*time.Hour), base, base.Add(time.Hour))

	g := NewPayoutGenerator(identityShuffler{})
	order, err := g.Generate(members, model.PolicyArrival, nil)
	require.NoError(t, err)

	require.Len(t, order, 3)
	assert.Equal(t, uint64(102), order[0].UserID)
	assert.Equal(t, uint64(103), order[1].UserID)
	assert.Equal(t, uint64(101), order[2].UserID)
	for i, a := range order {
		assert.Equal(t, i+1, a.Position)
	}
}

func TestGenerateArrivalIsStableOnEqualJoinTimes(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base, base)

	g := NewPayoutGenerator(identityShuffler{})
	order, err := g.Generate(members, model.PolicyArrival, nil)
	require.NoError(t, err)

	// equal timestamps keep their input order
	assert.Equal(t, uint64(101), order[0].UserID)
	assert.Equal(t, uint64(102), order[1].UserID)
	assert.Equal(t, uint64(103), order[2].UserID)
}

func TestGenerateRandomUsesShuffler(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base.Add(time.Hour), base.Add(2*time.Hour))

	g := NewPayoutGenerator(reverseShuffler{})
	order, err := g.Generate(members, model.PolicyRandom, nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(103), order[0].UserID)
	assert.Equal(t, uint64(102), order[1].UserID)
	assert.Equal(t, uint64(101), order[2].UserID)
}

func TestGenerateRandomIsPermutation(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base, base, base, base)

	g := NewPayoutGenerator(reverseShuffler{})
	order, err := g.Generate(members, model.PolicyRandom, nil)
	require.NoError(t, err)

	seen := map[uint64]bool{}
	for i, a := range order {
		assert.Equal(t, i+1, a.Position)
		assert.False(t, seen[a.UserID], "user assigned twice")
		seen[a.UserID] = true
	}
	assert.Len(t, seen, len(members))
}

func TestGenerateCustomFollowsGivenOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base.Add(time.Hour), base.Add(2*time.Hour))

	g := NewPayoutGenerator(identityShuffler{})
	order, err := g.Generate(members, model.PolicyCustom, []uint64{102, 101, 103})
	require.NoError(t, err)

	assert.Equal(t, uint64(102), order[0].UserID)
	assert.Equal(t, uint64(101), order[1].UserID)
	assert.Equal(t, uint64(103), order[2].UserID)
}

func TestGenerateCustomRejectsNilOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base)

	g := NewPayoutGenerator(identityShuffler{})
	_, err := g.Generate(members, model.PolicyCustom, nil)
	require.Error(t, err)
	assert.True(t, errno.Is(err, errno.ErrInvalidCustomOrder))
	assert.Contains(t, err.Error(), "Custom order must be an array of user IDs")
}

func TestGenerateCustomRejectsLengthMismatch(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base, base)

	g := NewPayoutGenerator(identityShuffler{})
	_, err := g.Generate(members, model.PolicyCustom, []uint64{101, 102})
	require.Error(t, err)
	assert.True(t, errno.Is(err, errno.ErrInvalidCustomOrder))
}

func TestGenerateCustomReportsMissingMembers(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base, base, base)

	g := NewPayoutGenerator(identityShuffler{})
	// duplicate 101 so the length matches but 102 and 103 are left out
	_, err := g.Generate(members, model.PolicyCustom, []uint64{101, 101, 101})
	require.Error(t, err)
	assert.True(t, errno.Is(err, errno.ErrInvalidCustomOrder))
	assert.Contains(t, err.Error(), "Missing member IDs in custom order: 102, 103")
}

func TestGenerateRejectsUnknownPolicy(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	members := membersAt(base)

	g := NewPayoutGenerator(identityShuffler{})
	_, err := g.Generate(members, "lottery", nil)
	require.Error(t, err)
	assert.True(t, errno.Is(err, errno.ErrInvalidPolicy))
}

func TestGenerateRejectsEmptyGroup(t *testing.T) {
	g := NewPayoutGenerator(identityShuffler{})
	_, err := g.Generate(nil, model.PolicyArrival, nil)
	require.Error(t, err)
	assert.True(t, errno.Is(err, errno.ErrEmptyGroup))
}
