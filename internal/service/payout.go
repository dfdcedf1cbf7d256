package service

import (
	"sort"
	"strconv"
	"strings"

	"tontine-core/internal/model"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/shuffle"
)

// PayoutAssignment pairs a member with their turn number in a cycle
type PayoutAssignment struct {
	UserID   uint64 `json:"user_id"`
	Position int    `json:"position"`
}

// PayoutGenerator maps {members, policy, optional custom order} to an ordered
// assignment of positions. It is pure apart from the injected shuffler.
type PayoutGenerator struct {
	shuffler shuffle.Shuffler
}

func NewPayoutGenerator(shuffler shuffle.Shuffler) *PayoutGenerator {
	return &PayoutGenerator{shuffler: shuffler}
}

// Generate computes the payout order for a cycle. The members slice must be
// ordered by join time ascending (ties in insertion order); output positions
// are always dense 1..N.
func (g *PayoutGenerator) Generate(members []model.TontineMember, policy string, customOrder []uint64) ([]PayoutAssignment, error) {
	if len(members) == 0 {
		return nil, errno.ErrEmptyGroup
	}

	var ordered []model.TontineMember

	switch policy {
	case model.PolicyArrival:
		// first joined, first served; stable so equal timestamps keep
		// their insertion order across calls
		ordered = make([]model.TontineMember, len(members))
		copy(ordered, members)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
		})

	case model.PolicyRandom:
		ordered = make([]model.TontineMember, len(members))
		copy(ordered, members)
		g.shuffler.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})

	case model.PolicyCustom:
		var err error
		ordered, err = orderByCustom(members, customOrder)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errno.ErrInvalidPolicy
	}

	assignments := make([]PayoutAssignment, len(ordered))
	for i, member := range ordered {
		assignments[i] = PayoutAssignment{UserID: member.UserID, Position: i + 1}
	}
	return assignments, nil
}

// orderByCustom validates that customOrder is a permutation of the member set
// and returns the members arranged in that order
func orderByCustom(members []model.TontineMember, customOrder []uint64) ([]model.TontineMember, error) {
	if customOrder == nil {
		return nil, errno.ErrInvalidCustomOrder.WithMessage("Custom order must be an array of user IDs")
	}
	if len(customOrder) != len(members) {
		return nil, errno.ErrInvalidCustomOrder
	}

	byID := make(map[uint64]model.TontineMember, len(members))
	for _, m := range members {
		byID[m.UserID] = m
	}

	inCustom := make(map[uint64]bool, len(customOrder))
	for _, id := range customOrder {
		inCustom[id] = true
	}

	// report the exact member IDs the caller left out
	var missing []string
	for _, m := range members {
		if !inCustom[m.UserID] {
			missing = append(missing, strconv.FormatUint(m.UserID, 10))
		}
	}
	if len(missing) > 0 {
		return nil, errno.ErrInvalidCustomOrder.WithMessagef(
			"Missing member IDs in custom order: %s", strings.Join(missing, ", "))
	}

	// length equal + no member missing means customOrder is a permutation
	ordered := make([]model.TontineMember, 0, len(customOrder))
	for _, id := range customOrder {
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}
