package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/lock"
	"tontine-core/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const createCycleLockTTL = 10 * time.Second

// CycleService owns the cycle lifecycle: creation for a closed tontine,
// payout order (re)generation, the explicit start transition and the
// read models built on top of a cycle.
type CycleService struct {
	store     repository.Store
	generator *PayoutGenerator
	locker    lock.DistributedLock
}

func NewCycleService(store repository.Store, generator *PayoutGenerator, locker lock.DistributedLock) *CycleService {
	return &CycleService{store: store, generator: generator, locker: locker}
}

// CreateCycleInput carries the optional cycle creation parameters.
// CustomOrder is only meaningful when the tontine policy is "custom".
type CreateCycleInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	CustomOrder []uint64
}

// CreateCycle creates a pending cycle for a closed tontine, freezes
// total_rounds at the current membership count, persists the payout order and
// materializes one pending round per position. Owner only.
func (s *CycleService) CreateCycle(ctx context.Context, tontineID, actorID uint64, in CreateCycleInput) (*model.TontineCycle, error) {
	// serialize concurrent creations per tontine; the partial unique index
	// on (tontine_id) WHERE status IN (pending, active) is the backstop
	lockKey := fmt.Sprintf("cycle:create:%d", tontineID)
	acquired, err := s.locker.Acquire(ctx, lockKey, createCycleLockTTL)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if !acquired {
		return nil, errno.ErrCycleConflict
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn("failed to release cycle creation lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, errno.ErrNotOwner.WithMessage("Only the owner can create a cycle")
	}
	if tontine.Status != model.TontineClosed {
		return nil, errno.ErrTontineNotClosed
	}

	existing, err := s.store.Cycles().FindActive(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if existing != nil {
		return nil, errno.ErrCycleConflict.WithMessagef("A cycle is already %s for this tontine", existing.Status)
	}

	members, err := s.store.Members().ListByTontine(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if len(members) == 0 {
		return nil, errno.ErrEmptyGroup.WithMessage("Cannot create cycle without members")
	}

	order, err := s.generator.Generate(members, tontine.PickupPolicy, in.CustomOrder)
	if err != nil {
		return nil, err
	}

	cycle := &model.TontineCycle{
		TontineID:   tontineID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TotalRounds: len(members), // frozen; later joins or leaves do not change it
		Status:      model.CyclePending,
	}

	// cycle row, payout order rows and rounds land together or not at all
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Cycles().Create(ctx, cycle); err != nil {
			return err
		}

		entries := make([]model.TontinePayoutOrder, len(order))
		for i, a := range order {
			entries[i] = model.TontinePayoutOrder{
				CycleID:  cycle.ID,
				UserID:   a.UserID,
				Position: a.Position,
			}
		}
		if err := tx.PayoutOrders().BulkCreate(ctx, entries); err != nil {
			return err
		}

		for _, a := range order {
			round := &model.TontineRound{
				CycleID:         cycle.ID,
				RoundNumber:     a.Position,
				CollectorUserID: a.UserID,
				Status:          model.RoundPending,
			}
			if err := tx.Rounds().Create(ctx, round); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// the partial unique index backstops the FindActive check when two
		// requests race past it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errno.ErrCycleConflict
		}
		logger.Error("cycle creation failed", zap.Uint64("tontine_id", tontineID), zap.Error(err))
		return nil, errno.ErrDatabase
	}

	logger.Info("cycle created",
		zap.Uint64("tontine_id", tontineID),
		zap.Uint64("cycle_id", cycle.ID),
		zap.Int("total_rounds", cycle.TotalRounds),
		zap.String("policy", tontine.PickupPolicy))

	return s.loadCycleDetails(ctx, cycle)
}

// GetCycle returns a cycle with its payout order and rounds embedded
func (s *CycleService) GetCycle(ctx context.Context, cycleID uint64) (*model.TontineCycle, error) {
	cycle, err := s.store.Cycles().GetByID(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if cycle == nil {
		return nil, errno.ErrCycleNotFound
	}
	return s.loadCycleDetails(ctx, cycle)
}

// ListCycles returns all cycles of a tontine, newest first
func (s *CycleService) ListCycles(ctx context.Context, tontineID uint64) ([]model.TontineCycle, error) {
	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}

	cycles, err := s.store.Cycles().ListByTontine(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	return cycles, nil
}

// SetPayoutOrder replaces the payout order of a pending cycle with an
// owner-supplied permutation of the member set. Round collectors are
// reassigned in the same transaction so order and rounds cannot diverge.
func (s *CycleService) SetPayoutOrder(ctx context.Context, cycleID, actorID uint64, customOrder []uint64) ([]model.TontinePayoutOrder, error) {
	cycle, err := s.store.Cycles().GetByID(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if cycle == nil {
		return nil, errno.ErrCycleNotFound
	}

	tontine, err := s.store.Tontines().GetByID(ctx, cycle.TontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, errno.ErrNotOwner.WithMessage("Only the owner can set payout order")
	}
	if cycle.Status != model.CyclePending {
		return nil, errno.ErrCycleNotPending.WithMessage("Can only modify order before cycle starts")
	}

	members, err := s.store.Members().ListByTontine(ctx, cycle.TontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}

	order, err := s.generator.Generate(members, model.PolicyCustom, customOrder)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.PayoutOrders().DeleteByCycle(ctx, cycleID); err != nil {
			return err
		}

		entries := make([]model.TontinePayoutOrder, len(order))
		for i, a := range order {
			entries[i] = model.TontinePayoutOrder{
				CycleID:  cycleID,
				UserID:   a.UserID,
				Position: a.Position,
			}
		}
		if err := tx.PayoutOrders().BulkCreate(ctx, entries); err != nil {
			return err
		}

		// rounds were materialized from the previous order
		for _, a := range order {
			if err := tx.Rounds().UpdateCollector(ctx, cycleID, a.Position, a.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("payout order update failed", zap.Uint64("cycle_id", cycleID), zap.Error(err))
		return nil, errno.ErrDatabase
	}

	updated, err := s.store.PayoutOrders().ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	return updated, nil
}

// StartCycle transitions a pending cycle to active, sets current_round to 1
// and opens round 1. Owner only.
func (s *CycleService) StartCycle(ctx context.Context, cycleID, actorID uint64) (*model.TontineCycle, error) {
	cycle, err := s.store.Cycles().GetByID(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if cycle == nil {
		return nil, errno.ErrCycleNotFound
	}

	tontine, err := s.store.Tontines().GetByID(ctx, cycle.TontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, errno.ErrNotOwner.WithMessage("Only the owner can start a cycle")
	}
	if cycle.Status != model.CyclePending {
		return nil, errno.ErrCycleNotPending
	}

	now := time.Now()
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Cycles().UpdateStatus(ctx, cycleID, model.CycleActive); err != nil {
			return err
		}
		if err := tx.Cycles().UpdateCurrentRound(ctx, cycleID, 1); err != nil {
			return err
		}

		first, err := tx.Rounds().GetByNumber(ctx, cycleID, 1)
		if err != nil {
			return err
		}
		if first == nil {
			return errno.ErrRoundNotFound
		}
		return tx.Rounds().Open(ctx, first.ID, now)
	})
	if err != nil {
		logger.Error("cycle start failed", zap.Uint64("cycle_id", cycleID), zap.Error(err))
		return nil, errno.ErrDatabase
	}

	logger.Info("cycle started", zap.Uint64("cycle_id", cycleID))
	return s.GetCycle(ctx, cycleID)
}

// CycleStats is the owner-facing read model for the currently open round
type CycleStats struct {
	CycleID          uint64        `json:"cycle_id"`
	CurrentRound     int           `json:"current_round"`
	TotalRounds      int           `json:"total_rounds"`
	RemainingRounds  int           `json:"remaining_rounds"`
	MembersPaid      []StatsMember `json:"members_paid"`
	MembersNotPaid   []StatsMember `json:"members_not_paid"`
	MembersCollected []StatsMember `json:"members_collected"`
}

// StatsMember is one member's entry in the stats partitions
type StatsMember struct {
	UserID   uint64 `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Position int    `json:"position,omitempty"`
}

// GetCycleStats partitions members into paid / not paid for the open round
// and lists who has already collected their pot. Owner only.
func (s *CycleService) GetCycleStats(ctx context.Context, cycleID, actorID uint64) (*CycleStats, error) {
	cycle, err := s.store.Cycles().GetByID(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if cycle == nil {
		return nil, errno.ErrCycleNotFound
	}

	tontine, err := s.store.Tontines().GetByID(ctx, cycle.TontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, errno.ErrNotOwner.WithMessage("Only the owner can view cycle stats")
	}

	members, err := s.store.Members().ListByTontine(ctx, cycle.TontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	payoutOrder, err := s.store.PayoutOrders().ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	rounds, err := s.store.Rounds().ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, errno.ErrDatabase
	}

	var openRound *model.TontineRound
	for i := range rounds {
		if rounds[i].Status == model.RoundOpen {
			openRound = &rounds[i]
			break
		}
	}

	stats := &CycleStats{
		CycleID:          cycleID,
		CurrentRound:     cycle.CurrentRound,
		TotalRounds:      cycle.TotalRounds,
		RemainingRounds:  cycle.TotalRounds - cycle.CurrentRound,
		MembersPaid:      []StatsMember{},
		MembersNotPaid:   []StatsMember{},
		MembersCollected: []StatsMember{},
	}

	paid := map[uint64]bool{}
	if openRound != nil {
		payments, _, err := s.store.Payments().ListByRound(ctx, openRound.ID, 0, 0)
		if err != nil {
			return nil, errno.ErrDatabase
		}
		for _, p := range payments {
			if p.Status == model.PaymentCompleted {
				paid[p.UserID] = true
			}
		}
	}

	for _, m := range members {
		entry := StatsMember{UserID: m.UserID}
		if m.User != nil {
			entry.Name = m.User.Name
			entry.Email = m.User.Email
		}
		// with no open round every member counts as not paid
		if openRound != nil && paid[m.UserID] {
			stats.MembersPaid = append(stats.MembersPaid, entry)
		} else {
			stats.MembersNotPaid = append(stats.MembersNotPaid, entry)
		}
	}

	for _, po := range payoutOrder {
		if !po.HasCollected {
			continue
		}
		entry := StatsMember{UserID: po.UserID, Position: po.Position}
		if po.User != nil {
			entry.Name = po.User.Name
		}
		stats.MembersCollected = append(stats.MembersCollected, entry)
	}

	return stats, nil
}

func (s *CycleService) loadCycleDetails(ctx context.Context, cycle *model.TontineCycle) (*model.TontineCycle, error) {
	payoutOrder, err := s.store.PayoutOrders().ListByCycle(ctx, cycle.ID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	rounds, err := s.store.Rounds().ListByCycle(ctx, cycle.ID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	cycle.PayoutOrder = payoutOrder
	cycle.Rounds = rounds
	return cycle, nil
}
