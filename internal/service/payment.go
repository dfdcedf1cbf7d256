package service

import (
	"context"
	"errors"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/logger"
	"tontine-core/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService records simulated contributions. Payments are not settled
// against any payment rail; a created payment is immediately "completed".
type PaymentService struct {
	store repository.Store
}

func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store}
}

// CreateForRound records a member's contribution to an open round.
// The amount must equal the tontine's fixed contribution amount exactly, and
// each member pays each round at most once.
func (s *PaymentService) CreateForRound(ctx context.Context, roundID, userID uint64, amount decimal.Decimal) (*model.Payment, error) {
	if !amount.IsPositive() {
		return nil, errno.ErrInvalidAmount.WithMessage("Payment amount must be a positive number")
	}

	round, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if round == nil {
		return nil, errno.ErrRoundNotFound
	}
	if round.Status != model.RoundOpen {
		return nil, errno.ErrRoundNotOpen.WithMessage("Payments only allowed for open rounds")
	}

	cycle, err := s.store.Cycles().GetByID(ctx, round.CycleID)
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

	isMember, err := s.store.Members().IsMember(ctx, tontine.ID, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if !isMember {
		return nil, errno.ErrNotMember.WithMessage("You must be a member of this tontine")
	}

	existing, err := s.store.Payments().GetByUserAndRound(ctx, userID, roundID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if existing != nil {
		return nil, errno.ErrDuplicatePayment
	}

	if !amount.Equal(tontine.Amount) {
		return nil, errno.ErrWrongAmount.WithMessagef("Payment amount must be %s", tontine.Amount.String())
	}

	payment := &model.Payment{
		RoundID: roundID,
		UserID:  userID,
		Amount:  amount,
		Status:  model.PaymentCompleted,
	}
	if err := s.store.Payments().Create(ctx, payment); err != nil {
		// the (round, user) unique index makes the duplicate check race-free
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errno.ErrDuplicatePayment
		}
		logger.Error("payment creation failed", zap.Uint64("round_id", roundID), zap.Error(err))
		return nil, errno.ErrDatabase
	}

	logger.Info("payment recorded",
		zap.Uint64("round_id", roundID),
		zap.Uint64("user_id", userID),
		zap.String("amount", amount.String()))
	return payment, nil
}

// CreateForTontine records a simulated contribution addressed at the tontine
// itself rather than a specific round; it lands on the currently open round.
// Requires the membership threshold to have been reached.
func (s *PaymentService) CreateForTontine(ctx context.Context, tontineID, userID uint64, amount decimal.Decimal) (*model.Payment, error) {
	if !amount.IsPositive() {
		return nil, errno.ErrInvalidAmount.WithMessage("Payment amount must be a positive number")
	}

	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}

	isMember, err := s.store.Members().IsMember(ctx, tontineID, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if !isMember {
		return nil, errno.ErrNotMember.WithMessage("You must be a member to make a payment")
	}

	count, err := s.store.Members().Count(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if count < int64(tontine.MinMembers) {
		return nil, errno.ErrNotEnoughMembers.WithMessagef(
			"Payment not allowed. Minimum %d members required, currently %d", tontine.MinMembers, count)
	}

	if !amount.Equal(tontine.Amount) {
		return nil, errno.ErrWrongAmount.WithMessagef("Payment amount must be %s", tontine.Amount.String())
	}

	cycle, err := s.store.Cycles().FindActive(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if cycle == nil || cycle.Status != model.CycleActive {
		return nil, errno.ErrRoundNotOpen.WithMessage("No active cycle to pay into")
	}

	round, err := s.store.Rounds().GetByNumber(ctx, cycle.ID, cycle.CurrentRound)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if round == nil || round.Status != model.RoundOpen {
		return nil, errno.ErrRoundNotOpen.WithMessage("No open round to pay into")
	}

	return s.CreateForRound(ctx, round.ID, userID, amount)
}

// ListByRound returns the payments of a round, paginated
func (s *PaymentService) ListByRound(ctx context.Context, roundID uint64, p pagination.Params) ([]model.Payment, int64, error) {
	round, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, 0, errno.ErrDatabase
	}
	if round == nil {
		return nil, 0, errno.ErrRoundNotFound
	}

	payments, total, err := s.store.Payments().ListByRound(ctx, roundID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, errno.ErrDatabase
	}
	return payments, total, nil
}

// ListByUser returns a user's payment history, newest first, paginated
func (s *PaymentService) ListByUser(ctx context.Context, userID uint64, p pagination.Params) ([]model.Payment, int64, error) {
	payments, total, err := s.store.Payments().ListByUser(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, errno.ErrDatabase
	}
	return payments, total, nil
}
