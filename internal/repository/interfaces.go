package repository

import (
	"context"
	"time"

	"tontine-core/internal/model"
)

// Lookup operations (GetBy*, FindActive) return (nil, nil) when no row
// matches; a non-nil error always means the query itself failed.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// TontineRepository defines the interface for tontine group definitions
type TontineRepository interface {
	Create(ctx context.Context, tontine *model.Tontine) error
	GetByID(ctx context.Context, id uint64) (*model.Tontine, error)
	List(ctx context.Context, status string, limit, offset int) ([]model.Tontine, int64, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Tontine, error)
	Update(ctx context.Context, tontine *model.Tontine) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// MemberRepository tracks who belongs to which tontine and when they joined
type MemberRepository interface {
	Add(ctx context.Context, member *model.TontineMember) error
	// ListByTontine returns members ordered by joined_at ascending, ties
	// broken by insertion order. Payout generation depends on this ordering.
	ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineMember, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.TontineMember, error)
	Count(ctx context.Context, tontineID uint64) (int64, error)
	IsMember(ctx context.Context, tontineID, userID uint64) (bool, error)
	Remove(ctx context.Context, tontineID, userID uint64) error
}

// CycleRepository owns cycle rows and their status/current-round pointers
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.TontineCycle) error
	GetByID(ctx context.Context, id uint64) (*model.TontineCycle, error)
	ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineCycle, error)
	// FindActive returns the pending or active cycle for a tontine, nil if none
	FindActive(ctx context.Context, tontineID uint64) (*model.TontineCycle, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	UpdateCurrentRound(ctx context.Context, id uint64, roundNumber int) error
}

// PayoutOrderRepository owns the position assignments of a cycle
type PayoutOrderRepository interface {
	BulkCreate(ctx context.Context, entries []model.TontinePayoutOrder) error
	// ListByCycle returns entries ordered by position ascending
	ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontinePayoutOrder, error)
	DeleteByCycle(ctx context.Context, cycleID uint64) error
	MarkCollected(ctx context.Context, cycleID, userID uint64, at time.Time) error
}

// RoundRepository owns the rounds materialized for a cycle
type RoundRepository interface {
	Create(ctx context.Context, round *model.TontineRound) error
	GetByID(ctx context.Context, id uint64) (*model.TontineRound, error)
	GetByNumber(ctx context.Context, cycleID uint64, roundNumber int) (*model.TontineRound, error)
	// ListByCycle returns rounds ordered by round_number ascending
	ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontineRound, error)
	Open(ctx context.Context, id uint64, at time.Time) error
	Close(ctx context.Context, id uint64, at time.Time) error
	UpdateCollector(ctx context.Context, cycleID uint64, roundNumber int, collectorUserID uint64) error
}

// PaymentRepository records contributions per round and user
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByUserAndRound(ctx context.Context, userID, roundID uint64) (*model.Payment, error)
	ListByRound(ctx context.Context, roundID uint64, limit, offset int) ([]model.Payment, int64, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Payment, int64, error)
	// ListByTontine returns all payments reachable through the tontine's
	// cycles and rounds, newest first
	ListByTontine(ctx context.Context, tontineID uint64) ([]model.Payment, error)
}

// Store aggregates all repositories behind one handle so services can run
// multi-entity state transitions as a single unit of work.
type Store interface {
	Users() UserRepository
	Tontines() TontineRepository
	Members() MemberRepository
	Cycles() CycleRepository
	PayoutOrders() PayoutOrderRepository
	Rounds() RoundRepository
	Payments() PaymentRepository

	// Transaction runs fn against a Store bound to one database transaction.
	// Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
