package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tontine status
const (
	TontineOpen   = "open"
	TontineClosed = "closed"
)

// Cycle status
const (
	CyclePending   = "pending"
	CycleActive    = "active"
	CycleCompleted = "completed"
)

// Round status
const (
	RoundPending = "pending"
	RoundOpen    = "open"
	RoundClosed  = "closed"
)

// Payment status
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Pickup policy
const (
	PolicyArrival = "arrival"
	PolicyRandom  = "random"
	PolicyCustom  = "custom"
)

// Frequency
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// User account
type User struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tontine is a rotating savings group with a fixed periodic contribution
type Tontine struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Amount       decimal.Decimal `gorm:"type:decimal(32,2);not null" json:"amount"`
	MinMembers   int             `gorm:"not null" json:"min_members"`
	Frequency    string          `gorm:"type:varchar(10);not null" json:"frequency"` // daily, weekly, monthly, yearly
	PickupPolicy string          `gorm:"type:varchar(10);not null;default:'arrival'" json:"pickup_policy"`
	Status       string          `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
	OwnerID      uint64          `gorm:"not null;index" json:"owner_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Members []TontineMember `gorm:"foreignKey:TontineID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TontineMember links a user to a tontine. One row per (tontine, user).
type TontineMember struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TontineID uint64    `gorm:"not null;uniqueIndex:idx_tontine_user" json:"tontine_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_tontine_user" json:"user_id"`
	JoinedAt  time.Time `gorm:"not null;autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TontineCycle is one full rotation through all members' payout turns.
// TotalRounds is frozen at creation time; CurrentRound is 0 until started.
type TontineCycle struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TontineID    uint64     `gorm:"not null;index" json:"tontine_id"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	TotalRounds  int        `gorm:"not null" json:"total_rounds"`
	CurrentRound int        `gorm:"not null;default:0" json:"current_round"`
	Status       string     `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"` // pending, active, completed
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	PayoutOrder []TontinePayoutOrder `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE" json:"payout_order,omitempty"`
	Rounds      []TontineRound       `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE" json:"rounds,omitempty"`
}

// TontinePayoutOrder assigns a member a turn number within a cycle.
// Positions are dense 1..N; both (cycle, user) and (cycle, position) are unique.
type TontinePayoutOrder struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CycleID      uint64     `gorm:"not null;uniqueIndex:idx_cycle_user;uniqueIndex:idx_cycle_position" json:"cycle_id"`
	UserID       uint64     `gorm:"not null;uniqueIndex:idx_cycle_user" json:"user_id"`
	Position     int        `gorm:"not null;uniqueIndex:idx_cycle_position" json:"position"`
	HasCollected bool       `gorm:"not null;default:false" json:"has_collected"`
	CollectedAt  *time.Time `json:"collected_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TontineRound is one turn within a cycle. The collector is the member whose
// payout position equals the round number.
type TontineRound struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CycleID         uint64     `gorm:"not null;uniqueIndex:idx_cycle_round" json:"cycle_id"`
	RoundNumber     int        `gorm:"not null;uniqueIndex:idx_cycle_round" json:"round_number"`
	CollectorUserID uint64     `gorm:"not null" json:"collector_user_id"`
	Status          string     `gorm:"type:varchar(10);not null;default:'pending'" json:"status"` // pending, open, closed
	StartedAt       *time.Time `json:"started_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	Collector *User `gorm:"foreignKey:CollectorUserID" json:"collector,omitempty"`
}

// Payment records one member's contribution to one round.
// Uniqueness of (round, user) is enforced at the store level so the
// duplicate-payment check is race-free.
type Payment struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundID   uint64          `gorm:"not null;uniqueIndex:idx_round_user" json:"round_id"`
	UserID    uint64          `gorm:"not null;uniqueIndex:idx_round_user;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(32,2);not null" json:"amount"`
	Status    string          `gorm:"type:varchar(10);not null;default:'pending'" json:"status"` // pending, completed, failed
	PaidAt    time.Time       `gorm:"not null;autoCreateTime" json:"paid_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides
func (User) TableName() string               { return "users" }
func (Tontine) TableName() string            { return "tontines" }
func (TontineMember) TableName() string      { return "tontine_members" }
func (TontineCycle) TableName() string       { return "tontine_cycles" }
func (TontinePayoutOrder) TableName() string { return "tontine_payout_order" }
func (TontineRound) TableName() string       { return "tontine_rounds" }
func (Payment) TableName() string            { return "payments" }
