package request

import "github.com/shopspring/decimal"

type CreateTontineRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=255"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	MinMembers   int             `json:"min_members" binding:"required,gte=2"`
	Frequency    string          `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	PickupPolicy string          `json:"pickup_policy" binding:"omitempty,oneof=arrival random custom"`
}

type UpdateTontineRequest struct {
	Name         string           `json:"name" binding:"omitempty,min=1,max=255"`
	Amount       *decimal.Decimal `json:"amount"`
	MinMembers   *int             `json:"min_members" binding:"omitempty,gte=2"`
	Frequency    string           `json:"frequency" binding:"omitempty,oneof=daily weekly monthly yearly"`
	PickupPolicy string           `json:"pickup_policy" binding:"omitempty,oneof=arrival random custom"`
}

type MakePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
