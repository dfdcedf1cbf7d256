package request

import "time"

type CreateCycleRequest struct {
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CustomOrder []uint64   `json:"custom_order"`
}

type SetPayoutOrderRequest struct {
	CustomOrder []uint64 `json:"custom_order" binding:"required"`
}
