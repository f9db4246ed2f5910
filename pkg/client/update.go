package client

import (
	"encoding/json"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

// WorkOrderUpdate is a typed builder for partial updates. Each field has
// its own setter; unset fields are omitted from the request body.
type WorkOrderUpdate struct {
	status          *model.OrderStatus
	deliveryDate    *time.Time
	description     *string
	advanceAmount   *float64
	estimatedAmount *float64
	actualAmount    *float64
}

func NewWorkOrderUpdate() *WorkOrderUpdate {
	return &WorkOrderUpdate{}
}

func (u *WorkOrderUpdate) WithStatus(status model.OrderStatus) *WorkOrderUpdate {
	u.status = &status
	return u
}

func (u *WorkOrderUpdate) WithDeliveryDate(t time.Time) *WorkOrderUpdate {
	u.deliveryDate = &t
	return u
}

func (u *WorkOrderUpdate) WithDescription(description string) *WorkOrderUpdate {
	u.description = &description
	return u
}

func (u *WorkOrderUpdate) WithAdvanceAmount(amount float64) *WorkOrderUpdate {
	u.advanceAmount = &amount
	return u
}

func (u *WorkOrderUpdate) WithEstimatedAmount(amount float64) *WorkOrderUpdate {
	u.estimatedAmount = &amount
	return u
}

func (u *WorkOrderUpdate) WithActualAmount(amount float64) *WorkOrderUpdate {
	u.actualAmount = &amount
	return u
}

func (u *WorkOrderUpdate) MarshalJSON() ([]byte, error) {
	var deliveryDate *string
	if u.deliveryDate != nil {
		formatted := FormatSubmissionDate(*u.deliveryDate)
		deliveryDate = &formatted
	}
	return json.Marshal(struct {
		Status               *model.OrderStatus `json:"status,omitempty"`
		ExpectedDeliveryDate *string            `json:"expected_delivery_date,omitempty"`
		Description          *string            `json:"description,omitempty"`
		AdvanceAmount        *float64           `json:"advance_amount,omitempty"`
		EstimatedAmount      *float64           `json:"estimated_amount,omitempty"`
		ActualAmount         *float64           `json:"actual_amount,omitempty"`
	}{
		Status:               u.status,
		ExpectedDeliveryDate: deliveryDate,
		Description:          u.description,
		AdvanceAmount:        u.advanceAmount,
		EstimatedAmount:      u.estimatedAmount,
		ActualAmount:         u.actualAmount,
	})
}
