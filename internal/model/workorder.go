package model

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusOrderPlaced             OrderStatus = "Order Placed"
	StatusStarted                 OrderStatus = "Started"
	StatusFinished                OrderStatus = "Finished"
	StatusDeliveredFullyPaid      OrderStatus = "Delivered - Fully Paid"
	StatusDeliveredPaymentPending OrderStatus = "Delivered - Payment Pending"
)

// AllStatuses lists the closed status set in declaration order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusOrderPlaced,
		StatusStarted,
		StatusFinished,
		StatusDeliveredFullyPaid,
		StatusDeliveredPaymentPending,
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOrderPlaced, StatusStarted, StatusFinished,
		StatusDeliveredFullyPaid, StatusDeliveredPaymentPending:
		return true
	}
	return false
}

// Delivered reports whether the status is one of the two terminal
// delivered states. A delivered order is never overdue.
func (s OrderStatus) Delivered() bool {
	return s == StatusDeliveredFullyPaid || s == StatusDeliveredPaymentPending
}

func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

type WorkOrder struct {
	ID                   uint        `json:"id"`
	ClientID             uint        `json:"client_id"`
	Client               *Client     `json:"client,omitempty" gorm:"-"`
	OrderDate            *time.Time  `json:"order_date,omitempty"`
	ExpectedDeliveryDate time.Time   `json:"expected_delivery_date"`
	Status               OrderStatus `json:"status"`
	Description          *string     `json:"description,omitempty"`
	AdvanceAmount        *float64    `json:"advance_amount,omitempty"`
	EstimatedAmount      *float64    `json:"estimated_amount,omitempty"`
	ActualAmount         *float64    `json:"actual_amount,omitempty"`
	DueAmount            *float64    `json:"due_amount,omitempty"`
	IsOverdue            bool        `json:"is_overdue"`
}

// WorkOrderPatch is a typed partial update. Nil fields are left
// untouched by the repository.
type WorkOrderPatch struct {
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	Status               *OrderStatus
	Description          *string
	AdvanceAmount        *float64
	EstimatedAmount      *float64
	ActualAmount         *float64
	DueAmount            *float64
}

func (p WorkOrderPatch) Empty() bool {
	return p.OrderDate == nil && p.ExpectedDeliveryDate == nil && p.Status == nil &&
		p.Description == nil && p.AdvanceAmount == nil && p.EstimatedAmount == nil &&
		p.ActualAmount == nil && p.DueAmount == nil
}

// ClientName returns the embedded client name or "" when the snapshot
// is absent.
func (w WorkOrder) ClientName() string {
	if w.Client == nil {
		return ""
	}
	return w.Client.Name
}

func (w WorkOrder) ClientMobile() string {
	if w.Client == nil {
		return ""
	}
	return w.Client.MobileNumber
}
