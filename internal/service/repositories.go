package service

import (
	"context"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.WorkOrder) (*model.WorkOrder, error)
	GetByID(ctx context.Context, id uint) (*model.WorkOrder, error)
	List(ctx context.Context) ([]model.WorkOrder, error)
	Update(ctx context.Context, id uint, patch model.WorkOrderPatch) (*model.WorkOrder, error)
	Delete(ctx context.Context, id uint) error
	ListByDeliveryDate(ctx context.Context, ascending bool) ([]model.WorkOrder, error)
	Filter(
		ctx context.Context,
		deliveryDate *time.Time,
		windowStart *time.Time,
		windowEnd *time.Time,
		overdueOnly bool,
		now time.Time,
	) ([]model.WorkOrder, error)
}

type ClientRepository interface {
	Create(ctx context.Context, client model.Client) (*model.Client, error)
	GetByID(ctx context.Context, id uint) (*model.Client, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	ListOrdersForClient(ctx context.Context, clientID uint) ([]model.WorkOrder, error)
}

type DashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*model.DashboardSummary, error)
}
