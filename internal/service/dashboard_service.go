package service

import (
	"context"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

type DashboardService struct {
	dashboard DashboardRepository
	now       func() time.Time
}

func NewDashboardService(dashboard DashboardRepository) *DashboardService {
	return &DashboardService{dashboard: dashboard, now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	return s.dashboard.Summary(ctx, s.now())
}
