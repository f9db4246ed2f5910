package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary computes the dashboard counters in a single query. Active
// means not yet delivered; overdue and due-in-1-day only count active
// orders.
func (r *DashboardRepository) Summary(ctx context.Context, now time.Time) (*model.DashboardSummary, error) {
	placeholders := make([]string, len(deliveredStatuses))
	for i := range deliveredStatuses {
		placeholders[i] = "?"
	}
	notDelivered := "status NOT IN (" + strings.Join(placeholders, ",") + ")"

	query := `
		SELECT
			COUNT(*) AS total_work_orders,
			COUNT(*) FILTER (WHERE ` + notDelivered + `) AS active_work_orders,
			COUNT(*) FILTER (WHERE ` + notDelivered + ` AND expected_delivery_date < ?) AS overdue_work_orders,
			COUNT(*) FILTER (WHERE ` + notDelivered + ` AND expected_delivery_date >= ? AND expected_delivery_date < ?) AS orders_due_in_1_day
		FROM work_orders
	`

	args := make([]interface{}, 0, 9)
	for _, status := range deliveredStatuses {
		args = append(args, status)
	}
	for _, status := range deliveredStatuses {
		args = append(args, status)
	}
	args = append(args, now)
	for _, status := range deliveredStatuses {
		args = append(args, status)
	}
	args = append(args, now, now.Add(24*time.Hour))

	var summary model.DashboardSummary
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}
