package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
)

var deliveredStatuses = []string{
	string(model.StatusDeliveredFullyPaid),
	string(model.StatusDeliveredPaymentPending),
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	w.id,
	w.client_id,
	w.order_date,
	w.expected_delivery_date,
	w.status,
	w.description,
	w.advance_amount,
	w.estimated_amount,
	w.actual_amount,
	w.due_amount,
	c.name AS client_name,
	c.mobile_number AS client_mobile,
	c.email AS client_email,
	c.address AS client_address
`

type orderRow struct {
	ID                   uint
	ClientID             uint
	OrderDate            *time.Time
	ExpectedDeliveryDate time.Time
	Status               string
	Description          *string
	AdvanceAmount        *float64
	EstimatedAmount      *float64
	ActualAmount         *float64
	DueAmount            *float64
	ClientName           string
	ClientMobile         string
	ClientEmail          *string
	ClientAddress        *string
}

func (row orderRow) toModel() model.WorkOrder {
	return model.WorkOrder{
		ID:                   row.ID,
		ClientID:             row.ClientID,
		OrderDate:            row.OrderDate,
		ExpectedDeliveryDate: row.ExpectedDeliveryDate,
		Status:               model.OrderStatus(row.Status),
		Description:          row.Description,
		AdvanceAmount:        row.AdvanceAmount,
		EstimatedAmount:      row.EstimatedAmount,
		ActualAmount:         row.ActualAmount,
		DueAmount:            row.DueAmount,
		Client: &model.Client{
			ID:           row.ClientID,
			Name:         row.ClientName,
			MobileNumber: row.ClientMobile,
			Email:        row.ClientEmail,
			Address:      row.ClientAddress,
		},
	}
}

func (r *OrderRepository) Create(ctx context.Context, order model.WorkOrder) (*model.WorkOrder, error) {
	var row struct {
		ID uint
	}
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO work_orders (
			client_id,
			order_date,
			expected_delivery_date,
			status,
			description,
			advance_amount,
			estimated_amount,
			actual_amount,
			due_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		order.ClientID,
		order.OrderDate,
		order.ExpectedDeliveryDate,
		string(order.Status),
		order.Description,
		order.AdvanceAmount,
		order.EstimatedAmount,
		order.ActualAmount,
		order.DueAmount,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, row.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*model.WorkOrder, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM work_orders w
		JOIN clients c ON c.id = w.client_id
		WHERE w.id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	order := row.toModel()
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]model.WorkOrder, error) {
	return r.list(ctx, "ORDER BY w.id ASC")
}

func (r *OrderRepository) ListByDeliveryDate(ctx context.Context, ascending bool) ([]model.WorkOrder, error) {
	direction := "ASC"
	if !ascending {
		direction = "DESC"
	}
	return r.list(ctx, "ORDER BY w.expected_delivery_date "+direction+", w.id ASC")
}

func (r *OrderRepository) list(ctx context.Context, orderBy string, filters ...string) ([]model.WorkOrder, error) {
	return r.listWithArgs(ctx, orderBy, filters, nil)
}

func (r *OrderRepository) listWithArgs(
	ctx context.Context,
	orderBy string,
	filters []string,
	args []interface{},
) ([]model.WorkOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM work_orders w
		JOIN clients c ON c.id = w.client_id
	`
	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " " + orderBy

	var rows []orderRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]model.WorkOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, id uint, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.OrderDate != nil {
		add("order_date", *patch.OrderDate)
	}
	if patch.ExpectedDeliveryDate != nil {
		add("expected_delivery_date", *patch.ExpectedDeliveryDate)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.AdvanceAmount != nil {
		add("advance_amount", *patch.AdvanceAmount)
	}
	if patch.EstimatedAmount != nil {
		add("estimated_amount", *patch.EstimatedAmount)
	}
	if patch.ActualAmount != nil {
		add("actual_amount", *patch.ActualAmount)
	}
	if patch.DueAmount != nil {
		add("due_amount", *patch.DueAmount)
	}

	args = append(args, id)
	result := r.db.WithContext(ctx).Exec(
		"UPDATE work_orders SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM work_orders WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Filter applies delivery date constraints on the repository side.
// Date arguments are treated as calendar days: a specific delivery date
// matches the whole day, a window spans from the start day to the end
// day inclusive.
func (r *OrderRepository) Filter(
	ctx context.Context,
	deliveryDate *time.Time,
	windowStart *time.Time,
	windowEnd *time.Time,
	overdueOnly bool,
	now time.Time,
) ([]model.WorkOrder, error) {
	var filters []string
	var args []interface{}

	if deliveryDate != nil {
		day := dateOnly(*deliveryDate)
		filters = append(filters, "w.expected_delivery_date >= ?", "w.expected_delivery_date < ?")
		args = append(args, day, day.Add(24*time.Hour))
	}
	if windowStart != nil {
		filters = append(filters, "w.expected_delivery_date >= ?")
		args = append(args, dateOnly(*windowStart))
	}
	if windowEnd != nil {
		filters = append(filters, "w.expected_delivery_date < ?")
		args = append(args, dateOnly(*windowEnd).Add(24*time.Hour))
	}
	if overdueOnly {
		placeholders := make([]string, len(deliveredStatuses))
		for i, status := range deliveredStatuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		filters = append(filters, "w.status NOT IN ("+strings.Join(placeholders, ",")+")")
		filters = append(filters, "w.expected_delivery_date < ?")
		args = append(args, now)
	}

	return r.listWithArgs(ctx, "ORDER BY w.expected_delivery_date ASC, w.id ASC", filters, args)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
