package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client model.Client) (*model.Client, error) {
	var saved model.Client
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clients (name, mobile_number, email, address)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, mobile_number, email, address
	`,
		client.Name,
		client.MobileNumber,
		client.Email,
		client.Address,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, mobile_number, email, address
		FROM clients
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

func (r *ClientRepository) GetByMobile(ctx context.Context, mobile string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, mobile_number, email, address
		FROM clients
		WHERE mobile_number = ?
		LIMIT 1
	`, mobile).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, mobile_number, email, address
		FROM clients
		ORDER BY id ASC
	`).Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) ListOrdersForClient(ctx context.Context, clientID uint) ([]model.WorkOrder, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM work_orders w
		JOIN clients c ON c.id = w.client_id
		WHERE w.client_id = ?
		ORDER BY w.expected_delivery_date ASC, w.id ASC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	orders := make([]model.WorkOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}
