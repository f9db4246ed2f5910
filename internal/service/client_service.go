package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
	"github.com/madina/boutique-orders/internal/query"
)

type ClientService struct {
	clients ClientRepository
	now     func() time.Time
}

func NewClientService(clients ClientRepository) *ClientService {
	return &ClientService{clients: clients, now: time.Now}
}

func (s *ClientService) Create(ctx context.Context, input ClientInput) (*model.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	_, err := s.clients.GetByMobile(ctx, input.MobileNumber)
	if err == nil {
		return nil, fmt.Errorf("%w: mobile number already registered", ErrInvalidInput)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.clients.Create(ctx, model.Client{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
		Address:      input.Address,
	})
}

func (s *ClientService) List(ctx context.Context) ([]model.Client, error) {
	return s.clients.List(ctx)
}

// Summary returns a client together with all of their work orders.
func (s *ClientService) Summary(ctx context.Context, id uint) (*model.ClientSummary, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		return nil, err
	}
	return s.buildSummary(ctx, client)
}

func (s *ClientService) SummaryByMobile(ctx context.Context, mobile string) (*model.ClientSummary, error) {
	client, err := s.clients.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client with mobile %s", ErrNotFound, mobile)
		}
		return nil, err
	}
	return s.buildSummary(ctx, client)
}

func (s *ClientService) buildSummary(ctx context.Context, client *model.Client) (*model.ClientSummary, error) {
	orders, err := s.clients.ListOrdersForClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range orders {
		if overdue, err := query.Overdue(orders[i], now); err == nil {
			orders[i].IsOverdue = overdue
		}
	}
	return &model.ClientSummary{Client: *client, WorkOrders: orders}, nil
}
