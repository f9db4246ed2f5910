package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
	"github.com/madina/boutique-orders/internal/query"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeOrderRepo struct {
	nextID uint
	seq    []uint
	orders map[uint]model.WorkOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextID: 1, orders: map[uint]model.WorkOrder{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, order model.WorkOrder) (*model.WorkOrder, error) {
	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = order
	r.seq = append(r.seq, order.ID)
	saved := order
	return &saved, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uint) (*model.WorkOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) List(_ context.Context) ([]model.WorkOrder, error) {
	out := make([]model.WorkOrder, 0, len(r.seq))
	for _, id := range r.seq {
		out = append(out, r.orders[id])
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id uint, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.OrderDate != nil {
		order.OrderDate = patch.OrderDate
	}
	if patch.ExpectedDeliveryDate != nil {
		order.ExpectedDeliveryDate = *patch.ExpectedDeliveryDate
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.Description != nil {
		order.Description = patch.Description
	}
	if patch.AdvanceAmount != nil {
		order.AdvanceAmount = patch.AdvanceAmount
	}
	if patch.EstimatedAmount != nil {
		order.EstimatedAmount = patch.EstimatedAmount
	}
	if patch.ActualAmount != nil {
		order.ActualAmount = patch.ActualAmount
	}
	if patch.DueAmount != nil {
		order.DueAmount = patch.DueAmount
	}
	r.orders[id] = order
	return &order, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orders, id)
	for i, seqID := range r.seq {
		if seqID == id {
			r.seq = append(r.seq[:i], r.seq[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeOrderRepo) ListByDeliveryDate(ctx context.Context, ascending bool) ([]model.WorkOrder, error) {
	orders, _ := r.List(ctx)
	sort.SliceStable(orders, func(i, j int) bool {
		if ascending {
			return orders[i].ExpectedDeliveryDate.Before(orders[j].ExpectedDeliveryDate)
		}
		return orders[j].ExpectedDeliveryDate.Before(orders[i].ExpectedDeliveryDate)
	})
	return orders, nil
}

func (r *fakeOrderRepo) Filter(
	ctx context.Context,
	deliveryDate, windowStart, windowEnd *time.Time,
	overdueOnly bool,
	now time.Time,
) ([]model.WorkOrder, error) {
	orders, _ := r.List(ctx)
	out := make([]model.WorkOrder, 0, len(orders))
	for _, o := range orders {
		d := o.ExpectedDeliveryDate
		if deliveryDate != nil {
			day := deliveryDate.Truncate(24 * time.Hour)
			if d.Before(day) || !d.Before(day.Add(24*time.Hour)) {
				continue
			}
		}
		if windowStart != nil && d.Before(*windowStart) {
			continue
		}
		if windowEnd != nil && d.After(windowEnd.Add(24*time.Hour)) {
			continue
		}
		if overdueOnly && (o.Status.Delivered() || !d.Before(now)) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type fakeClientRepo struct {
	nextID  uint
	clients map[uint]model.Client
	repo    *fakeOrderRepo
}

func newFakeClientRepo(repo *fakeOrderRepo) *fakeClientRepo {
	return &fakeClientRepo{nextID: 1, clients: map[uint]model.Client{}, repo: repo}
}

func (r *fakeClientRepo) Create(_ context.Context, client model.Client) (*model.Client, error) {
	client.ID = r.nextID
	r.nextID++
	r.clients[client.ID] = client
	saved := client
	return &saved, nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id uint) (*model.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

func (r *fakeClientRepo) GetByMobile(_ context.Context, mobile string) (*model.Client, error) {
	for _, client := range r.clients {
		if client.MobileNumber == mobile {
			c := client
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClientRepo) List(_ context.Context) ([]model.Client, error) {
	out := make([]model.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, client)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeClientRepo) ListOrdersForClient(ctx context.Context, clientID uint) ([]model.WorkOrder, error) {
	orders, _ := r.repo.List(ctx)
	out := make([]model.WorkOrder, 0, len(orders))
	for _, o := range orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
}

type stubExcel struct{}

func (stubExcel) Generate([]model.WorkOrder, time.Time) ([]byte, error) {
	return []byte("xlsx"), nil
}

type stubInvoice struct{}

func (stubInvoice) Generate(model.WorkOrder) ([]byte, error) {
	return []byte("pdf"), nil
}

func newTestOrderService() (*OrderService, *fakeOrderRepo, *fakeClientRepo) {
	orders := newFakeOrderRepo()
	clients := newFakeClientRepo(orders)
	svc := NewOrderService(orders, clients, stubExcel{}, stubInvoice{})
	svc.now = func() time.Time { return testNow }
	return svc, orders, clients
}

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		Client: ClientInput{
			Name:         "Aizhan",
			MobileNumber: "1234567890",
		},
		ExpectedDeliveryDate: "24/12/2024 05:30 PM",
	}
}

func TestOrderService_Create(t *testing.T) {
	t.Run("rejects empty name first", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		input.Client.Name = "  "
		input.Client.MobileNumber = "bad"

		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "name required")
	})

	t.Run("rejects short mobile number", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		input.Client.MobileNumber = "12345"

		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "invalid mobile number")
	})

	t.Run("rejects missing delivery date", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		input.ExpectedDeliveryDate = ""

		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "delivery date required")
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		bad := -5.0
		input.AdvanceAmount = &bad

		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("assigns id, default status and order date", func(t *testing.T) {
		svc, _, _ := newTestOrderService()

		order, err := svc.Create(context.Background(), validCreateInput())
		require.NoError(t, err)
		assert.Equal(t, uint(1), order.ID)
		assert.Equal(t, model.StatusOrderPlaced, order.Status)
		require.NotNil(t, order.OrderDate)
		assert.Equal(t, testNow, *order.OrderDate)
		assert.Equal(t, time.Date(2024, 12, 24, 17, 30, 0, 0, time.UTC), order.ExpectedDeliveryDate)
		require.NotNil(t, order.Client)
		assert.Equal(t, "Aizhan", order.Client.Name)
	})

	t.Run("derives due amount from estimate and advance", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		estimate, advance := 200.0, 50.0
		input.EstimatedAmount = &estimate
		input.AdvanceAmount = &advance

		order, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, order.DueAmount)
		assert.Equal(t, 150.0, *order.DueAmount)
	})

	t.Run("reuses an existing client matched by mobile", func(t *testing.T) {
		svc, _, clients := newTestOrderService()
		existing, err := clients.Create(context.Background(), model.Client{
			Name:         "Aizhan",
			MobileNumber: "1234567890",
		})
		require.NoError(t, err)

		order, err := svc.Create(context.Background(), validCreateInput())
		require.NoError(t, err)
		assert.Equal(t, existing.ID, order.ClientID)
		assert.Len(t, clients.clients, 1)
	})
}

func TestOrderService_Update(t *testing.T) {
	t.Run("unknown order maps to not found", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		_, err := svc.Update(context.Background(), 42, UpdateOrderInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		order, err := svc.Create(context.Background(), validCreateInput())
		require.NoError(t, err)

		bad := "Shipped"
		_, err = svc.Update(context.Background(), order.ID, UpdateOrderInput{Status: &bad})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("actual amount overrides estimate in due derivation", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		estimate, advance := 200.0, 50.0
		input.EstimatedAmount = &estimate
		input.AdvanceAmount = &advance
		order, err := svc.Create(context.Background(), input)
		require.NoError(t, err)

		actual := 180.0
		updated, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{ActualAmount: &actual})
		require.NoError(t, err)
		require.NotNil(t, updated.DueAmount)
		assert.Equal(t, 130.0, *updated.DueAmount)
	})

	t.Run("due amount never goes negative", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		input := validCreateInput()
		estimate, advance := 100.0, 150.0
		input.EstimatedAmount = &estimate
		input.AdvanceAmount = &advance

		order, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, order.DueAmount)
		assert.Equal(t, 0.0, *order.DueAmount)
	})

	t.Run("status transition to delivered clears the overdue flag", func(t *testing.T) {
		svc, orders, _ := newTestOrderService()
		input := validCreateInput()
		input.ExpectedDeliveryDate = "01/01/2024 09:00 AM" // already past testNow
		order, err := svc.Create(context.Background(), input)
		require.NoError(t, err)

		fetched, err := svc.Get(context.Background(), order.ID)
		require.NoError(t, err)
		assert.True(t, fetched.IsOverdue)

		delivered := string(model.StatusDeliveredFullyPaid)
		updated, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{Status: &delivered})
		require.NoError(t, err)
		assert.False(t, updated.IsOverdue)
		assert.Equal(t, model.StatusDeliveredFullyPaid, orders.orders[order.ID].Status)
	})
}

func TestOrderService_Delete(t *testing.T) {
	svc, orders, _ := newTestOrderService()
	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	t.Run("unknown id maps to not found and leaves state intact", func(t *testing.T) {
		err := svc.Delete(context.Background(), 999)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, orders.orders, 1)
	})

	t.Run("removes the order", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), created.ID))
		assert.Empty(t, orders.orders)
	})
}

func TestOrderService_List(t *testing.T) {
	svc, _, _ := newTestOrderService()
	for _, date := range []string{
		"01/03/2024 10:00 AM",
		"01/01/2024 10:00 AM",
		"01/02/2024 10:00 AM",
	} {
		input := validCreateInput()
		input.ExpectedDeliveryDate = date
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	}

	t.Run("sorts by delivery date by default", func(t *testing.T) {
		result, err := svc.List(context.Background(), ListOrdersInput{})
		require.NoError(t, err)
		require.Len(t, result.Orders, 3)
		assert.Equal(t, uint(2), result.Orders[0].ID)
		assert.Equal(t, uint(3), result.Orders[1].ID)
		assert.Equal(t, uint(1), result.Orders[2].ID)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		_, err := svc.List(context.Background(), ListOrdersInput{Status: "shipped"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("overdue filter selects past-deadline orders", func(t *testing.T) {
		result, err := svc.List(context.Background(), ListOrdersInput{Status: string(query.FilterOverdueOnly)})
		require.NoError(t, err)
		assert.Len(t, result.Orders, 3) // all three deadlines precede testNow
	})
}

func TestOrderService_Priority(t *testing.T) {
	svc, _, _ := newTestOrderService()
	for _, date := range []string{"01/03/2024 10:00 AM", "01/01/2024 10:00 AM"} {
		input := validCreateInput()
		input.ExpectedDeliveryDate = date
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	}

	t.Run("ascending by default", func(t *testing.T) {
		orders, err := svc.Priority(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, uint(2), orders[0].ID)
	})

	t.Run("descending on request", func(t *testing.T) {
		orders, err := svc.Priority(context.Background(), "desc")
		require.NoError(t, err)
		assert.Equal(t, uint(1), orders[0].ID)
	})

	t.Run("rejects unknown sort order", func(t *testing.T) {
		_, err := svc.Priority(context.Background(), "sideways")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestOrderService_Filter(t *testing.T) {
	svc, _, _ := newTestOrderService()

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, err := svc.Filter(context.Background(), FilterOrdersInput{DeliveryDate: "not-a-date"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := svc.Filter(context.Background(), FilterOrdersInput{
			WindowStart: "2024-02-01",
			WindowEnd:   "2024-01-01",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestParseSubmissionDate(t *testing.T) {
	t.Run("storefront locale format", func(t *testing.T) {
		parsed, err := ParseSubmissionDate("24/12/2024 05:30 PM")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 24, 17, 30, 0, 0, time.UTC), parsed)
	})

	t.Run("iso fallback", func(t *testing.T) {
		parsed, err := ParseSubmissionDate("2024-12-24")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParseSubmissionDate("soon")
		assert.Error(t, err)
	})
}
