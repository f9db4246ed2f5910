package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/madina/boutique-orders/internal/model"
	"github.com/madina/boutique-orders/internal/query"
)

// SubmissionDateLayout is the storefront's date picker wire format,
// e.g. "24/12/2024 05:30 PM".
const SubmissionDateLayout = "02/01/2006 03:04 PM"

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

type ExcelGenerator interface {
	Generate(orders []model.WorkOrder, generatedAt time.Time) ([]byte, error)
}

type InvoiceGenerator interface {
	Generate(order model.WorkOrder) ([]byte, error)
}

type OrderService struct {
	orders   OrderRepository
	clients  ClientRepository
	excel    ExcelGenerator
	invoices InvoiceGenerator
	now      func() time.Time
}

func NewOrderService(
	orders OrderRepository,
	clients ClientRepository,
	excel ExcelGenerator,
	invoices InvoiceGenerator,
) *OrderService {
	return &OrderService{
		orders:   orders,
		clients:  clients,
		excel:    excel,
		invoices: invoices,
		now:      time.Now,
	}
}

type ClientInput struct {
	Name         string
	MobileNumber string
	Email        *string
	Address      *string
}

type CreateOrderInput struct {
	Client               ClientInput
	ExpectedDeliveryDate string
	Description          *string
	AdvanceAmount        *float64
	EstimatedAmount      *float64
}

type UpdateOrderInput struct {
	Status               *string
	ExpectedDeliveryDate *string
	Description          *string
	AdvanceAmount        *float64
	EstimatedAmount      *float64
	ActualAmount         *float64
}

type ListOrdersInput struct {
	Search string
	Status string
	SortBy string
}

type FilterOrdersInput struct {
	DeliveryDate string
	WindowStart  string
	WindowEnd    string
	OverdueOnly  bool
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// Create validates a submission and stores the order with the default
// status. The client is matched by mobile number and created when
// unknown. Validation rules run in a fixed order and the first failure
// wins.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*model.WorkOrder, error) {
	if err := validateClientInput(input.Client); err != nil {
		return nil, err
	}
	deliveryAt, err := ParseSubmissionDate(input.ExpectedDeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery date required", ErrInvalidInput)
	}
	if err := validateAmounts(input.AdvanceAmount, input.EstimatedAmount, nil); err != nil {
		return nil, err
	}

	client, err := s.resolveClient(ctx, input.Client)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := model.WorkOrder{
		ClientID:             client.ID,
		OrderDate:            &now,
		ExpectedDeliveryDate: deliveryAt,
		Status:               model.StatusOrderPlaced,
		Description:          input.Description,
		AdvanceAmount:        input.AdvanceAmount,
		EstimatedAmount:      input.EstimatedAmount,
		DueAmount:            deriveDueAmount(input.EstimatedAmount, nil, input.AdvanceAmount),
	}

	saved, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	saved.Client = client
	s.enrich(saved)
	return saved, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*model.WorkOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: work order %d", ErrNotFound, id)
		}
		return nil, err
	}
	s.enrich(order)
	return order, nil
}

// List runs the back-office list pipeline: fetch everything, derive
// overdue flags and apply search/status/sort in memory. Bad records are
// reported alongside the result, never fatal.
func (s *OrderService) List(ctx context.Context, input ListOrdersInput) (*query.Result, error) {
	status, err := query.ParseStatusFilter(input.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	sortBy, err := query.ParseSortKey(input.SortBy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	result := query.Apply(orders, query.Query{
		Search: input.Search,
		Status: status,
		SortBy: sortBy,
	}, s.now())
	return &result, nil
}

func (s *OrderService) Update(ctx context.Context, id uint, input UpdateOrderInput) (*model.WorkOrder, error) {
	existing, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: work order %d", ErrNotFound, id)
		}
		return nil, err
	}

	patch := model.WorkOrderPatch{
		Description:     input.Description,
		AdvanceAmount:   input.AdvanceAmount,
		EstimatedAmount: input.EstimatedAmount,
		ActualAmount:    input.ActualAmount,
	}
	if input.Status != nil {
		status, err := model.ParseStatus(*input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.Status = &status
	}
	if input.ExpectedDeliveryDate != nil {
		deliveryAt, err := ParseSubmissionDate(*input.ExpectedDeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid delivery date", ErrInvalidInput)
		}
		patch.ExpectedDeliveryDate = &deliveryAt
	}
	if err := validateAmounts(input.AdvanceAmount, input.EstimatedAmount, input.ActualAmount); err != nil {
		return nil, err
	}

	patch.DueAmount = deriveDueAmount(
		coalesce(input.EstimatedAmount, existing.EstimatedAmount),
		coalesce(input.ActualAmount, existing.ActualAmount),
		coalesce(input.AdvanceAmount, existing.AdvanceAmount),
	)

	updated, err := s.orders.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: work order %d", ErrNotFound, id)
		}
		return nil, err
	}
	s.enrich(updated)
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: work order %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// Priority returns orders ordered by delivery deadline on the
// repository side.
func (s *OrderService) Priority(ctx context.Context, sortOrder string) ([]model.WorkOrder, error) {
	ascending := true
	switch strings.ToLower(strings.TrimSpace(sortOrder)) {
	case "", "asc":
	case "desc":
		ascending = false
	default:
		return nil, fmt.Errorf("%w: sort_order must be asc or desc", ErrInvalidInput)
	}

	orders, err := s.orders.ListByDeliveryDate(ctx, ascending)
	if err != nil {
		return nil, err
	}
	s.enrichAll(orders)
	return orders, nil
}

// Filter delegates delivery date and overdue filtering to the
// repository.
func (s *OrderService) Filter(ctx context.Context, input FilterOrdersInput) ([]model.WorkOrder, error) {
	deliveryDate, err := parseOptionalDate(input.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid delivery_date", ErrInvalidInput)
	}
	windowStart, err := parseOptionalDate(input.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid delivery_window_start", ErrInvalidInput)
	}
	windowEnd, err := parseOptionalDate(input.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid delivery_window_end", ErrInvalidInput)
	}
	if windowStart != nil && windowEnd != nil && windowStart.After(*windowEnd) {
		return nil, fmt.Errorf("%w: delivery window start is after its end", ErrInvalidInput)
	}

	orders, err := s.orders.Filter(ctx, deliveryDate, windowStart, windowEnd, input.OverdueOnly, s.now())
	if err != nil {
		return nil, err
	}
	s.enrichAll(orders)
	return orders, nil
}

// Export renders the filtered order book as a spreadsheet.
func (s *OrderService) Export(ctx context.Context, input ListOrdersInput) (*ExportResult, error) {
	result, err := s.List(ctx, input)
	if err != nil {
		return nil, err
	}
	now := s.now()
	content, err := s.excel.Generate(result.Orders, now)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("work-orders-%s.xlsx", now.Format("20060102-150405")),
		Content:  content,
	}, nil
}

// Invoice renders a single order as a PDF invoice.
func (s *OrderService) Invoice(ctx context.Context, id uint) (*ExportResult, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.invoices.Generate(*order)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("invoice-order-%d.pdf", id),
		Content:  content,
	}, nil
}

func (s *OrderService) resolveClient(ctx context.Context, input ClientInput) (*model.Client, error) {
	client, err := s.clients.GetByMobile(ctx, input.MobileNumber)
	if err == nil {
		return client, nil
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

func (s *OrderService) enrich(order *model.WorkOrder) {
	if overdue, err := query.Overdue(*order, s.now()); err == nil {
		order.IsOverdue = overdue
	}
}

func (s *OrderService) enrichAll(orders []model.WorkOrder) {
	now := s.now()
	for i := range orders {
		if overdue, err := query.Overdue(orders[i], now); err == nil {
			orders[i].IsOverdue = overdue
		}
	}
}

func validateClientInput(input ClientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !mobilePattern.MatchString(input.MobileNumber) {
		return fmt.Errorf("%w: invalid mobile number", ErrInvalidInput)
	}
	return nil
}

func validateAmounts(amounts ...*float64) error {
	for _, amount := range amounts {
		if amount != nil && *amount < 0 {
			return fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)
		}
	}
	return nil
}

// deriveDueAmount computes the outstanding balance: the actual amount
// when known, otherwise the estimate, minus the advance, floored at
// zero. Nil when no base amount is known.
func deriveDueAmount(estimated, actual, advance *float64) *float64 {
	base := actual
	if base == nil {
		base = estimated
	}
	if base == nil {
		return nil
	}
	due := *base
	if advance != nil {
		due -= *advance
	}
	if due < 0 {
		due = 0
	}
	return &due
}

func coalesce(override, current *float64) *float64 {
	if override != nil {
		return override
	}
	return current
}

// ParseSubmissionDate accepts the storefront's locale format first and
// falls back to common ISO layouts.
func ParseSubmissionDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	layouts := []string{
		SubmissionDateLayout,
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := ParseSubmissionDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
