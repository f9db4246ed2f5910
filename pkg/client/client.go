// Package client is a thin REST client for the boutique orders service,
// one method per endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

// ErrNotFound is satisfied by API errors with a 404 status.
var ErrNotFound = errors.New("not found")

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// SubmissionDateLayout is the wire format the service expects for
// submitted delivery dates, e.g. "24/12/2024 05:30 PM".
const SubmissionDateLayout = "02/01/2006 03:04 PM"

func FormatSubmissionDate(t time.Time) string {
	return t.Format(SubmissionDateLayout)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ClientPayload struct {
	Name         string  `json:"name"`
	MobileNumber string  `json:"mobile_number"`
	Email        *string `json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
}

type CreateWorkOrderRequest struct {
	Client               ClientPayload
	ExpectedDeliveryDate time.Time
	Description          *string
	AdvanceAmount        *float64
	EstimatedAmount      *float64
}

func (r CreateWorkOrderRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Client               ClientPayload `json:"client"`
		ExpectedDeliveryDate string        `json:"expected_delivery_date"`
		Description          *string       `json:"description,omitempty"`
		AdvanceAmount        *float64      `json:"advance_amount,omitempty"`
		EstimatedAmount      *float64      `json:"estimated_amount,omitempty"`
	}{
		Client:               r.Client,
		ExpectedDeliveryDate: FormatSubmissionDate(r.ExpectedDeliveryDate),
		Description:          r.Description,
		AdvanceAmount:        r.AdvanceAmount,
		EstimatedAmount:      r.EstimatedAmount,
	})
}

func (c *Client) CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := c.do(ctx, http.MethodPost, "/work-orders/", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListWorkOrders(ctx context.Context) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	if err := c.do(ctx, http.MethodGet, "/work-orders/", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetWorkOrder(ctx context.Context, id uint) (*model.WorkOrder, error) {
	var order model.WorkOrder
	path := "/work-orders/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateWorkOrder(ctx context.Context, id uint, update *WorkOrderUpdate) (*model.WorkOrder, error) {
	var order model.WorkOrder
	path := "/work-orders/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodPut, path, nil, update, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) DeleteWorkOrder(ctx context.Context, id uint) error {
	path := "/work-orders/" + strconv.FormatUint(uint64(id), 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) PriorityOrders(ctx context.Context, sortOrder string) ([]model.WorkOrder, error) {
	query := url.Values{}
	if sortOrder != "" {
		query.Set("sort_order", sortOrder)
	}
	var orders []model.WorkOrder
	if err := c.do(ctx, http.MethodGet, "/work-orders/priority", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type FilterParams struct {
	DeliveryDate *time.Time
	WindowStart  *time.Time
	WindowEnd    *time.Time
	OverdueOnly  bool
}

func (c *Client) FilterOrders(ctx context.Context, params FilterParams) ([]model.WorkOrder, error) {
	query := url.Values{}
	if params.DeliveryDate != nil {
		query.Set("delivery_date", params.DeliveryDate.Format("2006-01-02"))
	}
	if params.WindowStart != nil {
		query.Set("delivery_window_start", params.WindowStart.Format("2006-01-02"))
	}
	if params.WindowEnd != nil {
		query.Set("delivery_window_end", params.WindowEnd.Format("2006-01-02"))
	}
	if params.OverdueOnly {
		query.Set("overdue_only", "true")
	}
	var orders []model.WorkOrder
	if err := c.do(ctx, http.MethodGet, "/work-orders/filter", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateClient(ctx context.Context, payload ClientPayload) (*model.Client, error) {
	var created model.Client
	if err := c.do(ctx, http.MethodPost, "/clients/", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := c.do(ctx, http.MethodGet, "/clients/", nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) ClientSummary(ctx context.Context, id uint) (*model.ClientSummary, error) {
	var summary model.ClientSummary
	path := "/clients/summary/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) ClientSummaryByMobile(ctx context.Context, mobile string) (*model.ClientSummary, error) {
	var summary model.ClientSummary
	if err := c.do(ctx, http.MethodGet, "/clients/summary/mobile/"+url.PathEscape(mobile), nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body interface{},
	out interface{},
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
