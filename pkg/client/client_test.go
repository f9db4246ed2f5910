package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madina/boutique-orders/internal/model"
	"github.com/madina/boutique-orders/pkg/client"
)

func TestCreateWorkOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.WorkOrder{ID: 7, Status: model.StatusOrderPlaced})
	}))
	defer server.Close()

	c := client.New(server.URL)
	order, err := c.CreateWorkOrder(context.Background(), client.CreateWorkOrderRequest{
		Client: client.ClientPayload{
			Name:         "Aizhan",
			MobileNumber: "1234567890",
		},
		ExpectedDeliveryDate: time.Date(2024, 12, 24, 17, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "/work-orders/", gotPath)
	assert.Equal(t, uint(7), order.ID)
	// The service expects the storefront's locale date format.
	assert.Equal(t, "24/12/2024 05:30 PM", gotBody["expected_delivery_date"])
}

func TestGetWorkOrder_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found: work order 42"})
	}))
	defer server.Close()

	c := client.New(server.URL)
	_, err := c.GetWorkOrder(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrNotFound)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "work order 42")
}

func TestDeleteWorkOrder(t *testing.T) {
	t.Run("success has no body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/work-orders/3", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		require.NoError(t, client.New(server.URL).DeleteWorkOrder(context.Background(), 3))
	})

	t.Run("server error is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := client.New(server.URL).DeleteWorkOrder(context.Background(), 3)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.NotErrorIs(t, err, client.ErrNotFound)
	})
}

func TestFilterOrders_QueryEncoding(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]model.WorkOrder{})
	}))
	defer server.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err := client.New(server.URL).FilterOrders(context.Background(), client.FilterParams{
		WindowStart: &start,
		WindowEnd:   &end,
		OverdueOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01"}, gotQuery["delivery_window_start"])
	assert.Equal(t, []string{"2024-01-31"}, gotQuery["delivery_window_end"])
	assert.Equal(t, []string{"true"}, gotQuery["overdue_only"])
}

func TestPriorityOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-orders/priority", r.URL.Path)
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))
		_ = json.NewEncoder(w).Encode([]model.WorkOrder{{ID: 1}, {ID: 2}})
	}))
	defer server.Close()

	orders, err := client.New(server.URL).PriorityOrders(context.Background(), "desc")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestClientSummaryByMobile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clients/summary/mobile/5551234567", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.ClientSummary{
			Client: model.Client{ID: 1, Name: "Aizhan", MobileNumber: "5551234567"},
		})
	}))
	defer server.Close()

	summary, err := client.New(server.URL).ClientSummaryByMobile(context.Background(), "5551234567")
	require.NoError(t, err)
	assert.Equal(t, "Aizhan", summary.Client.Name)
}

func TestWorkOrderUpdate_MarshalsOnlySetFields(t *testing.T) {
	update := client.NewWorkOrderUpdate().
		WithStatus(model.StatusDeliveredFullyPaid).
		WithActualAmount(180)

	raw, err := json.Marshal(update)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, string(model.StatusDeliveredFullyPaid), payload["status"])
	assert.Equal(t, 180.0, payload["actual_amount"])
	assert.NotContains(t, payload, "expected_delivery_date")
	assert.NotContains(t, payload, "advance_amount")
}

func TestWorkOrderUpdate_FormatsDeliveryDate(t *testing.T) {
	update := client.NewWorkOrderUpdate().
		WithDeliveryDate(time.Date(2025, 1, 2, 9, 15, 0, 0, time.UTC))

	raw, err := json.Marshal(update)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "02/01/2025 09:15 AM", payload["expected_delivery_date"])
}
