// Package query filters and orders in-memory work order collections the
// way the back-office list screen presents them: free-text search, status
// filtering and stable multi-key sorting over enriched orders.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

// ErrBadRecord marks a work order whose stored fields cannot support the
// requested derivation, e.g. a missing delivery timestamp.
var ErrBadRecord = errors.New("bad record")

// Overdue derives the overdue flag for a single order. Delivered orders
// are never overdue regardless of date; for the rest the delivery
// deadline must be strictly in the past. A zero delivery timestamp is a
// bad record and is reported rather than coerced.
func Overdue(o model.WorkOrder, now time.Time) (bool, error) {
	if o.ExpectedDeliveryDate.IsZero() {
		return false, fmt.Errorf("%w: order %d has no delivery date", ErrBadRecord, o.ID)
	}
	if o.Status.Delivered() {
		return false, nil
	}
	return o.ExpectedDeliveryDate.Before(now), nil
}

type StatusFilter string

const (
	FilterAll         StatusFilter = "all"
	FilterOverdueOnly StatusFilter = "overdue"
)

// ParseStatusFilter accepts "all", "overdue" or one of the status
// labels. An empty string means no filtering.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FilterAll):
		return FilterAll, nil
	case string(FilterOverdueOnly):
		return FilterOverdueOnly, nil
	}
	status, err := model.ParseStatus(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return StatusFilter(status), nil
}

type SortKey string

const (
	SortDeliveryDate SortKey = "delivery_date"
	SortOrderDate    SortKey = "order_date"
	SortStatus       SortKey = "status"
	SortClientName   SortKey = "client"
)

// ParseSortKey defaults an empty string to delivery date, matching the
// list screen's initial state.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortDeliveryDate:
		return SortDeliveryDate, nil
	case SortOrderDate:
		return SortOrderDate, nil
	case SortStatus:
		return SortStatus, nil
	case SortClientName:
		return SortClientName, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

type Query struct {
	Search string
	Status StatusFilter
	SortBy SortKey
}

// BadRecord reports one order excluded from a derivation.
type BadRecord struct {
	ID  uint
	Err error
}

type Result struct {
	Orders []model.WorkOrder
	Bad    []BadRecord
}

// Apply enriches, filters and sorts a snapshot of orders. The input
// slice is not modified. Search and status filtering are independent
// predicates, so their order of application cannot change the result
// set. Sorting is stable: ties keep the repository-returned order.
// Orders with a bad delivery timestamp never abort the batch; they are
// reported in Result.Bad, excluded by the overdue-only filter and placed
// last under the delivery date sort.
func Apply(orders []model.WorkOrder, q Query, now time.Time) Result {
	if q.Status == "" {
		q.Status = FilterAll
	}
	if q.SortBy == "" {
		q.SortBy = SortDeliveryDate
	}

	result := Result{Orders: make([]model.WorkOrder, 0, len(orders))}
	bad := make(map[uint]bool, len(orders))

	for _, o := range orders {
		overdue, err := Overdue(o, now)
		if err != nil {
			result.Bad = append(result.Bad, BadRecord{ID: o.ID, Err: err})
			bad[o.ID] = true
			o.IsOverdue = false
		} else {
			o.IsOverdue = overdue
		}

		if !matchesSearch(o, q.Search) {
			continue
		}
		if !matchesStatus(o, q.Status, bad[o.ID]) {
			continue
		}
		result.Orders = append(result.Orders, o)
	}

	sortOrders(result.Orders, q.SortBy, bad)
	return result
}

func matchesSearch(o model.WorkOrder, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.ClientName()), term) {
		return true
	}
	if strings.Contains(o.ClientMobile(), term) {
		return true
	}
	return strings.Contains(strconv.FormatUint(uint64(o.ID), 10), term)
}

func matchesStatus(o model.WorkOrder, filter StatusFilter, isBad bool) bool {
	switch filter {
	case FilterAll:
		return true
	case FilterOverdueOnly:
		return !isBad && o.IsOverdue
	default:
		return o.Status == model.OrderStatus(filter)
	}
}

func sortOrders(orders []model.WorkOrder, key SortKey, bad map[uint]bool) {
	switch key {
	case SortDeliveryDate:
		sort.SliceStable(orders, func(i, j int) bool {
			// Unparseable delivery dates sort last.
			if bad[orders[i].ID] != bad[orders[j].ID] {
				return !bad[orders[i].ID]
			}
			return orders[i].ExpectedDeliveryDate.Before(orders[j].ExpectedDeliveryDate)
		})
	case SortOrderDate:
		sort.SliceStable(orders, func(i, j int) bool {
			return orderDate(orders[j]).Before(orderDate(orders[i]))
		})
	case SortStatus:
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Status < orders[j].Status
		})
	case SortClientName:
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].ClientName() < orders[j].ClientName()
		})
	}
}

// orderDate treats a missing order date as the earliest possible value,
// so it ends up last under the descending order date sort.
func orderDate(o model.WorkOrder) time.Time {
	if o.OrderDate == nil {
		return time.Time{}
	}
	return *o.OrderDate
}
