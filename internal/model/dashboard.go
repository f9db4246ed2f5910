package model

type DashboardSummary struct {
	TotalWorkOrders   int64 `json:"total_work_orders"`
	ActiveWorkOrders  int64 `json:"active_work_orders"`
	OverdueWorkOrders int64 `json:"overdue_work_orders"`
	OrdersDueIn1Day   int64 `json:"orders_due_in_1_day"`
}
