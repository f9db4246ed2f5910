package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/madina/boutique-orders/internal/service"
)

type Handler struct {
	orders    *service.OrderService
	clients   *service.ClientService
	dashboard *service.DashboardService
	log       zerolog.Logger
}

func NewHandler(
	orders *service.OrderService,
	clients *service.ClientService,
	dashboard *service.DashboardService,
	log zerolog.Logger,
) *Handler {
	return &Handler{orders: orders, clients: clients, dashboard: dashboard, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	workOrders := router.Group("/work-orders")
	workOrders.POST("/", h.createWorkOrder)
	workOrders.GET("/", h.listWorkOrders)
	workOrders.GET("/priority", h.priorityWorkOrders)
	workOrders.GET("/filter", h.filterWorkOrders)
	workOrders.GET("/export", h.exportWorkOrders)
	workOrders.GET("/:id", h.getWorkOrder)
	workOrders.GET("/:id/invoice", h.workOrderInvoice)
	workOrders.PUT("/:id", h.updateWorkOrder)
	workOrders.DELETE("/:id", h.deleteWorkOrder)

	clients := router.Group("/clients")
	clients.POST("/", h.createClient)
	clients.GET("/", h.listClients)
	clients.GET("/summary/:id", h.clientSummary)
	clients.GET("/summary/mobile/:mobile", h.clientSummaryByMobile)

	router.GET("/dashboard/summary", h.dashboardSummary)
}

type clientPayload struct {
	Name         string  `json:"name"`
	MobileNumber string  `json:"mobile_number"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
}

func (p clientPayload) toInput() service.ClientInput {
	return service.ClientInput{
		Name:         p.Name,
		MobileNumber: p.MobileNumber,
		Email:        p.Email,
		Address:      p.Address,
	}
}

type createWorkOrderRequest struct {
	Client               clientPayload `json:"client"`
	ExpectedDeliveryDate string        `json:"expected_delivery_date"`
	Description          *string       `json:"description"`
	AdvanceAmount        *float64      `json:"advance_amount"`
	EstimatedAmount      *float64      `json:"estimated_amount"`
}

func (h *Handler) createWorkOrder(c *gin.Context) {
	var req createWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), service.CreateOrderInput{
		Client:               req.Client.toInput(),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Description:          req.Description,
		AdvanceAmount:        req.AdvanceAmount,
		EstimatedAmount:      req.EstimatedAmount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

type listWorkOrdersQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
	SortBy string `form:"sort_by"`
}

func (h *Handler) listWorkOrders(c *gin.Context) {
	var q listWorkOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orders.List(c.Request.Context(), service.ListOrdersInput{
		Search: q.Search,
		Status: q.Status,
		SortBy: q.SortBy,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	if len(result.Bad) > 0 {
		h.log.Warn().Int("bad_records", len(result.Bad)).Msg("orders excluded from overdue derivation")
	}
	c.JSON(http.StatusOK, result.Orders)
}

func (h *Handler) getWorkOrder(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateWorkOrderRequest struct {
	Status               *string  `json:"status"`
	ExpectedDeliveryDate *string  `json:"expected_delivery_date"`
	Description          *string  `json:"description"`
	AdvanceAmount        *float64 `json:"advance_amount"`
	EstimatedAmount      *float64 `json:"estimated_amount"`
	ActualAmount         *float64 `json:"actual_amount"`
}

func (h *Handler) updateWorkOrder(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.Update(c.Request.Context(), id, service.UpdateOrderInput{
		Status:               req.Status,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Description:          req.Description,
		AdvanceAmount:        req.AdvanceAmount,
		EstimatedAmount:      req.EstimatedAmount,
		ActualAmount:         req.ActualAmount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteWorkOrder(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) priorityWorkOrders(c *gin.Context) {
	orders, err := h.orders.Priority(c.Request.Context(), c.Query("sort_order"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type filterWorkOrdersQuery struct {
	DeliveryDate string `form:"delivery_date"`
	WindowStart  string `form:"delivery_window_start"`
	WindowEnd    string `form:"delivery_window_end"`
	OverdueOnly  bool   `form:"overdue_only"`
}

func (h *Handler) filterWorkOrders(c *gin.Context) {
	var q filterWorkOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orders.Filter(c.Request.Context(), service.FilterOrdersInput{
		DeliveryDate: q.DeliveryDate,
		WindowStart:  q.WindowStart,
		WindowEnd:    q.WindowEnd,
		OverdueOnly:  q.OverdueOnly,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) exportWorkOrders(c *gin.Context) {
	var q listWorkOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orders.Export(c.Request.Context(), service.ListOrdersInput{
		Search: q.Search,
		Status: q.Status,
		SortBy: q.SortBy,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) workOrderInvoice(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.orders.Invoice(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) createClient(c *gin.Context) {
	var req clientPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.clients.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) clientSummary(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	summary, err := h.clients.Summary(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) clientSummaryByMobile(c *gin.Context) {
	summary, err := h.clients.SummaryByMobile(c.Request.Context(), c.Param("mobile"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
