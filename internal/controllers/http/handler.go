package http

import (
	"net/http"

	"storefront-orders/internal/logger"
	"storefront-orders/internal/services"
	"storefront-orders/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *services.OrderService
}

func NewHandler(s *services.OrderService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:orderId", h.GetOrder)
	r.POST("/orders/:orderId/transitions", h.TransitionOrder)
	r.POST("/orders/:orderId/delivery", h.AttachDelivery)
	r.POST("/orders/:orderId/cancel", h.CancelOrder)
	r.POST("/orders/:orderId/recompute", h.RecomputeTotal)
	r.GET("/users/:userId/orders", h.ListUserOrders)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), validation.CreateInput{
		User:     req.User,
		Products: req.Products,
		Address:  req.Address,
		Payment:  req.Payment,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", "/orders/"+order.OrderID)
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	details, err := h.service.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) ListUserOrders(c *gin.Context) {
	orders, err := h.service.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) TransitionOrder(c *gin.Context) {
	var req TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.service.Transition(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AttachDelivery(c *gin.Context) {
	var req AttachDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.service.AttachDelivery(c.Request.Context(), c.Param("orderId"), req.DeliveryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.service.Cancel(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) RecomputeTotal(c *gin.Context) {
	order, err := h.service.RecomputeTotal(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.FromCtx(c.Request.Context()).Debug("malformed request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
