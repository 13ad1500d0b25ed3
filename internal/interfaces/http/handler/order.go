package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/order"
)

// OrderHandler exposes checkout and the order lifecycle
type OrderHandler struct {
	BaseHandler
	checkoutService *order.CheckoutService
	orderService    *order.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *order.CheckoutService, orderService *order.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Check out the cart
// @Description  Reserves stock for every cart line, creates the order and empties the cart in one transaction
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body order.PlaceOrderRequest true "Shipping address"
// @Success      201 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "EMPTY_CART or INSUFFICIENT_STOCK"
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req order.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      List your orders
// @Description  Newest first; due deliveries and returns are applied before listing
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]order.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /orders/my-orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get godoc
// @ID           getOrder
// @Summary      Get one of your orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel a processing order
// @Description  Restocks every line item in the same transaction
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "NOT_CANCELLABLE"
// @Router       /orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestReturn godoc
// @ID           requestOrderReturn
// @Summary      Request a return for a delivered order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "RETURN_NOT_ALLOWED"
// @Router       /orders/{id}/return [put]
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.RequestReturn(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
