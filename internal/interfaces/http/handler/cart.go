package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/cart"
)

// CartHandler manages the signed-in user's cart
type CartHandler struct {
	BaseHandler
	cartService *cart.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @ID           getCart
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetQuantity godoc
// @ID           setCartQuantity
// @Summary      Set the quantity of a product in the cart
// @Description  Inserts or replaces the cart line; the quantity may not exceed stock
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body cart.SetQuantityRequest true "Quantity"
// @Success      200 {object} APIResponse[cart.CartItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/{product_id} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req cart.SetQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.cartService.SetQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Same upsert as PUT; quantity defaults to 1
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body cart.AddItemRequest false "Quantity"
// @Success      200 {object} APIResponse[cart.CartItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/{product_id} [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req cart.AddItemRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Removed from cart"})
}
