package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/favorite"
)

// FavoriteHandler manages the signed-in user's favorite products
type FavoriteHandler struct {
	BaseHandler
	favoriteService *favorite.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *favorite.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// List godoc
// @ID           listFavorites
// @Summary      List favorite products
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	products, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Add godoc
// @ID           addFavorite
// @Summary      Add a product to favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      201 {object} APIResponse[MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /favorites/{product_id} [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, MessageResponse{Message: "Added to favorites"})
}

// Remove godoc
// @ID           removeFavorite
// @Summary      Remove a product from favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /favorites/{product_id} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Removed from favorites"})
}
