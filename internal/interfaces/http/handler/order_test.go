package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipping = map[string]string{"shipping_address": "1 Vinyl Street"}

func TestOrderHandler_Checkout(t *testing.T) {
	s := newTestStack(t)
	_, token := s.seedUser(t, "buyer@example.com")
	a := s.seedProduct(t, "Kind of Blue", "10.00", 5)
	b := s.seedProduct(t, "Blue Train", "5.00", 5)

	w := withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", token, shipping), http.StatusUnprocessableEntity)
	assert.Equal(t, "EMPTY_CART", errorCode(t, w))

	w = withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", token, map[string]string{}), http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	withStatus(t, s.do(t, http.MethodPut, "/api/v1/cart/"+a.ID.String(), token, map[string]int{"quantity": 2}), http.StatusOK)
	withStatus(t, s.do(t, http.MethodPut, "/api/v1/cart/"+b.ID.String(), token, map[string]int{"quantity": 1}), http.StatusOK)

	w = withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", token, shipping), http.StatusCreated)
	placed := decodeData[order.OrderResponse](t, w)
	assert.Equal(t, "PROCESSING", placed.Status)
	assert.Equal(t, "25.00", placed.Total.StringFixed(2))
	assert.Equal(t, 3, placed.ItemCount)
	assert.Len(t, placed.Items, 2)

	w = withStatus(t, s.do(t, http.MethodGet, "/api/v1/products/"+a.ID.String(), "", nil), http.StatusOK)
	assert.Equal(t, 3, decodeData[catalog.ProductDetailResponse](t, w).Stock)

	w = withStatus(t, s.do(t, http.MethodGet, "/api/v1/cart", token, nil), http.StatusOK)
	assert.Contains(t, w.Body.String(), `"item_count":0`)

	w = withStatus(t, s.do(t, http.MethodGet, "/api/v1/orders/my-orders", token, nil), http.StatusOK)
	mine := decodeData[[]order.OrderResponse](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, placed.ID, mine[0].ID)
}

func TestOrderHandler_InsufficientStock(t *testing.T) {
	s := newTestStack(t)
	_, buyer := s.seedUser(t, "first@example.com")
	_, rival := s.seedUser(t, "second@example.com")
	p := s.seedProduct(t, "Last Copy", "30.00", 1)

	withStatus(t, s.do(t, http.MethodPut, "/api/v1/cart/"+p.ID.String(), buyer, map[string]int{"quantity": 1}), http.StatusOK)
	withStatus(t, s.do(t, http.MethodPut, "/api/v1/cart/"+p.ID.String(), rival, map[string]int{"quantity": 1}), http.StatusOK)

	withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", buyer, shipping), http.StatusCreated)

	w := withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", rival, shipping), http.StatusUnprocessableEntity)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	w = withStatus(t, s.do(t, http.MethodGet, "/api/v1/cart", rival, nil), http.StatusOK)
	assert.Contains(t, w.Body.String(), `"item_count":1`, "a failed checkout keeps the cart")
}

func TestOrderHandler_CancelAndReturn(t *testing.T) {
	s := newTestStack(t)
	_, token := s.seedUser(t, "buyer@example.com")
	_, stranger := s.seedUser(t, "stranger@example.com")
	p := s.seedProduct(t, "Round Midnight", "12.00", 2)

	withStatus(t, s.do(t, http.MethodPut, "/api/v1/cart/"+p.ID.String(), token, map[string]int{"quantity": 2}), http.StatusOK)
	w := withStatus(t, s.do(t, http.MethodPost, "/api/v1/orders", token, shipping), http.StatusCreated)
	placed := decodeData[order.OrderResponse](t, w)
	orderPath := "/api/v1/orders/" + placed.ID.String()

	withStatus(t, s.do(t, http.MethodGet, orderPath, token, nil), http.StatusOK)
	withStatus(t, s.do(t, http.MethodGet, orderPath, stranger, nil), http.StatusNotFound)
	withStatus(t, s.do(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), token, nil), http.StatusNotFound)

	w = withStatus(t, s.do(t, http.MethodPut, orderPath+"/return", token, nil), http.StatusUnprocessableEntity)
	assert.Equal(t, "RETURN_NOT_ALLOWED", errorCode(t, w))

	withStatus(t, s.do(t, http.MethodPut, orderPath+"/cancel", stranger, nil), http.StatusNotFound)

	w = withStatus(t, s.do(t, http.MethodPut, orderPath+"/cancel", token, nil), http.StatusOK)
	cancelled := decodeData[order.OrderResponse](t, w)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.NotNil(t, cancelled.ActionAt)

	w = withStatus(t, s.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), "", nil), http.StatusOK)
	assert.Equal(t, 2, decodeData[catalog.ProductDetailResponse](t, w).Stock)

	w = withStatus(t, s.do(t, http.MethodPut, orderPath+"/cancel", token, nil), http.StatusUnprocessableEntity)
	assert.Equal(t, "NOT_CANCELLABLE", errorCode(t, w))
}
