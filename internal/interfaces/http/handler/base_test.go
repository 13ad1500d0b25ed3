package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(err error) *httptest.ResponseRecorder {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) { h.HandleError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestBaseHandler_HandleError(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.NewNotFoundError("Product"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped domain error", fmt.Errorf("checkout: %w", shared.ErrEmptyCart), http.StatusUnprocessableEntity, "EMPTY_CART"},
		{"field validation", shared.NewDomainError("INVALID_RATING", "bad rating"), http.StatusBadRequest, "INVALID_RATING"},
		{"insufficient stock", shared.NewInsufficientStockError(productID, "LP", 3, 1), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"unexpected error", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveError(tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	t.Run("internal details are not leaked", func(t *testing.T) {
		w := serveError(errors.New("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "password authentication")
	})

	t.Run("stock details are returned", func(t *testing.T) {
		w := serveError(shared.NewInsufficientStockError(productID, "LP", 3, 1))
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, productID.String(), env.Error.Details["product_id"])
	})
}

func TestBaseHandler_CurrentUserIDWithoutAuth(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if _, ok := h.CurrentUserID(c); ok {
			c.Status(http.StatusOK)
		}
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
