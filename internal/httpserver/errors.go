package httpserver

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/service/admin"
	"storefront/internal/service/cart"
	"storefront/internal/service/checkout"
	"storefront/internal/service/product"
	"storefront/internal/service/wishlist"
	"storefront/internal/storage"
	"storefront/internal/validate"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto status codes. The error is attached to
// the gin context so the request log carries it.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *validate.Error
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrPartialOrder):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, storage.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrInvalidCredentials), errors.Is(err, admin.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, cart.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, cart.ErrMaxStockReached),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, wishlist.ErrStockUnavailable),
		errors.Is(err, checkout.ErrOutOfStock),
		errors.Is(err, checkout.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, product.ErrUploadsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
