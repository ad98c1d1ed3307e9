package httpserver

import (
	"net/http"

	"storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

func checkoutQuoteHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := svc.Preview(c.Request.Context(), sessionID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

func checkoutHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid json body")
			return
		}
		conf, err := svc.Submit(c.Request.Context(), sessionID(c), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, conf)
	}
}

// confirmationHandler hands out the last confirmation once; later calls get
// the placeholder.
func confirmationHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.TakeConfirmation(sessionID(c)))
	}
}
