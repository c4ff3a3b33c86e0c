package transport

import (
	"errors"

	"foodhub-be/internal/catalog"
	"foodhub-be/internal/order"
	"foodhub-be/internal/payment"
	"foodhub-be/internal/report"

	"github.com/gin-gonic/gin"
)

// fail writes the storefront error shape.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failErr writes the bare `{error}` shape used by the report endpoints.
func failErr(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps domain sentinels to HTTP statuses. Anything unmapped is a
// server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrFoodNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, payment.ErrPaymentNotFound):
		return 404
	case errors.Is(err, catalog.ErrInvalidFood),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrMissingUser),
		errors.Is(err, order.ErrUnknownProduct),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, report.ErrInvalidSchedule),
		errors.Is(err, report.ErrUnknownProduct),
		errors.Is(err, payment.ErrPendingNotFound):
		return 400
	case errors.Is(err, payment.ErrDuplicatePayment):
		return 409
	default:
		return 500
	}
}
