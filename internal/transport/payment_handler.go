package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"foodhub-be/internal/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.Service
}

func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/initiate", h.initiate)
	rg.GET("/complete", h.complete)
	rg.POST("/complete", h.complete)
	rg.POST("/delivery-check", h.deliveryCheck)
	rg.GET("/all", h.listAll)
}

func (h *PaymentHandler) initiate(c *gin.Context) {
	var in payment.InitiateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid initiate payload")
		return
	}
	if len(in.GatewayPayload) == 0 {
		fail(c, http.StatusBadRequest, "gatewayPayload is required")
		return
	}

	resp, err := h.service.Initiate(c.Request.Context(), in)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	// Forward the provider's body untouched, payment_url included.
	c.Data(http.StatusOK, "application/json", resp.Raw)
}

// complete handles the gateway redirect. The gateway calls back with GET
// query params; the storefront may also re-submit them as POST.
func (h *PaymentHandler) complete(c *gin.Context) {
	pidx := c.Query("pidx")
	txnID := c.Query("transaction_id")
	if txnID == "" {
		txnID = c.Query("txnId")
	}
	amountStr := c.Query("amount")

	if pidx == "" || txnID == "" || amountStr == "" {
		fail(c, http.StatusBadRequest, "pidx, transaction id and amount are required")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "amount must be numeric")
		return
	}

	rawQuery, _ := json.Marshal(c.Request.URL.Query())

	record, err := h.service.Complete(c.Request.Context(), payment.CompleteParams{
		Pidx:              pidx,
		TransactionID:     txnID,
		Amount:            amount,
		PurchaseOrderID:   c.Query("purchase_order_id"),
		PurchaseOrderName: c.Query("purchase_order_name"),
		RawQuery:          rawQuery,
	})
	if err != nil {
		var verr *payment.VerificationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":      false,
				"message":      verr.Error(),
				"verification": json.RawMessage(verr.Payload),
			})
			return
		}
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": record})
}

func (h *PaymentHandler) deliveryCheck(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		fail(c, http.StatusBadRequest, "request body is required")
		return
	}

	var in payment.ManualOrderInput
	if err := json.Unmarshal(body, &in); err != nil {
		fail(c, http.StatusBadRequest, "invalid delivery order payload")
		return
	}

	record, err := h.service.RecordManualOrder(c.Request.Context(), in)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "payment": record})
}

func (h *PaymentHandler) listAll(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*payment.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}
