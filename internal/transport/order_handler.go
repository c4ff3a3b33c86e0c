package transport

import (
	"net/http"

	"foodhub-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseOrderID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

type OrderHandler struct {
	service order.Service
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/place", h.place)
	rg.GET("/user/:userId", h.listByUser)
	rg.GET("/all", h.listAll)
	rg.POST("/status", h.updateStatus)
	rg.GET("/:id", h.get)
}

func (h *OrderHandler) place(c *gin.Context) {
	var in order.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid order payload")
		return
	}

	o, err := h.service.Place(c.Request.Context(), in)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": o})
}

func (h *OrderHandler) get(c *gin.Context) {
	id, err := parseOrderID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": o})
}

func (h *OrderHandler) listByUser(c *gin.Context) {
	orders, err := h.service.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

func (h *OrderHandler) listAll(c *gin.Context) {
	orders, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

type updateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (h *OrderHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "orderId and status are required")
		return
	}

	id, err := parseOrderID(req.OrderID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated"})
}
