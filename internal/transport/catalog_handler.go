package transport

import (
	"net/http"
	"strconv"

	"foodhub-be/internal/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/add", h.add)
	rg.GET("/list", h.list)
	rg.POST("/remove", h.remove)
	rg.POST("/search", h.search)
}

type addFoodRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func (h *CatalogHandler) add(c *gin.Context) {
	var req addFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid food payload")
		return
	}

	food, err := h.service.Add(c.Request.Context(), &catalog.Food{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": food})
}

func (h *CatalogHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        result.Data,
		"totalCount":  result.TotalCount,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}

type removeFoodRequest struct {
	ID int64 `json:"id"`
}

func (h *CatalogHandler) remove(c *gin.Context) {
	var req removeFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "food id is required")
		return
	}

	if err := h.service.Remove(c.Request.Context(), req.ID); err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "food removed"})
}

type searchFoodRequest struct {
	Search string `json:"search"`
}

func (h *CatalogHandler) search(c *gin.Context) {
	var req searchFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "search term is required")
		return
	}

	foods, err := h.service.Search(c.Request.Context(), req.Search)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if foods == nil {
		foods = []*catalog.Food{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": foods})
}
