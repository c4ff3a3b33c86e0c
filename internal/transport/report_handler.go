package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodhub-be/internal/report"
	"foodhub-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service report.Service
	now     func() time.Time
}

func NewReportHandler(service report.Service) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now}
}

func (h *ReportHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/total-sales", h.totalSales)
	rg.GET("/total-revenue", h.totalRevenue)
	rg.GET("/conversion-rate", h.conversionRate)
	rg.GET("/day-wise-report", h.periodWise(report.GranularityDay))
	rg.GET("/week-wise-report", h.periodWise(report.GranularityWeek))
	rg.GET("/month-wise-report", h.periodWise(report.GranularityMonth))
	rg.GET("/year-wise-report", h.periodWise(report.GranularityYear))
	rg.GET("/total-report", h.totalReport)
	rg.GET("/top-searched-products", h.topSearched)
	rg.GET("/yoy-growth", h.yoyGrowth)
	rg.GET("/mom-growth", h.momGrowth)
	rg.GET("/gross-profit-per-product", h.grossProfit)
	rg.GET("/margin-products", h.marginProducts)
	rg.GET("/product-sales-history", h.productHistory)
	rg.GET("/customer-sales-analysis", h.customerAnalysis)
	rg.POST("/schedule-report", h.scheduleReport)
}

// requireRange rejects a missing or malformed startDate/endDate pair before
// any aggregation runs.
func (h *ReportHandler) requireRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		failErr(c, http.StatusBadRequest, errors.New("startDate and endDate are required"))
		return time.Time{}, time.Time{}, false
	}

	start, end, err := utils.ParseDateRange(startStr, endStr)
	if err != nil {
		failErr(c, http.StatusBadRequest, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// optionalRange falls back to the given window when no range is supplied.
func (h *ReportHandler) optionalRange(c *gin.Context, defStart, defEnd time.Time) (time.Time, time.Time, bool) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" && endStr == "" {
		return defStart, defEnd, true
	}
	if startStr == "" || endStr == "" {
		failErr(c, http.StatusBadRequest, errors.New("startDate and endDate must be supplied together"))
		return time.Time{}, time.Time{}, false
	}

	start, end, err := utils.ParseDateRange(startStr, endStr)
	if err != nil {
		failErr(c, http.StatusBadRequest, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *ReportHandler) totalSales(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	total, err := h.service.TotalSales(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalSales": total})
}

func (h *ReportHandler) totalRevenue(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	total, err := h.service.TotalRevenue(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalRevenue": total})
}

func (h *ReportHandler) conversionRate(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	result, err := h.service.ConversionRate(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReportHandler) periodWise(granularity report.Granularity) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, ok := h.requireRange(c)
		if !ok {
			return
		}

		rows, err := h.service.PeriodWise(c.Request.Context(), granularity, start, end)
		if err != nil {
			failErr(c, statusFor(err), err)
			return
		}
		if rows == nil {
			rows = []*report.BucketRow{}
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (h *ReportHandler) totalReport(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	rows, err := h.service.TotalReport(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	if rows == nil {
		rows = []*report.ProductTotal{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) topSearched(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	rows, err := h.service.TopSearchedProducts(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) yoyGrowth(c *gin.Context) {
	now := h.now().UTC()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	start, end, ok := h.optionalRange(c, yearStart, now)
	if !ok {
		return
	}

	result, err := h.service.YoYGrowth(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"yoyGrowth": result.GrowthPercent,
		"current":   result.Current,
		"previous":  result.Previous,
	})
}

func (h *ReportHandler) momGrowth(c *gin.Context) {
	now := h.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	start, end, ok := h.optionalRange(c, monthStart, now)
	if !ok {
		return
	}

	result, err := h.service.MoMGrowth(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"momGrowth": result.GrowthPercent,
		"current":   result.Current,
		"previous":  result.Previous,
	})
}

func (h *ReportHandler) grossProfit(c *gin.Context) {
	start, end, ok := h.optionalRange(c, time.Time{}, h.now().UTC())
	if !ok {
		return
	}

	rows, err := h.service.GrossProfitPerProduct(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	if rows == nil {
		rows = []*report.ProfitRow{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) marginProducts(c *gin.Context) {
	start, end, ok := h.optionalRange(c, time.Time{}, h.now().UTC())
	if !ok {
		return
	}

	result, err := h.service.MarginProducts(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReportHandler) productHistory(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil {
		failErr(c, http.StatusBadRequest, errors.New("productId is required"))
		return
	}

	rows, err := h.service.ProductSalesHistory(c.Request.Context(), productID, start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	if rows == nil {
		rows = []*report.HistoryPoint{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) customerAnalysis(c *gin.Context) {
	start, end, ok := h.requireRange(c)
	if !ok {
		return
	}

	result, err := h.service.CustomerSalesAnalysis(c.Request.Context(), start, end)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type scheduleRequest struct {
	Email     string `json:"email"`
	Frequency string `json:"frequency"`
}

func (h *ReportHandler) scheduleReport(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, err)
		return
	}

	schedule, err := h.service.ScheduleReport(c.Request.Context(), req.Email, req.Frequency)
	if err != nil {
		failErr(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}
