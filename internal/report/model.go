package report

import (
	"time"

	"github.com/google/uuid"
)

// Granularity selects the bucket size for period-wise sales reports.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// BucketRow is one period bucket. Key is a sortable composite rendering of
// the bucket ("2025-03-05", "2025-W14", "2025-03", "2025") so buckets from
// different years never collide; Year and Period carry the raw components.
type BucketRow struct {
	Key           string  `json:"_id"`
	Year          int     `json:"year"`
	Period        int     `json:"period"`
	TotalSales    float64 `json:"totalSales"`
	TotalProducts int     `json:"totalProducts"`
}

// ProductTotal is a top-sold product row. Revenue is computed from the
// captured per-line unit price, not the whole-order amount.
type ProductTotal struct {
	ProductID     int64   `json:"_id"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// ProfitRow is per-product gross profit over a range.
type ProfitRow struct {
	ProductID   int64   `json:"_id"`
	Name        string  `json:"name"`
	GrossProfit float64 `json:"grossProfit"`
}

// MarginReport partitions products by the configured profit threshold.
type MarginReport struct {
	HighMargin []*ProfitRow `json:"highMarginProducts"`
	LowMargin  []*ProfitRow `json:"lowMarginProducts"`
}

// HistoryPoint is one day of a single product's sales series.
type HistoryPoint struct {
	Date     string  `json:"_id"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GrowthReport compares a range against the equivalent prior period.
type GrowthReport struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	GrowthPercent float64 `json:"growthPercent"`
}

// ConversionReport relates orders to storefront visitors.
type ConversionReport struct {
	Orders         int64   `json:"orders"`
	Visitors       int64   `json:"visitors"`
	ConversionRate float64 `json:"conversionRate"`
}

// CustomerStat aggregates one customer's activity inside a range.
type CustomerStat struct {
	UserID     string    `json:"_id"`
	Revenue    float64   `json:"revenue"`
	OrderCount int       `json:"orderCount"`
	FirstOrder time.Time `json:"-"`
}

// CustomerSegment is the rolled-up half of a new/repeat split.
type CustomerSegment struct {
	Customers  int     `json:"customers"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"orderCount"`
}

// CustomerAnalysis is the new-versus-repeat customer report.
type CustomerAnalysis struct {
	New          CustomerSegment `json:"newCustomers"`
	Repeat       CustomerSegment `json:"repeatCustomers"`
	TopCustomers []*CustomerStat `json:"topCustomers"`
}

// Schedule frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Schedule is a recurring emailed report subscription.
type Schedule struct {
	ID        uuid.UUID `json:"_id"`
	Email     string    `json:"email"`
	Frequency string    `json:"frequency"`
	NextRunAt time.Time `json:"nextRunAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Digest is the mailed report body.
type Digest struct {
	Reference   string          `json:"reference"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	TotalSales  float64         `json:"totalSales"`
	OrderCount  int64           `json:"orderCount"`
	TopProducts []*ProductTotal `json:"topProducts"`
}
