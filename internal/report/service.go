package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodhub-be/internal/search"
	"foodhub-be/internal/visit"

	"github.com/google/uuid"
)

const topProductLimit = 10

// SearchedProduct is the API rendering of a top-searched aggregation row.
type SearchedProduct struct {
	ProductID     int64 `json:"_id"`
	TotalSearches int   `json:"totalSearches"`
}

type Service interface {
	TotalSales(ctx context.Context, start, end time.Time) (float64, error)
	TotalRevenue(ctx context.Context, start, end time.Time) (float64, error)
	PeriodWise(ctx context.Context, granularity Granularity, start, end time.Time) ([]*BucketRow, error)
	TotalReport(ctx context.Context, start, end time.Time) ([]*ProductTotal, error)
	ConversionRate(ctx context.Context, start, end time.Time) (*ConversionReport, error)
	YoYGrowth(ctx context.Context, start, end time.Time) (*GrowthReport, error)
	MoMGrowth(ctx context.Context, start, end time.Time) (*GrowthReport, error)
	GrossProfitPerProduct(ctx context.Context, start, end time.Time) ([]*ProfitRow, error)
	MarginProducts(ctx context.Context, start, end time.Time) (*MarginReport, error)
	TopSearchedProducts(ctx context.Context, start, end time.Time) ([]*SearchedProduct, error)
	ProductSalesHistory(ctx context.Context, productID int64, start, end time.Time) ([]*HistoryPoint, error)
	CustomerSalesAnalysis(ctx context.Context, start, end time.Time) (*CustomerAnalysis, error)
	ScheduleReport(ctx context.Context, email, frequency string) (*Schedule, error)
}

type service struct {
	repo            Repository
	visits          visit.Store
	searches        search.Repository
	marginThreshold float64
	now             func() time.Time
}

func NewService(repo Repository, visits visit.Store, searches search.Repository, marginThreshold float64) Service {
	return &service{
		repo:            repo,
		visits:          visits,
		searches:        searches,
		marginThreshold: marginThreshold,
		now:             time.Now,
	}
}

func (s *service) TotalSales(ctx context.Context, start, end time.Time) (float64, error) {
	return s.repo.TotalSales(ctx, start, end)
}

// TotalRevenue is the same figure as TotalSales; the storefront exposes both
// names so both stay, backed by one query.
func (s *service) TotalRevenue(ctx context.Context, start, end time.Time) (float64, error) {
	return s.repo.TotalSales(ctx, start, end)
}

func (s *service) PeriodWise(ctx context.Context, granularity Granularity, start, end time.Time) ([]*BucketRow, error) {
	buckets, err := s.repo.BucketTotals(ctx, granularity, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]*BucketRow, 0, len(buckets))
	for _, b := range buckets {
		row := formatBucket(granularity, b.Bucket)
		row.TotalSales = b.TotalSales
		row.TotalProducts = b.TotalProducts
		out = append(out, row)
	}
	return out, nil
}

func formatBucket(granularity Granularity, bucket time.Time) *BucketRow {
	switch granularity {
	case GranularityWeek:
		year, week := bucket.ISOWeek()
		return &BucketRow{Key: fmt.Sprintf("%d-W%02d", year, week), Year: year, Period: week}
	case GranularityMonth:
		return &BucketRow{Key: bucket.Format("2006-01"), Year: bucket.Year(), Period: int(bucket.Month())}
	case GranularityYear:
		return &BucketRow{Key: bucket.Format("2006"), Year: bucket.Year(), Period: bucket.Year()}
	default:
		return &BucketRow{Key: bucket.Format("2006-01-02"), Year: bucket.Year(), Period: bucket.Day()}
	}
}

func (s *service) TotalReport(ctx context.Context, start, end time.Time) ([]*ProductTotal, error) {
	return s.repo.TopProducts(ctx, start, end, topProductLimit)
}

// ConversionRate divides orders by recorded visitors. A window with no
// recorded visitors reports against 1 so the figure stays finite.
func (s *service) ConversionRate(ctx context.Context, start, end time.Time) (*ConversionReport, error) {
	orders, err := s.repo.OrderCount(ctx, start, end)
	if err != nil {
		return nil, err
	}

	visitors, err := s.visits.VisitorCount(ctx, start, end)
	if err != nil {
		return nil, err
	}

	denominator := visitors
	if denominator < 1 {
		denominator = 1
	}

	return &ConversionReport{
		Orders:         orders,
		Visitors:       visitors,
		ConversionRate: float64(orders) / float64(denominator) * 100,
	}, nil
}

func (s *service) YoYGrowth(ctx context.Context, start, end time.Time) (*GrowthReport, error) {
	return s.growth(ctx, start, end, start.AddDate(-1, 0, 0), end.AddDate(-1, 0, 0))
}

func (s *service) MoMGrowth(ctx context.Context, start, end time.Time) (*GrowthReport, error) {
	return s.growth(ctx, start, end, start.AddDate(0, -1, 0), end.AddDate(0, -1, 0))
}

func (s *service) growth(ctx context.Context, start, end, priorStart, priorEnd time.Time) (*GrowthReport, error) {
	current, err := s.repo.TotalSales(ctx, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.repo.TotalSales(ctx, priorStart, priorEnd)
	if err != nil {
		return nil, err
	}

	return &GrowthReport{
		Current:       current,
		Previous:      previous,
		GrowthPercent: growthPercent(current, previous),
	}, nil
}

// growthPercent never divides by zero: no prior activity and no current
// activity is flat, prior zero with current activity reads as 100%.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func (s *service) GrossProfitPerProduct(ctx context.Context, start, end time.Time) ([]*ProfitRow, error) {
	return s.repo.GrossProfitPerProduct(ctx, start, end)
}

func (s *service) MarginProducts(ctx context.Context, start, end time.Time) (*MarginReport, error) {
	rows, err := s.repo.GrossProfitPerProduct(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &MarginReport{HighMargin: []*ProfitRow{}, LowMargin: []*ProfitRow{}}
	for _, row := range rows {
		if row.GrossProfit >= s.marginThreshold {
			report.HighMargin = append(report.HighMargin, row)
		} else {
			report.LowMargin = append(report.LowMargin, row)
		}
	}
	return report, nil
}

func (s *service) TopSearchedProducts(ctx context.Context, start, end time.Time) ([]*SearchedProduct, error) {
	rows, err := s.searches.TopSearched(ctx, start, end, topProductLimit)
	if err != nil {
		return nil, err
	}

	out := make([]*SearchedProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, &SearchedProduct{ProductID: row.ProductID, TotalSearches: row.TotalSearches})
	}
	return out, nil
}

func (s *service) ProductSalesHistory(ctx context.Context, productID int64, start, end time.Time) ([]*HistoryPoint, error) {
	if productID <= 0 {
		return nil, ErrUnknownProduct
	}
	return s.repo.ProductSalesHistory(ctx, productID, start, end)
}

// CustomerSalesAnalysis splits customers into new (first-ever order inside
// the range) and repeat, and lists the top 5 by revenue.
func (s *service) CustomerSalesAnalysis(ctx context.Context, start, end time.Time) (*CustomerAnalysis, error) {
	stats, err := s.repo.CustomerStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	analysis := &CustomerAnalysis{TopCustomers: []*CustomerStat{}}
	for _, c := range stats {
		segment := &analysis.Repeat
		if !c.FirstOrder.Before(start) {
			segment = &analysis.New
		}
		segment.Customers++
		segment.Revenue += c.Revenue
		segment.OrderCount += c.OrderCount
	}

	// stats arrive revenue-descending
	for i := 0; i < len(stats) && i < 5; i++ {
		analysis.TopCustomers = append(analysis.TopCustomers, stats[i])
	}
	return analysis, nil
}

func (s *service) ScheduleReport(ctx context.Context, email, frequency string) (*Schedule, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidSchedule
	}

	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return nil, ErrInvalidSchedule
	}

	schedule := &Schedule{
		ID:        uuid.New(),
		Email:     email,
		Frequency: frequency,
		NextRunAt: nextRun(s.now().UTC(), frequency),
	}
	if err := s.repo.InsertSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func nextRun(from time.Time, frequency string) time.Time {
	switch frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}
