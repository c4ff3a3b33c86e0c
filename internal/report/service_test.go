package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodhub-be/internal/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	salesByRange map[string]float64
	orderCount   int64
	buckets      []bucketTotal
	topProducts  []*ProductTotal
	gotLimit     int
	profit       []*ProfitRow
	history      []*HistoryPoint
	customers    []*CustomerStat
	schedules    []*Schedule
	advanced     map[uuid.UUID]time.Time
	err          error
}

func rangeKey(start, end time.Time) string {
	return start.Format("2006-01-02") + "/" + end.Format("2006-01-02")
}

func (f *fakeRepo) TotalSales(ctx context.Context, start, end time.Time) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.salesByRange[rangeKey(start, end)], nil
}

func (f *fakeRepo) OrderCount(ctx context.Context, start, end time.Time) (int64, error) {
	return f.orderCount, f.err
}

func (f *fakeRepo) BucketTotals(ctx context.Context, g Granularity, start, end time.Time) ([]bucketTotal, error) {
	return f.buckets, f.err
}

func (f *fakeRepo) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]*ProductTotal, error) {
	f.gotLimit = limit
	if len(f.topProducts) > limit {
		return f.topProducts[:limit], f.err
	}
	return f.topProducts, f.err
}

func (f *fakeRepo) GrossProfitPerProduct(ctx context.Context, start, end time.Time) ([]*ProfitRow, error) {
	return f.profit, f.err
}

func (f *fakeRepo) ProductSalesHistory(ctx context.Context, id int64, start, end time.Time) ([]*HistoryPoint, error) {
	return f.history, f.err
}

func (f *fakeRepo) CustomerStats(ctx context.Context, start, end time.Time) ([]*CustomerStat, error) {
	return f.customers, f.err
}

func (f *fakeRepo) InsertSchedule(ctx context.Context, s *Schedule) error {
	f.schedules = append(f.schedules, s)
	return f.err
}

func (f *fakeRepo) DueSchedules(ctx context.Context, now time.Time) ([]*Schedule, error) {
	return f.schedules, f.err
}

func (f *fakeRepo) AdvanceSchedule(ctx context.Context, id uuid.UUID, next time.Time) error {
	if f.advanced == nil {
		f.advanced = map[uuid.UUID]time.Time{}
	}
	f.advanced[id] = next
	return nil
}

type fakeVisitStore struct {
	count int64
	err   error
}

func (f *fakeVisitStore) RecordVisit(ctx context.Context, day time.Time) error { return nil }

func (f *fakeVisitStore) VisitorCount(ctx context.Context, start, end time.Time) (int64, error) {
	return f.count, f.err
}

type fakeSearchRepo struct {
	rows     []*search.ProductSearches
	gotLimit int
}

func (f *fakeSearchRepo) Insert(ctx context.Context, e *search.Event) error { return nil }

func (f *fakeSearchRepo) TopSearched(ctx context.Context, start, end time.Time, limit int) ([]*search.ProductSearches, error) {
	f.gotLimit = limit
	return f.rows, nil
}

func newTestService(repo *fakeRepo, visits *fakeVisitStore, searches *fakeSearchRepo) *service {
	return &service{
		repo:            repo,
		visits:          visits,
		searches:        searches,
		marginThreshold: 1000,
		now:             func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC) },
	}
}

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"BothZero", 0, 0, 0},
		{"PriorZeroCurrentPositive", 500, 0, 100},
		{"Doubled", 200, 100, 100},
		{"Halved", 50, 100, -50},
		{"Flat", 100, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, growthPercent(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestService_YoYGrowth(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	priorStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	priorEnd := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{salesByRange: map[string]float64{
		rangeKey(start, end):           1500,
		rangeKey(priorStart, priorEnd): 1000,
	}}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	report, err := svc.YoYGrowth(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, report.Current)
	assert.Equal(t, 1000.0, report.Previous)
	assert.InDelta(t, 50.0, report.GrowthPercent, 1e-9)
}

func TestService_MoMGrowth_EmptyPrior(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{salesByRange: map[string]float64{rangeKey(start, end): 800}}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	report, err := svc.MoMGrowth(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, report.GrowthPercent)
}

func TestFormatBucket(t *testing.T) {
	tests := []struct {
		name        string
		granularity Granularity
		bucket      time.Time
		wantKey     string
		wantYear    int
		wantPeriod  int
	}{
		{"Day", GranularityDay, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), "2025-03-05", 2025, 5},
		{"Week", GranularityWeek, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), "2025-W14", 2025, 14},
		{"WeekSpanningYears", GranularityWeek, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01", 2025, 1},
		{"Month", GranularityMonth, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "2025-03", 2025, 3},
		{"Year", GranularityYear, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025", 2025, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := formatBucket(tt.granularity, tt.bucket)
			assert.Equal(t, tt.wantKey, row.Key)
			assert.Equal(t, tt.wantYear, row.Year)
			assert.Equal(t, tt.wantPeriod, row.Period)
		})
	}
}

func TestService_PeriodWise(t *testing.T) {
	// Two January orders on different days yield two distinct day rows
	// whose sales sum to the range total.
	repo := &fakeRepo{buckets: []bucketTotal{
		{Bucket: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), TotalSales: 500, TotalProducts: 2},
		{Bucket: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), TotalSales: 300, TotalProducts: 1},
	}}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	rows, err := svc.PeriodWise(context.Background(), GranularityDay,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-01-01", rows[0].Key)
	assert.Equal(t, 1, rows[0].Period)
	assert.Equal(t, "2025-01-05", rows[1].Key)
	assert.Equal(t, 5, rows[1].Period)

	var sum float64
	for _, row := range rows {
		sum += row.TotalSales
	}
	assert.Equal(t, 800.0, sum)
}

func TestService_TotalReport(t *testing.T) {
	products := make([]*ProductTotal, 0, 12)
	for i := 0; i < 12; i++ {
		products = append(products, &ProductTotal{ProductID: int64(i + 1), TotalQuantity: 100 - i})
	}
	repo := &fakeRepo{topProducts: products}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	rows, err := svc.TotalReport(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, 10, repo.gotLimit)
	assert.Len(t, rows, 10)
	assert.Equal(t, int64(1), rows[0].ProductID)
}

func TestService_ConversionRate(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("WithVisitors", func(t *testing.T) {
		svc := newTestService(&fakeRepo{orderCount: 25}, &fakeVisitStore{count: 500}, &fakeSearchRepo{})

		report, err := svc.ConversionRate(context.Background(), start, end)
		assert.NoError(t, err)
		assert.Equal(t, int64(25), report.Orders)
		assert.Equal(t, int64(500), report.Visitors)
		assert.InDelta(t, 5.0, report.ConversionRate, 1e-9)
	})

	t.Run("NoVisitorsStaysFinite", func(t *testing.T) {
		svc := newTestService(&fakeRepo{orderCount: 3}, &fakeVisitStore{count: 0}, &fakeSearchRepo{})

		report, err := svc.ConversionRate(context.Background(), start, end)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), report.Visitors)
		assert.InDelta(t, 300.0, report.ConversionRate, 1e-9)
	})
}

func TestService_MarginProducts(t *testing.T) {
	repo := &fakeRepo{profit: []*ProfitRow{
		{ProductID: 1, GrossProfit: 5000},
		{ProductID: 2, GrossProfit: 1000},
		{ProductID: 3, GrossProfit: 999.99},
		{ProductID: 4, GrossProfit: -50},
	}}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	report, err := svc.MarginProducts(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	require.Len(t, report.HighMargin, 2)
	require.Len(t, report.LowMargin, 2)
	assert.Equal(t, int64(1), report.HighMargin[0].ProductID)
	assert.Equal(t, int64(3), report.LowMargin[0].ProductID)
}

func TestService_TopSearchedProducts(t *testing.T) {
	searches := &fakeSearchRepo{rows: []*search.ProductSearches{
		{ProductID: 7, TotalSearches: 40},
		{ProductID: 3, TotalSearches: 12},
	}}
	svc := newTestService(&fakeRepo{}, &fakeVisitStore{}, searches)

	rows, err := svc.TopSearchedProducts(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, 10, searches.gotLimit)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(7), rows[0].ProductID)
	assert.Equal(t, 40, rows[0].TotalSearches)
}

func TestService_CustomerSalesAnalysis(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{customers: []*CustomerStat{
		{UserID: "u1", Revenue: 900, OrderCount: 3, FirstOrder: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: "u2", Revenue: 700, OrderCount: 2, FirstOrder: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		{UserID: "u3", Revenue: 500, OrderCount: 1, FirstOrder: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{UserID: "u4", Revenue: 300, OrderCount: 1, FirstOrder: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{UserID: "u5", Revenue: 200, OrderCount: 1, FirstOrder: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)},
		{UserID: "u6", Revenue: 100, OrderCount: 1, FirstOrder: time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

	analysis, err := svc.CustomerSalesAnalysis(context.Background(), start, end)
	assert.NoError(t, err)

	assert.Equal(t, 4, analysis.New.Customers)
	assert.Equal(t, 1500.0, analysis.New.Revenue)
	assert.Equal(t, 2, analysis.Repeat.Customers)
	assert.Equal(t, 1200.0, analysis.Repeat.Revenue)
	assert.Equal(t, 4, analysis.Repeat.OrderCount)

	require.Len(t, analysis.TopCustomers, 5)
	assert.Equal(t, "u1", analysis.TopCustomers[0].UserID)
	assert.Equal(t, "u5", analysis.TopCustomers[4].UserID)
}

func TestService_ScheduleReport(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(repo, &fakeVisitStore{}, &fakeSearchRepo{})

		schedule, err := svc.ScheduleReport(context.Background(), "owner@example.com", FrequencyWeekly)
		assert.NoError(t, err)
		require.NotNil(t, schedule)
		assert.Equal(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), schedule.NextRunAt)
		assert.Len(t, repo.schedules, 1)
	})

	t.Run("BadEmail", func(t *testing.T) {
		svc := newTestService(&fakeRepo{}, &fakeVisitStore{}, &fakeSearchRepo{})
		_, err := svc.ScheduleReport(context.Background(), "not-an-email", FrequencyDaily)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("BadFrequency", func(t *testing.T) {
		svc := newTestService(&fakeRepo{}, &fakeVisitStore{}, &fakeSearchRepo{})
		_, err := svc.ScheduleReport(context.Background(), "owner@example.com", "hourly")
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestService_ProductSalesHistory_InvalidID(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeVisitStore{}, &fakeSearchRepo{})
	_, err := svc.ProductSalesHistory(context.Background(), 0,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendDigest(ctx context.Context, to string, digest *Digest) error {
	f.sent = append(f.sent, to)
	return f.err
}

func TestScheduler_RunOnce(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	newScheduler := func(repo *fakeRepo, mailer *fakeMailer) *Scheduler {
		return &Scheduler{
			repo:     repo,
			mailer:   mailer,
			interval: time.Minute,
			now:      func() time.Time { return now },
			done:     make(chan struct{}),
		}
	}

	t.Run("MailsAndAdvances", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{schedules: []*Schedule{
			{ID: id, Email: "owner@example.com", Frequency: FrequencyDaily, NextRunAt: now.Add(-time.Minute)},
		}}
		mailer := &fakeMailer{}

		newScheduler(repo, mailer).runOnce(context.Background())

		assert.Equal(t, []string{"owner@example.com"}, mailer.sent)
		assert.Equal(t, now.AddDate(0, 0, 1), repo.advanced[id])
	})

	t.Run("SendFailureStillAdvances", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{schedules: []*Schedule{
			{ID: id, Email: "owner@example.com", Frequency: FrequencyMonthly, NextRunAt: now.Add(-time.Minute)},
		}}
		mailer := &fakeMailer{err: errors.New("relay down")}

		newScheduler(repo, mailer).runOnce(context.Background())

		assert.Equal(t, now.AddDate(0, 1, 0), repo.advanced[id])
	})
}

func TestScheduler_StopUnblocksStart(t *testing.T) {
	s := NewScheduler(&fakeRepo{}, &fakeMailer{})
	go s.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop() // idempotent
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
