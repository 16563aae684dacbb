package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/dbtest"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/redis"
)

const (
	testCooldown  = 5 * time.Minute
	testStaleness = 6 * time.Hour
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	conn  *gorm.DB
	repo  Repository
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	return &fixture{conn: conn, repo: NewRepository(conn), clock: newFakeClock()}
}

func (f *fixture) service(t *testing.T, repo Repository, snapshots SnapshotCache) Service {
	t.Helper()
	if repo == nil {
		repo = f.repo
	}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Tx:        db.FromGorm(f.conn),
		Snapshots: snapshots,
		Config: Config{
			StalenessThreshold: testStaleness,
			RefreshCooldown:    testCooldown,
			TopProductsLimit:   2,
			MonthlyTrendMonths: 3,
		},
		Now: f.clock.Now,
	})
	require.NoError(t, err)
	return svc
}

type seeded struct {
	ring, necklace, earring models.Product
	packaging, marketing    models.ExpenseCategory
}

func seedStore(t *testing.T, conn *gorm.DB) seeded {
	t.Helper()
	var s seeded
	s.ring = models.Product{SKU: "RNG-001", Name: "Sapphire Ring", Category: enums.ProductCategoryRings, Price: decimal.RequireFromString("50"), StockQuantity: 10, IsActive: true}
	s.necklace = models.Product{SKU: "NCK-001", Name: "Pearl Necklace", Category: enums.ProductCategoryNecklaces, Price: decimal.RequireFromString("125.25"), StockQuantity: 5, IsActive: true}
	s.earring = models.Product{SKU: "EAR-001", Name: "Gold Hoops", Category: enums.ProductCategoryEarrings, Price: decimal.RequireFromString("20"), StockQuantity: 5, IsActive: true}
	for _, p := range []*models.Product{&s.ring, &s.necklace, &s.earring} {
		require.NoError(t, conn.Create(p).Error)
	}

	red := "#ff0000"
	s.packaging = models.ExpenseCategory{Name: "Packaging", Color: &red}
	s.marketing = models.ExpenseCategory{Name: "Marketing"}
	require.NoError(t, conn.Create(&s.packaging).Error)
	require.NoError(t, conn.Create(&s.marketing).Error)

	march := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	lastYear := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	createOrder(t, conn, "GV-1", enums.OrderStatusConfirmed, march, item(s.ring, 2))
	createOrder(t, conn, "GV-2", enums.OrderStatusDelivered, feb, item(s.necklace, 2))
	createOrder(t, conn, "GV-3", enums.OrderStatusProcessing, lastYear, item(s.ring, 1), item(s.earring, 1))
	createOrder(t, conn, "GV-4", enums.OrderStatusCancelled, march, item(s.earring, 4))
	createOrder(t, conn, "GV-5", enums.OrderStatusPaymentPending, march, item(s.necklace, 1))

	createExpense(t, conn, s.packaging, "75", march)
	createExpense(t, conn, s.marketing, "25", feb)
	createExpense(t, conn, s.packaging, "100", lastYear)
	return s
}

func item(p models.Product, qty int) models.OrderItem {
	id := p.ID
	return models.OrderItem{
		ProductID:   &id,
		ProductName: p.Name,
		ProductSKU:  p.SKU,
		UnitPrice:   p.Price,
		Quantity:    qty,
		LineTotal:   p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func createOrder(t *testing.T, conn *gorm.DB, number string, status enums.OrderStatus, at time.Time, items ...models.OrderItem) models.Order {
	t.Helper()
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	order := models.Order{
		OrderNumber:     number,
		CustomerName:    "Ana",
		CustomerPhone:   "5215550001111",
		ShippingAddress: "Calle 1",
		Status:          status,
		Subtotal:        subtotal,
		ShippingFee:     decimal.Zero,
		Discount:        decimal.Zero,
		Total:           subtotal,
		Items:           items,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	require.NoError(t, conn.Create(&order).Error)
	return order
}

func createExpense(t *testing.T, conn *gorm.DB, cat models.ExpenseCategory, amount string, at time.Time) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Expense{
		CategoryID:  cat.ID,
		Description: "supplies",
		Amount:      decimal.RequireFromString(amount),
		ExpenseDate: at,
	}).Error)
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	old := now.Add(-testStaleness - time.Millisecond)
	edge := now.Add(-testStaleness)

	assert.True(t, IsStale(now, nil, testStaleness))
	assert.False(t, IsStale(now, &now, testStaleness))
	assert.True(t, IsStale(now, &old, testStaleness))
	assert.False(t, IsStale(now, &edge, testStaleness))
}

func TestServiceIsStaleUsesClock(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil, nil)

	at := f.clock.Now()
	require.False(t, svc.IsStale(&at))
	f.clock.Advance(testStaleness + time.Millisecond)
	require.True(t, svc.IsStale(&at))
	require.True(t, svc.IsStale(nil))
}

func TestGetCachedAnalyticsEmptyBeforeRefresh(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	cached, err := svc.GetCachedAnalytics(ctx)
	require.NoError(t, err)
	require.Empty(t, cached)

	meta, err := svc.GetRefreshMetadata(ctx)
	require.NoError(t, err)
	require.Nil(t, meta)

	status, err := svc.GetCooldownStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 4)
	for metric, st := range status {
		require.True(t, st.CanRefresh, metric)
		require.Zero(t, st.RemainingMs, metric)
	}
}

func TestRefreshAllAnalyticsPopulatesEveryMetric(t *testing.T) {
	f := newFixture(t)
	s := seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	result, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.Data)

	cached, err := svc.GetCachedAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 4)

	expected := map[enums.MetricType]any{
		enums.MetricNetRevenue:       result.Data.NetRevenue,
		enums.MetricMonthlyTrends:    result.Data.MonthlyTrends,
		enums.MetricExpenseBreakdown: result.Data.ExpenseBreakdown,
		enums.MetricTopProducts:      result.Data.TopProducts,
	}
	for metric, payload := range expected {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		require.JSONEq(t, string(raw), string(cached[metric]), metric)
	}

	net := result.Data.NetRevenue
	// GV-1 100 + GV-2 250.50 + GV-3 70; cancelled and pending orders excluded.
	require.True(t, net.TotalRevenue.Equal(decimal.RequireFromString("420.5")), net.TotalRevenue.String())
	require.True(t, net.TotalExpenses.Equal(decimal.RequireFromString("200")), net.TotalExpenses.String())
	require.True(t, net.NetRevenue.Equal(decimal.RequireFromString("220.5")), net.NetRevenue.String())
	require.Equal(t, int64(3), net.OrderCount)
	require.Equal(t, int64(3), net.ExpenseCount)
	require.True(t, net.AverageOrderValue.Equal(decimal.RequireFromString("140.17")), net.AverageOrderValue.String())
	require.InDelta(t, 52.44, net.ProfitMargin, 0.001)

	months := result.Data.MonthlyTrends.Months
	require.Len(t, months, 3)
	require.Equal(t, []string{"2026-01", "2026-02", "2026-03"}, []string{months[0].Month, months[1].Month, months[2].Month})
	require.True(t, months[0].Revenue.IsZero())
	require.True(t, months[1].Revenue.Equal(decimal.RequireFromString("250.5")))
	require.True(t, months[1].Expenses.Equal(decimal.RequireFromString("25")))
	require.True(t, months[2].Revenue.Equal(decimal.RequireFromString("100")))
	require.True(t, months[2].Net.Equal(decimal.RequireFromString("25")))
	require.Equal(t, int64(1), months[2].OrderCount)

	breakdown := result.Data.ExpenseBreakdown
	require.Len(t, breakdown.Categories, 2)
	require.Equal(t, s.packaging.ID, breakdown.Categories[0].CategoryID)
	require.InDelta(t, 87.5, breakdown.Categories[0].Percentage, 0.001)
	require.InDelta(t, 12.5, breakdown.Categories[1].Percentage, 0.001)

	top := result.Data.TopProducts.Products
	require.Len(t, top, 2)
	require.Equal(t, s.ring.SKU, top[0].SKU)
	require.Equal(t, int64(3), top[0].QuantitySold)
	require.Equal(t, int64(2), top[0].OrderCount)
	require.Equal(t, s.necklace.SKU, top[1].SKU)

	meta, err := svc.GetRefreshMetadata(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.Equal(t, enums.RefreshStatusCompleted, meta.Status)
	require.Equal(t, "admin-1", meta.TriggeredBy)
	require.Equal(t, int64(3), meta.TotalOrdersProcessed)
	require.Equal(t, int64(3), meta.TotalExpensesProcessed)

	history, err := svc.History(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
}

func TestRefreshWithinCooldownLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	first, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	require.True(t, first.Success)
	before, err := f.repo.ListCache(ctx)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	createExpense(t, f.conn, seedCategory(t, f.conn, "Rent"), "500", f.clock.Now())

	second, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	require.False(t, second.Success)
	require.Nil(t, second.Data)
	require.Equal(t, (4 * time.Minute).Milliseconds(), second.CooldownRemaining)

	after, err := f.repo.ListCache(ctx)
	require.NoError(t, err)
	requireSameCache(t, before, after)
}

func TestCooldownStatusAfterRefreshAndElapse(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	_, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)

	status, err := svc.GetCooldownStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 4)
	for metric, st := range status {
		require.False(t, st.CanRefresh, metric)
		require.Equal(t, testCooldown.Milliseconds(), st.RemainingMs, metric)
	}

	f.clock.Advance(testCooldown)
	status, err = svc.GetCooldownStatus(ctx)
	require.NoError(t, err)
	for metric, st := range status {
		require.True(t, st.CanRefresh, metric)
		require.Zero(t, st.RemainingMs, metric)
	}

	again, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	require.True(t, again.Success)
}

type faultyRepo struct {
	Repository
	failTopProducts bool
	failHistory     bool
}

func (r *faultyRepo) WithTx(tx *gorm.DB) Repository {
	return &faultyRepo{Repository: r.Repository.WithTx(tx), failTopProducts: r.failTopProducts, failHistory: r.failHistory}
}

func (r *faultyRepo) TopProducts(ctx context.Context, limit int) ([]ProductRow, error) {
	if r.failTopProducts {
		return nil, errors.New("top products query exploded")
	}
	return r.Repository.TopProducts(ctx, limit)
}

func (r *faultyRepo) InsertHistory(ctx context.Context, rows []models.AnalyticsHistory) error {
	if r.failHistory {
		return errors.New("history insert exploded")
	}
	return r.Repository.InsertHistory(ctx, rows)
}

func TestRefreshFailureKeepsPreviousCache(t *testing.T) {
	cases := map[string]*faultyRepo{
		"compute fails":     {failTopProducts: true},
		"transaction fails": {failHistory: true},
	}
	for name, faulty := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			seedStore(t, f.conn)
			ctx := context.Background()

			healthy := f.service(t, nil, nil)
			_, err := healthy.RefreshAllAnalytics(ctx, "admin-1")
			require.NoError(t, err)
			before, err := f.repo.ListCache(ctx)
			require.NoError(t, err)

			f.clock.Advance(testCooldown)
			createExpense(t, f.conn, seedCategory(t, f.conn, "Rent"), "500", f.clock.Now())

			faulty.Repository = f.repo
			broken := f.service(t, faulty, nil)
			result, err := broken.RefreshAllAnalytics(ctx, "admin-2")
			require.Error(t, err)
			require.Nil(t, result)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))

			after, err := f.repo.ListCache(ctx)
			require.NoError(t, err)
			requireSameCache(t, before, after)

			meta, err := healthy.GetRefreshMetadata(ctx)
			require.NoError(t, err)
			require.Equal(t, enums.RefreshStatusFailed, meta.Status)
			require.NotNil(t, meta.ErrorMessage)
			require.Equal(t, "admin-2", meta.TriggeredBy)

			var historyCount int64
			require.NoError(t, f.conn.Model(&models.AnalyticsHistory{}).Count(&historyCount).Error)
			require.Equal(t, int64(4), historyCount)

			// The failed attempt must not consume the cooldown.
			retry, err := healthy.RefreshAllAnalytics(ctx, "admin-2")
			require.NoError(t, err)
			require.True(t, retry.Success)
		})
	}
}

func TestConcurrentRefreshHasSingleWinner(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	const callers = 6
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		cooldowns atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.RefreshAllAnalytics(ctx, "admin")
			if err != nil {
				t.Errorf("refresh error: %v", err)
				return
			}
			if result.Success {
				successes.Add(1)
			} else if result.CooldownRemaining > 0 {
				cooldowns.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), successes.Load())
	require.Equal(t, int32(callers-1), cooldowns.Load())

	var completed int64
	require.NoError(t, f.conn.Model(&models.AnalyticsMetadata{}).Where("status = ?", enums.RefreshStatusCompleted).Count(&completed).Error)
	require.Equal(t, int64(1), completed)
}

func TestSnapshotCacheReadThroughAndInvalidation(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = raw.Close() })
	client := redis.Wrap(raw, "test")
	snapshots := NewRedisSnapshotCache(client, time.Minute)
	svc := f.service(t, nil, snapshots)

	_, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	_, version, ok, err := snapshots.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int64(1), version)

	cached, err := svc.GetCachedAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 4)
	require.True(t, mr.Exists(client.CacheKey("analytics", "snapshot", "1")))
	_, _, ok, err = snapshots.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	f.clock.Advance(testCooldown)
	_, err = svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	_, version, ok, err = snapshots.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok, "refresh must invalidate the snapshot")
	require.Equal(t, int64(2), version)

	mr.Close()
	cached, err = svc.GetCachedAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 4)
}

func TestSnapshotWrittenBeforeRefreshIsNotServed(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	snapshots := NewRedisSnapshotCache(redis.Wrap(raw, "test"), time.Minute)
	svc := f.service(t, nil, snapshots)

	_, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)

	// A slow reader misses Redis and reads the database before the next refresh commits.
	_, readerVersion, ok, err := snapshots.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	oldRows, err := f.repo.ListCache(ctx)
	require.NoError(t, err)
	old := make(map[enums.MetricType]json.RawMessage, len(oldRows))
	for _, row := range oldRows {
		old[row.MetricType] = row.CalculatedData
	}

	f.clock.Advance(testCooldown)
	createExpense(t, f.conn, seedCategory(t, f.conn, "Rent"), "500", f.clock.Now())
	_, err = svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)

	// The reader publishes what it read after the refresh invalidated the snapshot.
	require.NoError(t, snapshots.Store(ctx, readerVersion, old))

	cached, err := svc.GetCachedAnalytics(ctx)
	require.NoError(t, err)
	fresh, err := f.repo.ListCache(ctx)
	require.NoError(t, err)
	for _, row := range fresh {
		require.JSONEq(t, string(row.CalculatedData), string(cached[row.MetricType]))
	}
	require.NotEqual(t, string(old[enums.MetricNetRevenue]), string(cached[enums.MetricNetRevenue]))
}

func TestStatusAndDashboard(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Nil(t, status.Metadata)
	require.True(t, status.IsStale)

	_, err = svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)

	status, err = svc.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.LastRefreshed)
	require.False(t, status.IsStale)
	require.False(t, status.CooldownStatus[enums.MetricNetRevenue].CanRefresh)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, dash.NetRevenue)
	require.True(t, dash.NetRevenue.NetRevenue.Equal(decimal.RequireFromString("220.5")))
	require.Equal(t, int64(1), dash.OrdersByStatus[enums.OrderStatusCancelled])
	require.Equal(t, int64(1), dash.PaymentsPending)

	f.clock.Advance(testStaleness + time.Second)
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	require.True(t, status.IsStale)
}

func TestFailedRefreshDoesNotMarkAnalyticsFresh(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	ctx := context.Background()
	healthy := f.service(t, nil, nil)
	broken := f.service(t, &faultyRepo{Repository: f.repo, failTopProducts: true}, nil)

	_, err := broken.RefreshAllAnalytics(ctx, "admin-1")
	require.Error(t, err)

	status, err := healthy.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.Metadata)
	require.Equal(t, enums.RefreshStatusFailed, status.Metadata.Status)
	require.Nil(t, status.LastRefreshed)
	require.True(t, status.IsStale)

	dash, err := healthy.Dashboard(ctx)
	require.NoError(t, err)
	require.True(t, dash.IsStale)

	_, err = healthy.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)
	succeededAt := f.clock.Now()

	f.clock.Advance(testStaleness)
	_, err = broken.RefreshAllAnalytics(ctx, "cron")
	require.Error(t, err)
	f.clock.Advance(time.Second)

	status, err = healthy.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, enums.RefreshStatusFailed, status.Metadata.Status)
	require.NotNil(t, status.LastRefreshed)
	require.True(t, status.LastRefreshed.Equal(succeededAt))
	require.True(t, status.IsStale)
}

func TestHistoryFiltersByMetric(t *testing.T) {
	f := newFixture(t)
	seedStore(t, f.conn)
	svc := f.service(t, nil, nil)
	ctx := context.Background()

	_, err := svc.RefreshAllAnalytics(ctx, "admin-1")
	require.NoError(t, err)

	metric := enums.MetricTopProducts
	rows, err := svc.History(ctx, &metric, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, metric, rows[0].MetricType)

	bogus := enums.MetricType("bogus")
	_, err = svc.History(ctx, &bogus, 10)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)

	conn := dbtest.Open(t)
	_, err = NewService(ServiceParams{Repo: NewRepository(conn), Tx: db.FromGorm(conn)})
	require.Error(t, err)
}

func seedCategory(t *testing.T, conn *gorm.DB, name string) models.ExpenseCategory {
	t.Helper()
	cat := models.ExpenseCategory{ID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(&cat).Error)
	return cat
}

func requireSameCache(t *testing.T, before, after []models.AnalyticsCacheEntry) {
	t.Helper()
	require.Len(t, after, len(before))
	for i := range before {
		require.Equal(t, before[i].MetricType, after[i].MetricType)
		require.Equal(t, string(before[i].CalculatedData), string(after[i].CalculatedData))
		require.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
}
