package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildNetRevenue derives the net revenue card from raw order and expense totals.
func BuildNetRevenue(revenue, expenses TotalsRow) NetRevenue {
	net := revenue.Total.Sub(expenses.Total)
	out := NetRevenue{
		TotalRevenue:      revenue.Total.Round(2),
		TotalExpenses:     expenses.Total.Round(2),
		NetRevenue:        net.Round(2),
		OrderCount:        revenue.Count,
		ExpenseCount:      expenses.Count,
		AverageOrderValue: decimal.Zero,
	}
	if revenue.Total.IsPositive() {
		out.ProfitMargin = net.Div(revenue.Total).Mul(hundred).Round(2).InexactFloat64()
	}
	if revenue.Count > 0 {
		out.AverageOrderValue = revenue.Total.Div(decimal.NewFromInt(revenue.Count)).Round(2)
	}
	return out
}

// TrendWindowStart is the first instant of the oldest month in a trailing window of months.
func TrendWindowStart(now time.Time, months int) time.Time {
	if months <= 0 {
		months = 1
	}
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

// BuildMonthlyTrends merges revenue and expense buckets into a continuous,
// ascending series covering every month of the window.
func BuildMonthlyTrends(now time.Time, months int, revenue, expenses []MonthRow) MonthlyTrends {
	start := TrendWindowStart(now, months)
	if months <= 0 {
		months = 1
	}

	byMonth := make(map[string]*MonthlyTrend, months)
	series := make([]MonthlyTrend, 0, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthlyTrend{
			Month:    key,
			Revenue:  decimal.Zero,
			Expenses: decimal.Zero,
			Net:      decimal.Zero,
		})
	}
	for i := range series {
		byMonth[series[i].Month] = &series[i]
	}

	for _, row := range revenue {
		if bucket, ok := byMonth[row.Month]; ok {
			bucket.Revenue = bucket.Revenue.Add(row.Total)
			bucket.OrderCount += row.Count
		}
	}
	for _, row := range expenses {
		if bucket, ok := byMonth[row.Month]; ok {
			bucket.Expenses = bucket.Expenses.Add(row.Total)
		}
	}
	for i := range series {
		series[i].Revenue = series[i].Revenue.Round(2)
		series[i].Expenses = series[i].Expenses.Round(2)
		series[i].Net = series[i].Revenue.Sub(series[i].Expenses)
	}
	return MonthlyTrends{Months: series}
}

// BuildExpenseBreakdown computes each category's share of total expenses.
// Percentages are zero across the board when nothing has been spent.
func BuildExpenseBreakdown(rows []CategoryRow) ExpenseBreakdown {
	grand := decimal.Zero
	for _, row := range rows {
		grand = grand.Add(row.Total)
	}

	categories := make([]CategoryBreakdown, 0, len(rows))
	for _, row := range rows {
		entry := CategoryBreakdown{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Color:        row.Color,
			Total:        row.Total.Round(2),
			Count:        row.Count,
		}
		if grand.IsPositive() {
			entry.Percentage = row.Total.Div(grand).Mul(hundred).Round(2).InexactFloat64()
		}
		categories = append(categories, entry)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if cmp := categories[i].Total.Cmp(categories[j].Total); cmp != 0 {
			return cmp > 0
		}
		return categories[i].CategoryName < categories[j].CategoryName
	})
	return ExpenseBreakdown{Categories: categories, GrandTotal: grand.Round(2)}
}

// BuildTopProducts ranks products by quantity, then revenue, keeping at most limit.
func BuildTopProducts(rows []ProductRow, limit int) TopProducts {
	products := make([]ProductPerformance, 0, len(rows))
	for _, row := range rows {
		products = append(products, ProductPerformance{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			SKU:          row.SKU,
			QuantitySold: row.QuantitySold,
			Revenue:      row.Revenue.Round(2),
			OrderCount:   row.OrderCount,
		})
	}
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].QuantitySold != products[j].QuantitySold {
			return products[i].QuantitySold > products[j].QuantitySold
		}
		return products[i].Revenue.Cmp(products[j].Revenue) > 0
	})
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return TopProducts{Products: products}
}
