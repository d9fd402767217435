package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"warungpos/backend/internal/domain"
)

// Dashboard aggregates paid transactions into the owner's daily, payment and
// monthly views, all relative to the given reference time. Pending and
// canceled transactions never count toward revenue.
func (s *Service) Dashboard(ctx context.Context, at time.Time) (domain.DashboardReport, error) {
	paid, err := s.ListTransactions(ctx, domain.TxStatusPaid)
	if err != nil {
		return domain.DashboardReport{}, err
	}

	productIDs := make([]uint64, 0, 16)
	seen := make(map[uint64]struct{}, 16)
	for _, detail := range paid {
		for _, item := range detail.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}
	products, err := s.repo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return domain.DashboardReport{}, err
	}

	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	var today, month, prevMonth []domain.TransactionDetail
	for _, detail := range paid {
		ts := detail.Transaction.TransactionDate.In(at.Location())
		switch {
		case !ts.Before(dayStart):
			today = append(today, detail)
			month = append(month, detail)
		case !ts.Before(monthStart):
			month = append(month, detail)
		case !ts.Before(prevMonthStart):
			prevMonth = append(prevMonth, detail)
		}
	}

	report := domain.DashboardReport{
		Daily:   buildDailyStats(today, products),
		Payment: buildPaymentStats(today),
		Monthly: buildMonthlyStats(month, prevMonth, products, at),
	}
	return report, nil
}

// methodClass folds payment methods into the cash/cashless pair the reports
// speak in.
func methodClass(method string) string {
	if method == "cash" {
		return "cash"
	}
	return "cashless"
}

func splitByMethod(details []domain.TransactionDetail) (cash int64, cashless int64, cashCount int, cashlessCount int) {
	for _, d := range details {
		if methodClass(d.Transaction.PaymentMethod) == "cash" {
			cash += d.Transaction.TotalAmount
			cashCount++
		} else {
			cashless += d.Transaction.TotalAmount
			cashlessCount++
		}
	}
	return cash, cashless, cashCount, cashlessCount
}

func topProduct(details []domain.TransactionDetail, products map[uint64]domain.Product) domain.TopProduct {
	qtyByProduct := make(map[uint64]int, 16)
	revenueByProduct := make(map[uint64]int64, 16)
	for _, d := range details {
		for _, item := range d.Items {
			qtyByProduct[item.ProductID] += item.Quantity
			revenueByProduct[item.ProductID] += item.TotalPrice
		}
	}

	var best domain.TopProduct
	var bestID uint64
	for id, qty := range qtyByProduct {
		if qty > best.Quantity || (qty == best.Quantity && id < bestID) {
			best = domain.TopProduct{Quantity: qty, Revenue: revenueByProduct[id]}
			bestID = id
		}
	}
	if bestID != 0 {
		if p, ok := products[bestID]; ok {
			best.Name = p.Name
		} else {
			// Product deleted after the sale; the snapshot keeps the numbers
			// but the name is gone.
			best.Name = fmt.Sprintf("product #%d", bestID)
		}
	}
	return best
}

func buildDailyStats(today []domain.TransactionDetail, products map[uint64]domain.Product) domain.DailyStats {
	cash, cashless, _, _ := splitByMethod(today)

	stats := domain.DailyStats{
		Transactions:     len(today),
		CashPayments:     cash,
		CashlessPayments: cashless,
		Sales:            cash + cashless,
		TopProduct:       topProduct(today, products),
	}

	sorted := make([]domain.TransactionDetail, len(today))
	copy(sorted, today)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Transaction.TransactionDate.After(sorted[j].Transaction.TransactionDate)
	})
	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}
	stats.Recent = make([]domain.RecentTransaction, 0, limit)
	for _, d := range sorted[:limit] {
		stats.Recent = append(stats.Recent, domain.RecentTransaction{
			ReceiptNumber: d.Transaction.ReceiptNumber,
			Time:          d.Transaction.TransactionDate,
			Amount:        d.Transaction.TotalAmount,
			Method:        methodClass(d.Transaction.PaymentMethod),
		})
	}
	return stats
}

func buildPaymentStats(today []domain.TransactionDetail) domain.PaymentStats {
	cash, cashless, cashCount, cashlessCount := splitByMethod(today)
	return domain.PaymentStats{
		CashAmount:           cash,
		CashlessAmount:       cashless,
		TotalAmount:          cash + cashless,
		CashTransactions:     cashCount,
		CashlessTransactions: cashlessCount,
		TotalTransactions:    cashCount + cashlessCount,
	}
}

// growth returns the percentage change from prev to current. A zero baseline
// reports 100% when anything was sold and 0% otherwise.
func growth(current int64, prev int64) float64 {
	if prev == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return math.Round((float64(current-prev)/float64(prev))*100*10) / 10
}

func buildMonthlyStats(month []domain.TransactionDetail, prevMonth []domain.TransactionDetail, products map[uint64]domain.Product, at time.Time) domain.MonthlyStats {
	cash, cashless, _, _ := splitByMethod(month)
	prevCash, prevCashless, _, _ := splitByMethod(prevMonth)

	stats := domain.MonthlyStats{
		Sales:             cash + cashless,
		Transactions:      len(month),
		CashPayments:      cash,
		CashlessPayments:  cashless,
		TopProduct:        topProduct(month, products),
		SalesGrowth:       growth(cash+cashless, prevCash+prevCashless),
		TransactionGrowth: growth(int64(len(month)), int64(len(prevMonth))),
	}

	salesByDate := make(map[string]int64, 31)
	countByDate := make(map[string]int, 31)
	countByHour := make(map[int]int, 24)
	for _, d := range month {
		ts := d.Transaction.TransactionDate.In(at.Location())
		date := ts.Format("2006-01-02")
		salesByDate[date] += d.Transaction.TotalAmount
		countByDate[date]++
		countByHour[ts.Hour()]++
	}

	dates := make([]string, 0, len(salesByDate))
	for date := range salesByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	stats.DailyBreakdown = make([]domain.DailyBreakdown, 0, len(dates))
	for _, date := range dates {
		stats.DailyBreakdown = append(stats.DailyBreakdown, domain.DailyBreakdown{
			Date:         date,
			Sales:        salesByDate[date],
			Transactions: countByDate[date],
		})
	}

	hours := make([]int, 0, len(countByHour))
	for hour := range countByHour {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if countByHour[hours[i]] == countByHour[hours[j]] {
			return hours[i] < hours[j]
		}
		return countByHour[hours[i]] > countByHour[hours[j]]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}
	stats.PeakHours = make([]domain.PeakHour, 0, len(hours))
	for _, hour := range hours {
		pct := 0.0
		if len(month) > 0 {
			pct = math.Round(float64(countByHour[hour])/float64(len(month))*100*10) / 10
		}
		stats.PeakHours = append(stats.PeakHours, domain.PeakHour{
			Hour:         fmt.Sprintf("%02d:00", hour),
			Transactions: countByHour[hour],
			Percentage:   pct,
		})
	}
	return stats
}
