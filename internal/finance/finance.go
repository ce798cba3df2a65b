// Package finance derives money figures from reservations. Everything here is
// pure: inputs are never modified and equal inputs give equal outputs.
package finance

import (
	"math"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Stats struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	TotalProfit  float64 `json:"totalProfit"`
	TotalPaid    float64 `json:"totalPaid"`
}

type MonthlyReport struct {
	Stats   Stats                `json:"stats"`
	Count   int                  `json:"count"`
	Matched []domain.Reservation `json:"reservations"`
}

var printer = message.NewPrinter(language.AmericanEnglish)

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Profit is sellingPrice - costPrice, each non-finite input read as 0.
func Profit(sellingPrice, costPrice float64) float64 {
	return finite(sellingPrice) - finite(costPrice)
}

// FormatCurrency renders amount as US dollars: "$1,234.56", "-$12.00".
func FormatCurrency(amount float64) string {
	amount = math.Round(finite(amount)*100) / 100
	if amount < 0 {
		return "-$" + printer.Sprintf("%.2f", -amount)
	}
	// Abs folds a rounded negative zero into "$0.00".
	return "$" + printer.Sprintf("%.2f", math.Abs(amount))
}

// Aggregate sums the financial fields of rs. Records without financial data
// count as zero; profit is accumulated record by record.
func Aggregate(rs []domain.Reservation) Stats {
	var stats Stats
	for _, r := range rs {
		selling := r.SellingPrice()
		cost := r.CostPrice()

		stats.TotalRevenue += selling
		stats.TotalCost += cost
		stats.TotalPaid += r.AmountPaid()
		stats.TotalProfit += Profit(selling, cost)
	}
	return stats
}

// MonthlyAggregate reports on reservations created in the given month (0-11)
// and year, in UTC. The creation date is used so that a month shows the sales
// made in it, not the trips taken in it.
func MonthlyAggregate(rs []domain.Reservation, month, year int) MonthlyReport {
	return report(rs, func(r domain.Reservation) (time.Time, bool) {
		return r.CreatedAt, !r.CreatedAt.IsZero()
	}, month, year)
}

// MonthlyAggregateByTravelDate reports on reservations whose travel date falls
// in the given month (0-11) and year. Records without a travel date are left out.
func MonthlyAggregateByTravelDate(rs []domain.Reservation, month, year int) MonthlyReport {
	return report(rs, domain.Reservation.TravelDate, month, year)
}

func report(rs []domain.Reservation, dateOf func(domain.Reservation) (time.Time, bool), month, year int) MonthlyReport {
	matched := make([]domain.Reservation, 0)
	for _, r := range rs {
		d, ok := dateOf(r)
		if !ok {
			continue
		}
		d = d.UTC()
		if int(d.Month())-1 == month && d.Year() == year {
			matched = append(matched, r)
		}
	}
	return MonthlyReport{
		Stats:   Aggregate(matched),
		Count:   len(matched),
		Matched: matched,
	}
}
