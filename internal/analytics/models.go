package analytics

import (
	"github.com/shopspring/decimal"
)

// Overview summarizes an organizer's events
type Overview struct {
	TotalEvents  int             `json:"totalEvents"`
	ActiveEvents int             `json:"activeEvents"`
	TicketsSold  int             `json:"ticketsSold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// EventMetrics are the ticket counts of one event
type EventMetrics struct {
	EventID  string          `json:"eventId"`
	Sold     int             `json:"sold"`
	Used     int             `json:"used"`
	Refunded int             `json:"refunded"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CheckInRate is the share of sold tickets that were used
func (m *EventMetrics) CheckInRate() decimal.Decimal {
	if m.Sold == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m.Used)).Div(decimal.NewFromInt(int64(m.Sold)))
}

// DailySales is one day of the sales chart
type DailySales struct {
	Date       string          `json:"date"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

// SalesTotal sums a sales series
func SalesTotal(days []DailySales) decimal.Decimal {
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.TotalSales)
	}
	return total
}
