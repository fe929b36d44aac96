package events

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LocalDateTimeLayouts are the formats the backend and forms use for
// zone-less timestamps
var LocalDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// ParseLocalDateTime parses a zone-less timestamp
func ParseLocalDateTime(s string) (time.Time, error) {
	for _, layout := range LocalDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DDTHH:MM", s)
}

type Event struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	OrganizerID   string          `json:"organizerId,omitempty"`
	OrganizerName string          `json:"organizerName,omitempty"`
	EventDate     string          `json:"eventDate,omitempty"`
	EndDate       string          `json:"endDate,omitempty"`
	Venue         string          `json:"venue,omitempty"`
	Address       string          `json:"address,omitempty"`
	City          string          `json:"city,omitempty"`
	State         string          `json:"state,omitempty"`
	Country       string          `json:"country,omitempty"`
	PostalCode    string          `json:"postalCode,omitempty"`
	EventImage    string          `json:"eventImage,omitempty"`
	Category      string          `json:"category,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Status        Status          `json:"status,omitempty"`
	Published     bool            `json:"published"`
	Featured      bool            `json:"featured"`
	TicketTypes   []TicketType    `json:"ticketTypes,omitempty"`
	Settings      *Settings       `json:"settings,omitempty"`
	Analytics     *EventAnalytics `json:"analytics,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
	PublishedAt   string          `json:"publishedAt,omitempty"`
}

// TicketType finds a ticket type by id
func (e *Event) TicketType(id string) (*TicketType, bool) {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].ID == id {
			return &e.TicketTypes[i], true
		}
	}
	return nil, false
}

// StartsAt parses EventDate
func (e *Event) StartsAt() (time.Time, error) {
	return ParseLocalDateTime(e.EventDate)
}

// LowestPrice returns the cheapest ticket price
func (e *Event) LowestPrice() (decimal.Decimal, bool) {
	if len(e.TicketTypes) == 0 {
		return decimal.Zero, false
	}
	lowest := e.TicketTypes[0].Price
	for _, tt := range e.TicketTypes[1:] {
		if tt.Price.LessThan(lowest) {
			lowest = tt.Price
		}
	}
	return lowest, true
}

type TicketType struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	TotalQuantity     int             `json:"totalQuantity"`
	SoldQuantity      int             `json:"soldQuantity"`
	AvailableQuantity int             `json:"availableQuantity"`
	Active            bool            `json:"active"`
	SaleStartDate     string          `json:"saleStartDate,omitempty"`
	SaleEndDate       string          `json:"saleEndDate,omitempty"`
	Benefits          []string        `json:"benefits,omitempty"`
}

// Settings are the organizer's per-event options
type Settings struct {
	AllowWaitlist           bool `json:"allowWaitlist"`
	RequireApproval         bool `json:"requireApproval"`
	AllowRefunds            bool `json:"allowRefunds"`
	RefundDaysBeforeEvent   int  `json:"refundDaysBeforeEvent"`
	SendReminders           bool `json:"sendReminders"`
	ReminderDaysBeforeEvent int  `json:"reminderDaysBeforeEvent"`
	RequirePhoneNumber      bool `json:"requirePhoneNumber"`
	RequireAddress          bool `json:"requireAddress"`
}

type EventAnalytics struct {
	TotalTicketsSold  int                        `json:"totalTicketsSold"`
	TotalRevenue      decimal.Decimal            `json:"totalRevenue"`
	UniqueAttendees   int                        `json:"uniqueAttendees"`
	TicketTypeSales   map[string]int             `json:"ticketTypeSales,omitempty"`
	TicketTypeRevenue map[string]decimal.Decimal `json:"ticketTypeRevenue,omitempty"`
	LastSaleDate      string                     `json:"lastSaleDate,omitempty"`
	PageViews         int                        `json:"pageViews"`
	Shares            int                        `json:"shares"`
}
