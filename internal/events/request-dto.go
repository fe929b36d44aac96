package events

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"evently/internal/shared/validation"
)

// event form as typed by the user; every field is raw text
type EventForm struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	EventDate   string           `json:"eventDate"`
	EndDate     string           `json:"endDate"`
	Venue       string           `json:"venue"`
	Address     string           `json:"address"`
	City        string           `json:"city"`
	State       string           `json:"state"`
	Country     string           `json:"country"`
	PostalCode  string           `json:"postalCode"`
	EventImage  string           `json:"eventImage"`
	Category    string           `json:"category"`
	Tags        string           `json:"tags"`
	TicketTypes []TicketTypeForm `json:"ticketTypes"`
	Settings    *Settings        `json:"settings,omitempty"`
}

// ticket type row of the event form
type TicketTypeForm struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	TotalQuantity string `json:"totalQuantity"`
	SaleStartDate string `json:"saleStartDate"`
	SaleEndDate   string `json:"saleEndDate"`
}

// create/update event request body
type EventRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	EventDate   string              `json:"eventDate,omitempty"`
	EndDate     string              `json:"endDate,omitempty"`
	Venue       string              `json:"venue,omitempty"`
	Address     string              `json:"address,omitempty"`
	City        string              `json:"city,omitempty"`
	State       string              `json:"state,omitempty"`
	Country     string              `json:"country,omitempty"`
	PostalCode  string              `json:"postalCode,omitempty"`
	EventImage  string              `json:"eventImage,omitempty"`
	Category    string              `json:"category,omitempty"`
	Tags        []string            `json:"tags"`
	TicketTypes []TicketTypeRequest `json:"ticketTypes"`
	Settings    *Settings           `json:"settings,omitempty"`
}

// ticket type request body; price and quantity go out as JSON numbers
type TicketTypeRequest struct {
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Price         json.Number `json:"price"`
	TotalQuantity int         `json:"totalQuantity"`
	SaleStartDate string      `json:"saleStartDate,omitempty"`
	SaleEndDate   string      `json:"saleEndDate,omitempty"`
}

// ToRequest shapes the form for the backend: tags are split on commas and
// numeric strings become numbers. Anything else is left for the backend to
// judge.
func (f EventForm) ToRequest() (*EventRequest, error) {
	verr := &validation.Error{}

	req := &EventRequest{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		EventDate:   strings.TrimSpace(f.EventDate),
		EndDate:     strings.TrimSpace(f.EndDate),
		Venue:       strings.TrimSpace(f.Venue),
		Address:     strings.TrimSpace(f.Address),
		City:        strings.TrimSpace(f.City),
		State:       strings.TrimSpace(f.State),
		Country:     strings.TrimSpace(f.Country),
		PostalCode:  strings.TrimSpace(f.PostalCode),
		EventImage:  strings.TrimSpace(f.EventImage),
		Category:    strings.TrimSpace(f.Category),
		Tags:        SplitTags(f.Tags),
		TicketTypes: make([]TicketTypeRequest, 0, len(f.TicketTypes)),
		Settings:    f.Settings,
	}

	for i, tt := range f.TicketTypes {
		field := fmt.Sprintf("ticketTypes[%d]", i)

		price, err := ParsePrice(tt.Price)
		if err != nil {
			verr.Add(field+".price", err.Error())
		}
		quantity, err := ParseQuantity(tt.TotalQuantity)
		if err != nil {
			verr.Add(field+".totalQuantity", err.Error())
		}

		req.TicketTypes = append(req.TicketTypes, TicketTypeRequest{
			Name:          strings.TrimSpace(tt.Name),
			Description:   strings.TrimSpace(tt.Description),
			Price:         json.Number(price.String()),
			TotalQuantity: quantity,
			SaleStartDate: strings.TrimSpace(tt.SaleStartDate),
			SaleEndDate:   strings.TrimSpace(tt.SaleEndDate),
		})
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return req, nil
}

// SplitTags turns "a, b,,c " into [a b c]
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParsePrice parses a decimal price string
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("must be a number")
	}
	return d, nil
}

// ParseQuantity parses a whole-number quantity string
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("must be a whole number")
	}
	return n, nil
}

// paging and filter parameters for list endpoints
type ListParams struct {
	Page int
	Size int
}

// Values encodes the parameters as a query string
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	return v
}
