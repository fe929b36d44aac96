package views

import (
	"evently/internal/analytics"
	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/tickets"
)

// checkout request from the event page
type CheckoutRequest struct {
	TicketTypeID string `json:"ticketTypeId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=1"`
	Currency     string `json:"currency,omitempty"`
}

// refund request from the holder
type RefundRequest struct {
	Reason string `json:"reason"`
}

// change password form
type PasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// home page data
type HomeView struct {
	Featured []events.Event `json:"featured"`
	Upcoming []events.Event `json:"upcoming"`
}

// dashboard data; organizer fields are set for organizers only
type DashboardView struct {
	User     *auth.UserProfile   `json:"user"`
	Tickets  []tickets.Ticket    `json:"tickets"`
	Overview *analytics.Overview `json:"overview,omitempty"`
}

// organizer sales page data
type SalesView struct {
	Overview *analytics.Overview    `json:"overview"`
	Sales    []analytics.DailySales `json:"sales"`
	Events   []events.Event         `json:"events"`
}

// create-event outcome when a step fails
type WizardFailure struct {
	Step   string `json:"step"`
	Fields any    `json:"fields"`
}
