package payments

import (
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "INR"

// order request body
type CreateOrderRequest struct {
	EventID      string `json:"eventId"`
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
	Currency     string `json:"currency"`
}

// Order is the gateway order the backend created for a checkout
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// MajorAmount converts Amount from paise/cents to the display amount
func (o *Order) MajorAmount() decimal.Decimal {
	return decimal.New(o.Amount, -2)
}

// Buyer is the contact the widget is prefilled with
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Authorization is the widget's proof of a successful payment
type Authorization struct {
	OrderID   string
	PaymentID string
	Signature string
}

// verification request body
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
	EventID           string `json:"eventId"`
	TicketTypeID      string `json:"ticketTypeId"`
	Quantity          int    `json:"quantity"`
	AttendeeName      string `json:"attendeeName"`
	AttendeeEmail     string `json:"attendeeEmail"`
	AttendeePhone     string `json:"attendeePhone,omitempty"`
}

// Receipt describes a verified checkout. Tickets are issued by the backend
// and show up on the next ticket list fetch.
type Receipt struct {
	OrderID      string          `json:"orderId"`
	PaymentID    string          `json:"paymentId"`
	EventID      string          `json:"eventId"`
	TicketTypeID string          `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}
