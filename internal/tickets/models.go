package tickets

import (
	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID                string              `json:"id"`
	TicketNumber      string              `json:"ticketNumber"`
	EventID           string              `json:"eventId"`
	EventName         string              `json:"eventName,omitempty"`
	EventDate         string              `json:"eventDate,omitempty"`
	EventVenue        string              `json:"eventVenue,omitempty"`
	TicketTypeID      string              `json:"ticketTypeId"`
	TicketTypeName    string              `json:"ticketTypeName,omitempty"`
	Price             decimal.Decimal     `json:"price"`
	AttendeeID        string              `json:"attendeeId,omitempty"`
	AttendeeName      string              `json:"attendeeName,omitempty"`
	AttendeeEmail     string              `json:"attendeeEmail,omitempty"`
	AttendeePhone     string              `json:"attendeePhone,omitempty"`
	QRCode            string              `json:"qrCode,omitempty"`
	Status            Status              `json:"status"`
	PurchaseDate      string              `json:"purchaseDate,omitempty"`
	ValidatedAt       string              `json:"validatedAt,omitempty"`
	ValidatedBy       string              `json:"validatedBy,omitempty"`
	PaymentID         string              `json:"paymentId,omitempty"`
	PaymentMethod     string              `json:"paymentMethod,omitempty"`
	PaymentStatus     PaymentStatus       `json:"paymentStatus,omitempty"`
	RefundRequested   bool                `json:"refundRequested"`
	RefundRequestedAt string              `json:"refundRequestedAt,omitempty"`
	RefundedAt        string              `json:"refundedAt,omitempty"`
	RefundAmount      decimal.NullDecimal `json:"refundAmount"`
	RefundReason      string              `json:"refundReason,omitempty"`
}

// CanRequestRefund reports whether the holder may still ask for a refund
func (t *Ticket) CanRequestRefund() bool {
	return t.Status == StatusActive && !t.RefundRequested
}

// DisplayStatus is the status shown to a holder, with a pending refund
// reported on its own
func (t *Ticket) DisplayStatus() string {
	if t.Status == StatusActive && t.RefundRequested {
		return "REFUND_REQUESTED"
	}
	return t.Status.String()
}
