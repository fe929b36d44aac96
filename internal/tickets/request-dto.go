package tickets

import (
	"net/url"
	"strconv"
	"strings"

	"evently/internal/shared/validation"
)

// direct ticket purchase request
type PurchaseRequest struct {
	EventID         string `json:"eventId" validate:"required"`
	TicketTypeID    string `json:"ticketTypeId" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
	AttendeeName    string `json:"attendeeName" validate:"required"`
	AttendeeEmail   string `json:"attendeeEmail" validate:"required,email"`
	AttendeePhone   string `json:"attendeePhone,omitempty"`
	AttendeeAddress string `json:"attendeeAddress,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	CouponCode      string `json:"couponCode,omitempty"`
}

// entry check request; exactly one of ticket number and QR code is set
type ValidateRequest struct {
	TicketNumber string `json:"ticketNumber,omitempty"`
	QRCode       string `json:"qrCode,omitempty"`
	ValidatedBy  string `json:"validatedBy"`
}

// Validate checks the request before it is sent
func (r ValidateRequest) Validate() error {
	verr := &validation.Error{}
	number, qr := strings.TrimSpace(r.TicketNumber), strings.TrimSpace(r.QRCode)
	switch {
	case number == "" && qr == "":
		verr.Add("ticketNumber", "or qrCode is required")
	case number != "" && qr != "":
		verr.Add("qrCode", "must be empty when ticketNumber is given")
	}
	if strings.TrimSpace(r.ValidatedBy) == "" {
		verr.Add("validatedBy", "is required")
	}
	return verr.Err()
}

// entry check response
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// refund request body
type refundRequest struct {
	Reason string `json:"reason"`
}

// QR code response
type qrResponse struct {
	QRCode string `json:"qrCode"`
}

// paging parameters for the holder's ticket list
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
