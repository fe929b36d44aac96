package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/shared/validation"
	"evently/pkg/logger"
)

// Widget is the third-party checkout the buyer pays in
type Widget interface {
	// Load prepares the widget. Flow calls it until it succeeds once.
	Load(ctx context.Context) error
	// Open shows the order to the buyer and blocks until they pay or leave.
	// Leaving returns ErrDismissed.
	Open(ctx context.Context, order *Order, buyer Buyer) (*Authorization, error)
}

// Identity is the signed-in user a checkout is made for
type Identity interface {
	IsAuthenticated() bool
	User() *auth.UserProfile
}

// PurchaseRequest is what the buyer picked on the event page
type PurchaseRequest struct {
	Event        *events.Event
	TicketTypeID string
	Quantity     int
	Currency     string
}

// Flow runs a checkout: order, widget, verification
type Flow struct {
	service  Service
	widget   Widget
	identity Identity
	logger   *logger.Logger
	currency string

	loadMu sync.Mutex
	loaded bool
}

func NewFlow(service Service, widget Widget, identity Identity, currency string, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Discard()
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Flow{
		service:  service,
		widget:   widget,
		identity: identity,
		logger:   log,
		currency: currency,
	}
}

// Purchase runs one checkout. Nothing is retried. A failure at a stage
// returns a *StepError matching that stage's sentinel.
func (f *Flow) Purchase(ctx context.Context, req PurchaseRequest) (*Receipt, error) {
	buyer, err := f.check(req)
	if err != nil {
		return nil, err
	}
	eventID := req.Event.ID

	currency := req.Currency
	if currency == "" {
		currency = f.currency
	}
	order, err := f.service.CreateOrder(ctx, &CreateOrderRequest{
		EventID:      eventID,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		Currency:     currency,
	})
	if err != nil {
		return nil, f.failed(ctx, "order", ErrOrderFailed, eventID, err)
	}

	if err := f.load(ctx); err != nil {
		return nil, f.failed(ctx, "load", ErrGatewayUnavailable, eventID, err)
	}

	authz, err := f.widget.Open(ctx, order, buyer)
	if err != nil {
		if errors.Is(err, ErrDismissed) {
			return nil, f.failed(ctx, "widget", ErrPaymentCancelled, eventID, nil)
		}
		return nil, f.failed(ctx, "widget", ErrGatewayUnavailable, eventID, err)
	}
	if authz.OrderID == "" {
		authz.OrderID = order.OrderID
	}

	err = f.service.Verify(ctx, &VerifyRequest{
		RazorpayOrderID:   authz.OrderID,
		RazorpayPaymentID: authz.PaymentID,
		RazorpaySignature: authz.Signature,
		EventID:           eventID,
		TicketTypeID:      req.TicketTypeID,
		Quantity:          req.Quantity,
		AttendeeName:      buyer.Name,
		AttendeeEmail:     buyer.Email,
		AttendeePhone:     buyer.Phone,
	})
	if err != nil {
		return nil, f.failed(ctx, "verify", ErrVerificationFailed, eventID, err)
	}

	f.logger.LogCheckout(ctx, order.OrderID, eventID, req.Quantity)
	return &Receipt{
		OrderID:      order.OrderID,
		PaymentID:    authz.PaymentID,
		EventID:      eventID,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		Amount:       order.MajorAmount(),
		Currency:     order.Currency,
	}, nil
}

// check validates the purchase without touching the network
func (f *Flow) check(req PurchaseRequest) (Buyer, error) {
	verr := &validation.Error{}

	var user *auth.UserProfile
	if f.identity != nil && f.identity.IsAuthenticated() {
		user = f.identity.User()
	}
	if user == nil {
		verr.Add("session", "must be signed in to buy tickets")
	}

	switch {
	case req.Event == nil || req.Event.ID == "":
		verr.Add("eventId", "is required")
	case strings.TrimSpace(req.TicketTypeID) == "":
		verr.Add("ticketTypeId", "is required")
	default:
		tt, ok := req.Event.TicketType(req.TicketTypeID)
		switch {
		case !ok:
			verr.Add("ticketTypeId", "is not offered for this event")
		case req.Quantity > tt.AvailableQuantity:
			verr.Add("quantity", fmt.Sprintf("must not exceed the %d available", tt.AvailableQuantity))
		}
	}
	if req.Quantity < 1 {
		verr.Add("quantity", "must be at least 1")
	}

	if err := verr.Err(); err != nil {
		return Buyer{}, err
	}
	return Buyer{Name: user.FullName(), Email: user.Email, Phone: user.PhoneNumber}, nil
}

// load loads the widget once. A failed load is not remembered.
func (f *Flow) load(ctx context.Context) error {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()
	if f.loaded {
		return nil
	}
	if err := f.widget.Load(ctx); err != nil {
		return err
	}
	f.loaded = true
	return nil
}

func (f *Flow) failed(ctx context.Context, stage string, kind error, eventID string, err error) error {
	stepErr := &StepError{Stage: stage, Kind: kind, Err: err}
	f.logger.LogCheckoutFailure(ctx, stage, eventID, stepErr)
	return stepErr
}
