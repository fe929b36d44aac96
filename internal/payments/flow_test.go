package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/api"
	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/shared/validation"
	"evently/internal/storage"
)

const sandboxSecret = "test_secret"

type fakeIdentity struct {
	user *auth.UserProfile
}

func (f fakeIdentity) IsAuthenticated() bool   { return f.user != nil }
func (f fakeIdentity) User() *auth.UserProfile { return f.user }

var signedIn = fakeIdentity{user: &auth.UserProfile{
	ID:          "u1",
	FirstName:   "Ana",
	LastName:    "Rao",
	Email:       "ana@example.com",
	PhoneNumber: "9999999999",
	Role:        auth.RoleAttendee,
}}

// countingWidget wraps another widget and counts Load calls
type countingWidget struct {
	Widget
	loads    atomic.Int32
	failLoad atomic.Bool
	dismiss  bool
}

func (w *countingWidget) Load(ctx context.Context) error {
	w.loads.Add(1)
	if w.failLoad.Load() {
		return errors.New("script blocked")
	}
	return w.Widget.Load(ctx)
}

func (w *countingWidget) Open(ctx context.Context, order *Order, b Buyer) (*Authorization, error) {
	if w.dismiss {
		return nil, ErrDismissed
	}
	return w.Widget.Open(ctx, order, b)
}

func testEvent() *events.Event {
	return &events.Event{
		ID:   "e1",
		Name: "Jazz Night",
		TicketTypes: []events.TicketType{
			{ID: "tt1", Name: "GA", Price: decimal.NewFromInt(499), AvailableQuantity: 3},
		},
	}
}

type backend struct {
	calls      atomic.Int32
	orderFails bool
	verified   VerifyRequest
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/payments/create-order", func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		if b.orderFails {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Not enough tickets available"}`)
			return
		}
		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "INR", req.Currency)
		_ = json.NewEncoder(w).Encode(Order{OrderID: "order_1", Amount: int64(req.Quantity) * 49900, Currency: "INR", Key: "rzp_test"})
	})
	mux.HandleFunc("POST /api/payments/verify", func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b.verified))
		want := Sign(sandboxSecret, b.verified.RazorpayOrderID, b.verified.RazorpayPaymentID)
		if b.verified.RazorpaySignature != want {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Signature mismatch")
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		http.NotFound(w, r)
	})
	return mux
}

func newFlow(t *testing.T, b *backend, widget Widget, identity Identity) *Flow {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)
	client := api.New(api.Config{BaseURL: srv.URL + "/api"}, storage.NewMemory())
	return NewFlow(NewService(client), widget, identity, "", nil)
}

func TestFlow_PurchaseVerifiesWithSignedAuthorization(t *testing.T) {
	b := &backend{}
	flow := newFlow(t, b, NewSandboxWidget(sandboxSecret), signedIn)

	receipt, err := flow.Purchase(context.Background(), PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, "order_1", receipt.OrderID)
	assert.True(t, strings.HasPrefix(receipt.PaymentID, "pay_"))
	assert.Equal(t, "998", receipt.Amount.String())
	assert.Equal(t, "order_1", b.verified.RazorpayOrderID)
	assert.Equal(t, "e1", b.verified.EventID)
	assert.Equal(t, 2, b.verified.Quantity)
	assert.Equal(t, "Ana Rao", b.verified.AttendeeName)
	assert.Equal(t, "ana@example.com", b.verified.AttendeeEmail)
	assert.Equal(t, "9999999999", b.verified.AttendeePhone)
}

func TestFlow_PreconditionsNeverReachNetwork(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		req      PurchaseRequest
		field    string
	}{
		{"signed out", fakeIdentity{}, PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 1}, "session"},
		{"no ticket type", signedIn, PurchaseRequest{Event: testEvent(), Quantity: 1}, "ticketTypeId"},
		{"unknown ticket type", signedIn, PurchaseRequest{Event: testEvent(), TicketTypeID: "nope", Quantity: 1}, "ticketTypeId"},
		{"zero quantity", signedIn, PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 0}, "quantity"},
		{"above available", signedIn, PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 4}, "quantity"},
		{"no event", signedIn, PurchaseRequest{TicketTypeID: "tt1", Quantity: 1}, "eventId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &backend{}
			widget := &countingWidget{Widget: NewSandboxWidget(sandboxSecret)}
			flow := newFlow(t, b, widget, tt.identity)

			_, err := flow.Purchase(context.Background(), tt.req)

			var ve *validation.Error
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
			assert.Zero(t, b.calls.Load())
			assert.Zero(t, widget.loads.Load())
		})
	}
}

func TestFlow_WidgetLoadsOnceAndRetriesAfterFailure(t *testing.T) {
	b := &backend{}
	widget := &countingWidget{Widget: NewSandboxWidget(sandboxSecret)}
	flow := newFlow(t, b, widget, signedIn)
	req := PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 1}
	ctx := context.Background()

	widget.failLoad.Store(true)
	_, err := flow.Purchase(ctx, req)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	widget.failLoad.Store(false)
	_, err = flow.Purchase(ctx, req)
	require.NoError(t, err)
	_, err = flow.Purchase(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int32(2), widget.loads.Load())
}

func TestFlow_StageErrors(t *testing.T) {
	req := PurchaseRequest{Event: testEvent(), TicketTypeID: "tt1", Quantity: 1}
	ctx := context.Background()

	t.Run("order", func(t *testing.T) {
		flow := newFlow(t, &backend{orderFails: true}, NewSandboxWidget(sandboxSecret), signedIn)
		_, err := flow.Purchase(ctx, req)
		assert.ErrorIs(t, err, ErrOrderFailed)
		assert.Contains(t, err.Error(), "Not enough tickets available")
		assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))
	})

	t.Run("dismissed", func(t *testing.T) {
		widget := &countingWidget{Widget: NewSandboxWidget(sandboxSecret), dismiss: true}
		flow := newFlow(t, &backend{}, widget, signedIn)
		_, err := flow.Purchase(ctx, req)
		assert.ErrorIs(t, err, ErrPaymentCancelled)
		assert.NotErrorIs(t, err, ErrVerificationFailed)
	})

	t.Run("verify", func(t *testing.T) {
		flow := newFlow(t, &backend{}, NewSandboxWidget("wrong_secret"), signedIn)
		_, err := flow.Purchase(ctx, req)
		assert.ErrorIs(t, err, ErrVerificationFailed)

		var step *StepError
		require.ErrorAs(t, err, &step)
		assert.Equal(t, "verify", step.Stage)
	})
}

func TestOrder_MajorAmount(t *testing.T) {
	o := Order{Amount: 49950}
	assert.Equal(t, "499.50", o.MajorAmount().StringFixed(2))
}
