package tickets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/api"
	"evently/internal/shared/validation"
	"evently/internal/storage"
)

func newBackendStore(t *testing.T, mux *http.ServeMux) *Store {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := api.New(api.Config{BaseURL: srv.URL + "/api"}, storage.NewMemory())
	return NewStore(NewService(client), nil)
}

func ticketIDs(list []Ticket) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestStore_PurchasePrependsIssuedTickets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "page=1&size=5", r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"content":[{"id":"t0","status":"USED"}],"totalElements":1,"totalPages":1}`)
	})
	mux.HandleFunc("POST /api/tickets/purchase", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["quantity"])
		assert.Equal(t, "ana@example.com", body["attendeeEmail"])
		_, _ = io.WriteString(w, `[{"id":"t1","status":"ACTIVE","price":499},{"id":"t2","status":"ACTIVE","price":499}]`)
	})
	store := newBackendStore(t, mux)
	ctx := context.Background()

	page, err := store.FetchMine(ctx, ListParams{Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)

	issued, err := store.Purchase(ctx, PurchaseRequest{
		EventID:       "e1",
		TicketTypeID:  "tt1",
		Quantity:      2,
		AttendeeName:  "Ana",
		AttendeeEmail: "ana@example.com",
	})
	require.NoError(t, err)

	assert.Len(t, issued, 2)
	assert.Equal(t, "499", issued[0].Price.String())
	assert.Equal(t, []string{"t1", "t2", "t0"}, ticketIDs(store.Tickets()))
	assert.False(t, store.Loading())
}

func TestStore_PurchaseValidatesFirst(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	store := newBackendStore(t, mux)

	_, err := store.Purchase(context.Background(), PurchaseRequest{EventID: "e1", Quantity: 0, AttendeeEmail: "nope"})

	require.True(t, validation.Is(err))
	assert.Zero(t, calls.Load())
	assert.NotEmpty(t, store.Error())
}

func TestStore_RefundFlowReloadsTicket(t *testing.T) {
	var refunded atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"t1","status":"ACTIVE"},{"id":"t2","status":"ACTIVE"}]`)
	})
	mux.HandleFunc("GET /api/tickets/refund-requests", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"t1","status":"ACTIVE","refundRequested":true}]`)
	})
	mux.HandleFunc("POST /api/tickets/t1/refund-request", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cannot attend", body["reason"])
	})
	mux.HandleFunc("POST /api/tickets/t1/refund-process", func(w http.ResponseWriter, r *http.Request) {
		refunded.Store(true)
	})
	mux.HandleFunc("GET /api/tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		if refunded.Load() {
			_, _ = io.WriteString(w, `{"id":"t1","status":"REFUNDED","refundAmount":"499.00"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"t1","status":"ACTIVE","refundRequested":true,"refundReason":"cannot attend"}`)
	})
	store := newBackendStore(t, mux)
	ctx := context.Background()

	_, err := store.FetchMine(ctx, ListParams{})
	require.NoError(t, err)

	ticket, err := store.RequestRefund(ctx, "t1", "cannot attend")
	require.NoError(t, err)
	assert.Equal(t, "REFUND_REQUESTED", ticket.DisplayStatus())
	assert.False(t, ticket.CanRequestRefund())
	assert.True(t, store.Tickets()[0].RefundRequested)

	_, err = store.FetchRefundRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ticketIDs(store.RefundRequests()))

	ticket, err = store.ProcessRefund(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, ticket.Status)
	assert.True(t, ticket.RefundAmount.Valid)
	assert.Equal(t, StatusRefunded, store.Tickets()[0].Status)
	assert.Equal(t, StatusActive, store.Tickets()[1].Status)
	assert.Empty(t, store.RefundRequests())
}

func TestStore_ProcessRefundForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tickets/t1/refund-process", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	store := newBackendStore(t, mux)

	_, err := store.ProcessRefund(context.Background(), "t1")

	assert.EqualError(t, err, "Failed to process refund")
	assert.Equal(t, http.StatusForbidden, api.StatusOf(err))
	assert.Equal(t, "Failed to process refund", store.Error())
}

func TestStore_ValidateTicket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tickets/validate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		valid := body["ticketNumber"] == "TKT-1"
		msg := "Invalid ticket"
		if valid {
			msg = "Ticket validated successfully"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"valid": valid, "message": msg})
	})
	store := newBackendStore(t, mux)
	ctx := context.Background()

	result, err := store.Validate(ctx, ValidateRequest{TicketNumber: "TKT-1", ValidatedBy: "staff@example.com"})
	require.NoError(t, err)
	assert.Equal(t, &ValidationResult{Valid: true, Message: "Ticket validated successfully"}, result)

	result, err = store.Validate(ctx, ValidateRequest{TicketNumber: "TKT-9", ValidatedBy: "staff@example.com"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    ValidateRequest
		fields []string
	}{
		{"by number", ValidateRequest{TicketNumber: "TKT-1", ValidatedBy: "s"}, nil},
		{"by qr", ValidateRequest{QRCode: "QR", ValidatedBy: "s"}, nil},
		{"neither", ValidateRequest{ValidatedBy: "s"}, []string{"ticketNumber"}},
		{"both", ValidateRequest{TicketNumber: "a", QRCode: "b", ValidatedBy: "s"}, []string{"qrCode"}},
		{"no validator", ValidateRequest{TicketNumber: "a"}, []string{"validatedBy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *validation.Error
			require.ErrorAs(t, err, &ve)
			var got []string
			for _, f := range ve.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestStore_EventListsAndQRCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets/event/e1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"a"},{"id":"b"}]`)
	})
	mux.HandleFunc("GET /api/tickets/event/e1/used", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"b","status":"USED"}]`)
	})
	mux.HandleFunc("GET /api/tickets/a/qr", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"qrCode":"QR-a"}`)
	})
	mux.HandleFunc("GET /api/tickets/expired", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"boom"}`)
	})
	store := newBackendStore(t, mux)
	ctx := context.Background()

	_, err := store.FetchByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ticketIDs(store.EventTickets()))

	_, err = store.FetchUsedByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ticketIDs(store.EventTickets()))

	code, err := store.QRCode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "QR-a", code)

	_, err = store.FetchExpired(ctx)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, "boom", store.Error())
}
