package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/app"
	"evently/internal/payments"
	"evently/internal/shared/config"
	"evently/internal/shared/constants"
	"evently/internal/storage"
	"evently/pkg/logger"
)

const (
	sandboxSecret = "sandbox"
	organizerUser = `{"id":7,"email":"org@example.com","role":"ORGANIZER"}`
	attendeeUser  = `{"id":8,"email":"ann@example.com","firstName":"Ann","role":"ATTENDEE"}`
)

func newTestCLI(t *testing.T, backend http.Handler, user string) (*cli, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	mem := storage.NewMemory()
	if user != "" {
		require.NoError(t, mem.Set(ctx, constants.STORAGE_KEY_ACCESS_TOKEN, "jwt"))
		require.NoError(t, mem.Set(ctx, constants.STORAGE_KEY_USER, user))
	}

	cfg := &config.Config{
		API:     config.APIConfig{URL: srv.URL, Prefix: "/api"},
		Session: config.SessionConfig{Store: config.SessionStoreMemory},
		Payment: config.PaymentConfig{Currency: "INR", SandboxSecret: sandboxSecret},
	}
	a, err := app.New(ctx, cfg, app.Options{Logger: logger.Discard(), Storage: mem})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &cli{app: a, in: strings.NewReader(""), out: out, errOut: io.Discard}, out
}

func run(c *cli, args ...string) error {
	root := newRootCommand(c)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestLoginThenWhoami(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hunter2", body["password"])
		_, _ = io.WriteString(w, `{"accessToken":"jwt","user":{"id":3,"email":"a@example.com","firstName":"Ada","lastName":"L","type":"organizer"}}`)
	})
	c, out := newTestCLI(t, mux, "")
	c.readSecret = func(prompt string) (string, error) {
		assert.Equal(t, "Password", prompt)
		return "hunter2", nil
	}

	require.NoError(t, run(c, "login", "--email", "a@example.com"))
	assert.Contains(t, out.String(), "Ada L")

	out.Reset()
	require.NoError(t, run(c, "whoami", "--json"))
	var view userView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "a@example.com", view.Email)
	assert.Equal(t, "ORGANIZER", view.Role)
	assert.Equal(t, "3", view.ID)
}

func TestWhoami_SignedOut(t *testing.T) {
	c, _ := newTestCLI(t, http.NewServeMux(), "")
	assert.EqualError(t, run(c, "whoami"), "not signed in")
}

func TestEventsList_Table(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/public", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"content":[
			{"id":"e1","name":"Jazz Night","city":"Pune","status":"PUBLISHED","ticketTypes":[{"price":499},{"price":299}]},
			{"id":"e2","name":"Quiet Film","city":"Goa","status":"PUBLISHED"}
		],"totalElements":3,"totalPages":2,"number":0,"size":2}`)
	})
	c, out := newTestCLI(t, mux, "")

	require.NoError(t, run(c, "events", "list", "--size", "2"))

	text := out.String()
	assert.Contains(t, text, "Jazz Night")
	assert.Contains(t, text, "299.00")
	assert.Contains(t, text, "page 1 of 2, 3 events")
}

func TestEventsCreate(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		_, _ = io.WriteString(w, `{"id":"e5","name":"Gig","status":"DRAFT"}`)
	})

	t.Run("requires an organizer", func(t *testing.T) {
		c, _ := newTestCLI(t, mux, attendeeUser)
		err := run(c, "events", "create", "--name", "Gig")
		assert.ErrorContains(t, err, "requires one of the roles ORGANIZER, ADMIN")
	})

	t.Run("reports the failing step", func(t *testing.T) {
		c, _ := newTestCLI(t, mux, organizerUser)
		err := run(c, "events", "create", "--name", "Gig", "--description", "Live")
		assert.ErrorContains(t, err, "schedule step")
		assert.Nil(t, created)
	})

	t.Run("creates with coerced ticket types and tags", func(t *testing.T) {
		c, out := newTestCLI(t, mux, organizerUser)
		err := run(c, "events", "create",
			"--name", "Gig", "--description", "Live",
			"--date", "2030-05-01T20:00", "--venue", "Hall", "--address", "1 Main St",
			"--city", "Pune", "--state", "MH", "--country", "India",
			"--tags", "music, live",
			"--ticket-type", "GA:499:100",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "e5")

		assert.Equal(t, []any{"music", "live"}, created["tags"])
		tt := created["ticketTypes"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(499), tt["price"])
		assert.Equal(t, float64(100), tt["totalQuantity"])
	})
}

func TestParseTicketType(t *testing.T) {
	tt, err := parseTicketType(" VIP : 1500 : 20 ")
	require.NoError(t, err)
	assert.Equal(t, "VIP", tt.Name)
	assert.Equal(t, "1500", tt.Price)
	assert.Equal(t, "20", tt.TotalQuantity)

	_, err = parseTicketType("VIP:1500")
	assert.Error(t, err)
}

func TestCheckout_Sandbox(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/public/e1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"e1","name":"Jazz Night","ticketTypes":[{"id":"tt1","name":"GA","price":499,"availableQuantity":10}]}`)
	})
	mux.HandleFunc("POST /api/payments/create-order", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"orderId":"order_9","amount":99800,"currency":"INR","key":"rzp_test"}`)
	})
	mux.HandleFunc("POST /api/payments/verify", func(w http.ResponseWriter, r *http.Request) {
		var req payments.VerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RazorpaySignature != payments.Sign(sandboxSecret, req.RazorpayOrderID, req.RazorpayPaymentID) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Signature mismatch")
		}
	})
	c, out := newTestCLI(t, mux, attendeeUser)

	require.NoError(t, run(c, "checkout", "e1", "--ticket-type", "tt1", "--quantity", "2"))

	assert.Contains(t, out.String(), "order_9")
	assert.Contains(t, out.String(), "998.00 INR")
}

func TestTicketsValidate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tickets/validate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "org@example.com", body["validatedBy"])
		_, _ = io.WriteString(w, `{"valid":false,"message":"Ticket already used"}`)
	})
	c, out := newTestCLI(t, mux, organizerUser)

	err := run(c, "tickets", "validate", "--number", "TKT-1")

	assert.EqualError(t, err, "ticket rejected")
	assert.Contains(t, out.String(), "Ticket already used")
}

func TestOrganizerSales(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics/organizer/sales-by-date", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = io.WriteString(w, `[{"date":"2030-01-01","totalSales":100.5},{"date":"2030-01-02","totalSales":49.5}]`)
	})
	c, out := newTestCLI(t, mux, organizerUser)

	require.NoError(t, run(c, "organizer", "sales", "--days", "7"))
	assert.Contains(t, out.String(), "150.00")
}

func TestSecret_ReadsPipedLines(t *testing.T) {
	c := &cli{in: strings.NewReader("first\nsecond"), errOut: io.Discard}

	got, err := c.secret("Password")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = c.secret("Confirm password")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = c.secret("Again")
	assert.Error(t, err)
}
