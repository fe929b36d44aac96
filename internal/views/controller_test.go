package views

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/app"
	"evently/internal/shared/config"
	"evently/internal/shared/constants"
	"evently/internal/storage"
	"evently/pkg/logger"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

// newShell wires an App against backend and mounts the view routes.
// user, when set, is persisted as the signed-in profile before restore.
func newShell(t *testing.T, backend http.Handler, user string) (*gin.Engine, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		Payment: config.PaymentConfig{Currency: "INR", SandboxSecret: "s"},
	}
	a, err := app.New(ctx, cfg, app.Options{Logger: logger.Discard(), Storage: mem})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	engine := gin.New()
	SetupViewRoutes(engine.Group(""), a.Session, NewController(a))
	return engine, a
}

func serve(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

const (
	organizer = `{"id":7,"email":"org@example.com","firstName":"Olga","role":"organizer"}`
	attendee  = `{"id":8,"email":"ann@example.com","role":"ATTENDEE"}`
)

func TestController_Login(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"accessToken":"jwt","user":{"id":1,"email":"a@example.com","userRole":"staff"}}`)
	})
	engine, a := newShell(t, mux, "")

	t.Run("success", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/session/login", `{"email":"a@example.com","password":"secret"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var session struct {
			User struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &session))
		assert.Equal(t, "a@example.com", session.User.Email)
		assert.Equal(t, "STAFF", session.User.Role)
		assert.Equal(t, "STAFF", a.Session.Role())
	})

	t.Run("validation runs before the backend", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/session/login", `{"email":"nope","password":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", env.Message)
		assert.Contains(t, string(env.Errors), `"field":"email"`)
	})
}

func TestController_Guards(t *testing.T) {
	mux := http.NewServeMux()

	t.Run("anonymous is sent to login", func(t *testing.T) {
		engine, _ := newShell(t, mux, "")
		rec, _ := serve(t, engine, http.MethodGet, "/views/dashboard", "")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?from=%2Fviews%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("attendee is sent home from organizer views", func(t *testing.T) {
		engine, _ := newShell(t, mux, attendee)
		rec, _ := serve(t, engine, http.MethodGet, "/views/organizer/sales", "")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("resolve reports the decision", func(t *testing.T) {
		engine, _ := newShell(t, mux, attendee)

		_, env := serve(t, engine, http.MethodGet, "/views/resolve?path=/create-event", "")
		assert.Equal(t, "redirect_home", env.Message)

		rec, _ := serve(t, engine, http.MethodGet, "/views/resolve?path=/nowhere", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestController_Home(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/public/featured", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"f1","name":"Featured"}]`)
	})
	mux.HandleFunc("GET /api/events/public/upcoming", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content":[{"id":"u1","name":"Soon"},{"id":"u2","name":"Later"}],"totalElements":2}`)
	})
	engine, _ := newShell(t, mux, "")

	rec, env := serve(t, engine, http.MethodGet, "/views/home", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view HomeView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Featured, 1)
	assert.Equal(t, "f1", view.Featured[0].ID)
	assert.Len(t, view.Upcoming, 2)
}

func TestController_BackendErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/public/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Event not found"}`)
	})
	mux.HandleFunc("GET /api/events/public/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	engine, _ := newShell(t, mux, "")

	rec, env := serve(t, engine, http.MethodGet, "/views/events/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Event not found", env.Message)

	rec, env = serve(t, engine, http.MethodGet, "/views/events/broken", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch event", env.Message)
}

func TestController_CreateEvent(t *testing.T) {
	var created int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		created++
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"e9","name":"Gig","status":"DRAFT"}`)
	})
	engine, _ := newShell(t, mux, organizer)

	t.Run("failing step is reported", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/views/create-event", `{"name":"Gig","description":"Live"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var failure WizardFailure
		require.NoError(t, json.Unmarshal(env.Errors, &failure))
		assert.Equal(t, "schedule", failure.Step)
		assert.Zero(t, created)
	})

	t.Run("complete form creates the event", func(t *testing.T) {
		form := `{
			"name":"Gig","description":"Live",
			"eventDate":"2030-05-01T20:00","venue":"Hall","address":"1 Main St",
			"city":"Pune","state":"MH","country":"India",
			"ticketTypes":[{"name":"GA","price":"499","totalQuantity":"100"}]
		}`
		rec, env := serve(t, engine, http.MethodPost, "/views/create-event", form)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, string(env.Data), `"id":"e9"`)
		assert.Equal(t, 1, created)
	})
}

func TestController_ValidateTicket(t *testing.T) {
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tickets/validate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"valid":true,"message":"Ticket validated"}`)
	})
	engine, _ := newShell(t, mux, organizer)

	rec, env := serve(t, engine, http.MethodPost, "/views/validate-tickets", `{"ticketNumber":"TKT-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ticket validated", env.Message)
	assert.Equal(t, "TKT-1", got["ticketNumber"])
	assert.Equal(t, "org@example.com", got["validatedBy"])
}

func TestController_Checkout(t *testing.T) {
	var eventFetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/public/e1", func(w http.ResponseWriter, r *http.Request) {
		eventFetches.Add(1)
		_, _ = io.WriteString(w, `{"id":"e1","name":"Gig","ticketTypes":[{"id":"tt1","name":"GA","price":499,"availableQuantity":5}]}`)
	})
	engine, _ := newShell(t, mux, attendee)

	t.Run("zero quantity", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/views/events/e1/checkout", `{"ticketTypeId":"tt1","quantity":0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(env.Errors), `"field":"quantity"`)
	})

	t.Run("missing ticket type", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/views/events/e1/checkout", `{"quantity":2}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(env.Errors), `"field":"ticketTypeId"`)
	})

	assert.Zero(t, eventFetches.Load(), "preconditions are checked before the event is loaded")

	t.Run("quantity over availability needs the event", func(t *testing.T) {
		rec, env := serve(t, engine, http.MethodPost, "/views/events/e1/checkout", `{"ticketTypeId":"tt1","quantity":9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(env.Errors), `must not exceed the 5 available`)
		assert.Equal(t, int32(1), eventFetches.Load())
	})
}
