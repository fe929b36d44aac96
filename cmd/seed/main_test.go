package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/app"
	"evently/internal/shared/config"
	"evently/internal/storage"
	"evently/pkg/logger"
)

func TestSeeder_SeedAll(t *testing.T) {
	var created, published, featured atomic.Int32
	var firstBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		n := created.Add(1)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if n == 1 {
			firstBody = body
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": fmt.Sprintf("e%d", n), "name": body["name"], "status": "DRAFT"})
	})
	mux.HandleFunc("POST /api/events/{id}/publish", func(w http.ResponseWriter, r *http.Request) {
		published.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": r.PathValue("id"), "status": "PUBLISHED"})
	})
	mux.HandleFunc("POST /api/events/{id}/feature", func(w http.ResponseWriter, r *http.Request) {
		featured.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": r.PathValue("id"), "featured": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.Config{
		API:     config.APIConfig{URL: srv.URL, Prefix: "/api"},
		Session: config.SessionConfig{Store: config.SessionStoreMemory},
		Payment: config.PaymentConfig{SandboxSecret: "s"},
	}
	a, err := app.New(context.Background(), cfg, app.Options{Logger: logger.Discard(), Storage: storage.NewMemory()})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	seeder := &Seeder{app: a, out: out, now: func() time.Time {
		return time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	}}

	ids, err := seeder.SeedAll(context.Background(), true, 2)
	require.NoError(t, err)

	assert.Len(t, ids, len(seedEvents))
	assert.Equal(t, int32(len(seedEvents)), created.Load())
	assert.Equal(t, int32(len(seedEvents)), published.Load())
	assert.Equal(t, int32(2), featured.Load())
	assert.Contains(t, out.String(), "Published: Tech Conference")

	assert.Equal(t, "2030-01-31T19:00", firstBody["eventDate"])
	assert.Equal(t, []any{"Technology", "Business"}, firstBody["tags"])
	vip := firstBody["ticketTypes"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3000), vip["price"])
	assert.Equal(t, float64(50), vip["totalQuantity"])
}
