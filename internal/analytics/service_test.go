package analytics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/api"
	"evently/internal/storage"
	"evently/pkg/cache"
)

func newBackend(t *testing.T, hits *atomic.Int32) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics/organizer/overview", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"totalEvents":4,"activeEvents":2,"ticketsSold":130,"revenue":64870.5}`)
	})
	mux.HandleFunc("GET /api/analytics/event/e1", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `{"eventId":"e1","sold":4,"used":1,"refunded":0,"revenue":120.5}`)
	})
	mux.HandleFunc("GET /api/analytics/organizer/sales-by-date", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = io.WriteString(w, `[{"date":"2026-05-01","totalSales":100.25},{"date":"2026-05-02","totalSales":0.75}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.New(api.Config{BaseURL: srv.URL + "/api"}, storage.NewMemory())
}

func TestService_Overview(t *testing.T) {
	var hits atomic.Int32
	svc := NewService(newBackend(t, &hits))

	overview, err := svc.OrganizerOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, overview.TotalEvents)
	assert.Equal(t, 130, overview.TicketsSold)
	assert.True(t, overview.Revenue.Equal(decimal.RequireFromString("64870.5")))
}

func TestService_SalesByDate(t *testing.T) {
	var hits atomic.Int32
	svc := NewService(newBackend(t, &hits))

	sales, err := svc.SalesByDate(context.Background(), 7)
	require.NoError(t, err)

	assert.Len(t, sales, 2)
	assert.Equal(t, "101", SalesTotal(sales).String())
}

func TestService_EventMetricsCachedPerUser(t *testing.T) {
	var hits atomic.Int32
	db, mock := redismock.NewClientMock()
	svc := NewService(newBackend(t, &hits), WithCache(cache.NewService(db), time.Minute, func() string { return "org@example.com" }))
	ctx := context.Background()

	key := "evently:client:analytics:org@example.com:event:e1"
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte(`{"eventId":"e1","sold":4,"used":1,"refunded":0,"revenue":"120.5"}`), time.Minute).SetVal("OK")
	mock.ExpectGet(key).SetVal(`{"eventId":"e1","sold":4,"used":1,"refunded":0,"revenue":"120.5"}`)

	first, err := svc.EventMetrics(ctx, "e1")
	require.NoError(t, err)
	second, err := svc.EventMetrics(ctx, "e1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Sold, second.Sold)
	assert.Equal(t, "0.25", second.CheckInRate().String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_EventMetricsWithoutUserSkipsCache(t *testing.T) {
	var hits atomic.Int32
	db, mock := redismock.NewClientMock()
	svc := NewService(newBackend(t, &hits), WithCache(cache.NewService(db), time.Minute, func() string { return "" }))

	_, err := svc.EventMetrics(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventMetrics_CheckInRateNoSales(t *testing.T) {
	m := EventMetrics{}
	assert.True(t, m.CheckInRate().IsZero())
}
