package analytics

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"evently/internal/api"
	"evently/internal/shared/constants"
	"evently/pkg/cache"
)

// Service defines the organizer analytics calls
type Service interface {
	OrganizerOverview(ctx context.Context) (*Overview, error)
	EventMetrics(ctx context.Context, eventID string) (*EventMetrics, error)
	SalesByDate(ctx context.Context, days int) ([]DailySales, error)
}

// service implements the Service interface
type service struct {
	client       *api.Client
	cacheService cache.Service
	cacheTTL     time.Duration
	scope        func() string
}

// Option configures the service
type Option func(*service)

// WithCache caches event metrics for ttl. scope names the signed-in user so
// one organizer never reads another's cached numbers.
func WithCache(cacheService cache.Service, ttl time.Duration, scope func() string) Option {
	return func(s *service) {
		s.cacheService = cacheService
		s.cacheTTL = ttl
		s.scope = scope
	}
}

// NewService creates a new analytics service instance
func NewService(client *api.Client, opts ...Option) Service {
	s := &service{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) OrganizerOverview(ctx context.Context) (*Overview, error) {
	var overview Overview
	if err := s.client.Get(ctx, "/analytics/organizer/overview", nil, &overview, "Failed to fetch analytics overview"); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *service) EventMetrics(ctx context.Context, eventID string) (*EventMetrics, error) {
	fetch := func() (*EventMetrics, error) {
		var metrics EventMetrics
		if err := s.client.Get(ctx, "/analytics/event/"+url.PathEscape(eventID), nil, &metrics, "Failed to fetch event metrics"); err != nil {
			return nil, err
		}
		return &metrics, nil
	}

	if s.cacheService == nil || s.scope == nil || s.scope() == "" {
		return fetch()
	}

	// Try to get from cache first
	cacheKey := constants.BuildAnalyticsKey(s.scope(), "event:"+eventID)
	var cached EventMetrics
	if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	metrics, err := fetch()
	if err != nil {
		return nil, err
	}

	// Cache the result
	_ = s.cacheService.Set(ctx, cacheKey, metrics, s.cacheTTL)
	return metrics, nil
}

func (s *service) SalesByDate(ctx context.Context, days int) ([]DailySales, error) {
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}
	sales := []DailySales{}
	if err := s.client.Get(ctx, "/analytics/organizer/sales-by-date", query, &sales, "Failed to fetch sales"); err != nil {
		return nil, err
	}
	return sales, nil
}
