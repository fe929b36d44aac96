package events

import (
	"context"
	"net/url"

	"evently/internal/api"
)

type Page = api.Page[Event]

// Service wraps the event endpoints
type Service interface {
	List(ctx context.Context, params ListParams) (*Page, error)
	Featured(ctx context.Context) ([]Event, error)
	Upcoming(ctx context.Context, params ListParams) (*Page, error)
	Search(ctx context.Context, query string, params ListParams) (*Page, error)
	ByCategory(ctx context.Context, category string, params ListParams) (*Page, error)
	ByCity(ctx context.Context, city string, params ListParams) (*Page, error)
	Organizer(ctx context.Context, params ListParams) (*Page, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, req *EventRequest) (*Event, error)
	Update(ctx context.Context, id string, req *EventRequest) (*Event, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) (*Event, error)
	Cancel(ctx context.Context, id string) (*Event, error)
	ToggleFeatured(ctx context.Context, id string) (*Event, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) list(ctx context.Context, path string, query url.Values, fallback string) (*Page, error) {
	var page Page
	if err := s.client.Get(ctx, path, query, &page, fallback); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*Page, error) {
	return s.list(ctx, "/events/public", params.Values(), "Failed to fetch events")
}

func (s *service) Featured(ctx context.Context) ([]Event, error) {
	page, err := s.list(ctx, "/events/public/featured", nil, "Failed to fetch featured events")
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

func (s *service) Upcoming(ctx context.Context, params ListParams) (*Page, error) {
	return s.list(ctx, "/events/public/upcoming", params.Values(), "Failed to fetch upcoming events")
}

func (s *service) Search(ctx context.Context, query string, params ListParams) (*Page, error) {
	q := params.Values()
	q.Set("query", query)
	return s.list(ctx, "/events/public/search", q, "Failed to search events")
}

func (s *service) ByCategory(ctx context.Context, category string, params ListParams) (*Page, error) {
	return s.list(ctx, "/events/public/category/"+url.PathEscape(category), params.Values(), "Failed to fetch events by category")
}

func (s *service) ByCity(ctx context.Context, city string, params ListParams) (*Page, error) {
	return s.list(ctx, "/events/public/city/"+url.PathEscape(city), params.Values(), "Failed to fetch events by city")
}

func (s *service) Organizer(ctx context.Context, params ListParams) (*Page, error) {
	return s.list(ctx, "/events/organizer", params.Values(), "Failed to fetch organizer events")
}

func (s *service) Get(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := s.client.Get(ctx, "/events/public/"+url.PathEscape(id), nil, &event, "Failed to fetch event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) Create(ctx context.Context, req *EventRequest) (*Event, error) {
	var event Event
	if err := s.client.Post(ctx, "/events", req, &event, "Failed to create event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) Update(ctx context.Context, id string, req *EventRequest) (*Event, error) {
	var event Event
	if err := s.client.Put(ctx, "/events/"+url.PathEscape(id), req, &event, "Failed to update event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/events/"+url.PathEscape(id), "Failed to delete event")
}

func (s *service) transition(ctx context.Context, id, action, fallback string) (*Event, error) {
	var event Event
	if err := s.client.Post(ctx, "/events/"+url.PathEscape(id)+"/"+action, nil, &event, fallback); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) Publish(ctx context.Context, id string) (*Event, error) {
	return s.transition(ctx, id, "publish", "Failed to publish event")
}

func (s *service) Cancel(ctx context.Context, id string) (*Event, error) {
	return s.transition(ctx, id, "cancel", "Failed to cancel event")
}

func (s *service) ToggleFeatured(ctx context.Context, id string) (*Event, error) {
	return s.transition(ctx, id, "feature", "Failed to toggle featured status")
}
