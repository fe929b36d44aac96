package events

import (
	"context"
	"sync"

	"evently/pkg/logger"
)

// Store keeps the event lists a session has loaded and splices the results
// of writes into them.
//
// List fetches are numbered. A response that arrives after a newer fetch was
// started is returned to its caller but not written into the list. Writes
// (create, update, delete, transitions) are applied in the order their
// responses arrive.
type Store struct {
	service Service
	logger  *logger.Logger

	mu          sync.RWMutex
	events      []Event
	featured    []Event
	inflight    int
	err         string
	listGen     uint64
	featuredGen uint64
}

func NewStore(service Service, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		service:  service,
		logger:   log,
		events:   []Event{},
		featured: []Event{},
	}
}

// Events returns a copy of the current list
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}

// Featured returns a copy of the featured list
func (s *Store) Featured() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.featured...)
}

// Loading reports whether a list fetch or write is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Error returns the message of the last failed operation
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Fetch loads the public event list
func (s *Store) Fetch(ctx context.Context, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.List(ctx, params)
	})
}

// Search replaces the list with search results
func (s *Store) Search(ctx context.Context, query string, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.Search(ctx, query, params)
	})
}

// FetchUpcoming loads upcoming published events
func (s *Store) FetchUpcoming(ctx context.Context, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.Upcoming(ctx, params)
	})
}

// FetchByCategory loads events of one category
func (s *Store) FetchByCategory(ctx context.Context, category string, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.ByCategory(ctx, category, params)
	})
}

// FetchByCity loads events in one city
func (s *Store) FetchByCity(ctx context.Context, city string, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.ByCity(ctx, city, params)
	})
}

// FetchOrganizer loads the signed-in organizer's own events
func (s *Store) FetchOrganizer(ctx context.Context, params ListParams) (*Page, error) {
	return s.fetchList(ctx, func(ctx context.Context) (*Page, error) {
		return s.service.Organizer(ctx, params)
	})
}

func (s *Store) fetchList(ctx context.Context, fetch func(context.Context) (*Page, error)) (*Page, error) {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.err = ""
	s.inflight++
	s.mu.Unlock()

	page, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	current := gen == s.listGen
	if err != nil {
		if current {
			s.err = err.Error()
		}
		return nil, err
	}
	if current {
		s.events = append([]Event{}, page.Items()...)
	} else {
		s.logger.DebugContext(ctx, "Dropping stale event list response", "generation", gen, "latest", s.listGen)
	}
	return page, nil
}

// FetchFeatured loads the featured events
func (s *Store) FetchFeatured(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	s.featuredGen++
	gen := s.featuredGen
	s.err = ""
	s.mu.Unlock()

	featured, err := s.service.Featured(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	current := gen == s.featuredGen
	if err != nil {
		if current {
			s.err = err.Error()
		}
		return nil, err
	}
	if current {
		s.featured = append([]Event{}, featured...)
	}
	return featured, nil
}

// Get loads one event. The list is left as it is.
func (s *Store) Get(ctx context.Context, id string) (*Event, error) {
	s.setError("")
	event, err := s.service.Get(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return event, nil
}

// Create shapes the form, creates the event and puts it first in the list
func (s *Store) Create(ctx context.Context, form EventForm) (*Event, error) {
	s.begin()
	defer s.end()

	req, err := form.ToRequest()
	if err != nil {
		return nil, s.fail(err)
	}
	event, err := s.service.Create(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.events = append([]Event{*event}, s.events...)
	s.mu.Unlock()

	s.logger.LogEventCreated(ctx, event.ID, event.Name)
	return event, nil
}

// Update shapes the form and replaces the event with the backend's copy
func (s *Store) Update(ctx context.Context, id string, form EventForm) (*Event, error) {
	s.begin()
	defer s.end()

	req, err := form.ToRequest()
	if err != nil {
		return nil, s.fail(err)
	}
	event, err := s.service.Update(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.replace(id, *event)
	return event, nil
}

// Delete removes the event from the backend and the list
func (s *Store) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if err := s.service.Delete(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = removeByID(s.events, id)
	s.featured = removeByID(s.featured, id)
	return nil
}

// Publish makes a draft visible
func (s *Store) Publish(ctx context.Context, id string) (*Event, error) {
	return s.transition(ctx, id, s.service.Publish)
}

// Cancel cancels the event
func (s *Store) Cancel(ctx context.Context, id string) (*Event, error) {
	return s.transition(ctx, id, s.service.Cancel)
}

// ToggleFeatured flips the featured flag and keeps the featured list in step
func (s *Store) ToggleFeatured(ctx context.Context, id string) (*Event, error) {
	event, err := s.transition(ctx, id, s.service.ToggleFeatured)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Featured {
		if !replaceByID(s.featured, id, *event) {
			s.featured = append([]Event{*event}, s.featured...)
		}
	} else {
		s.featured = removeByID(s.featured, id)
	}
	return event, nil
}

func (s *Store) transition(ctx context.Context, id string, call func(context.Context, string) (*Event, error)) (*Event, error) {
	s.setError("")
	event, err := call(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	s.replace(id, *event)
	return event, nil
}

func (s *Store) replace(id string, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaceByID(s.events, id, event)
	replaceByID(s.featured, id, event)
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	s.inflight++
}

func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

func (s *Store) fail(err error) error {
	s.setError(err.Error())
	return err
}

// replaceByID swaps every element with the id in place
func replaceByID(list []Event, id string, event Event) bool {
	found := false
	for i := range list {
		if list[i].ID == id {
			list[i] = event
			found = true
		}
	}
	return found
}

// removeByID returns list without elements carrying id
func removeByID(list []Event, id string) []Event {
	out := list[:0:0]
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
