package tickets

import (
	"context"
	"sync"

	"evently/internal/shared/validation"
	"evently/pkg/logger"
)

// collection is one list the store keeps, with the generation of the latest
// fetch issued for it
type collection struct {
	items []Ticket
	gen   uint64
}

// Store keeps the ticket lists a session has loaded: the holder's own
// tickets, the tickets of the event an organizer is looking at, and pending
// refund requests. Tickets are never edited locally. Purchases are prepended
// and transitions are replaced by id with the backend's copy.
type Store struct {
	service Service
	logger  *logger.Logger

	mu       sync.RWMutex
	mine     collection
	event    collection
	refunds  collection
	inflight int
	err      string
}

func NewStore(service Service, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		service: service,
		logger:  log,
		mine:    collection{items: []Ticket{}},
		event:   collection{items: []Ticket{}},
		refunds: collection{items: []Ticket{}},
	}
}

// Tickets returns a copy of the holder's tickets
func (s *Store) Tickets() []Ticket {
	return s.snapshot(&s.mine)
}

// EventTickets returns a copy of the last loaded event ticket list
func (s *Store) EventTickets() []Ticket {
	return s.snapshot(&s.event)
}

// RefundRequests returns a copy of the pending refund requests
func (s *Store) RefundRequests() []Ticket {
	return s.snapshot(&s.refunds)
}

func (s *Store) snapshot(c *collection) []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Ticket(nil), c.items...)
}

// Loading reports whether a request is in flight
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

// FetchMine loads the signed-in holder's tickets
func (s *Store) FetchMine(ctx context.Context, params ListParams) (*Page, error) {
	var page *Page
	err := s.fetch(ctx, &s.mine, func(ctx context.Context) ([]Ticket, error) {
		p, err := s.service.Mine(ctx, params)
		if err != nil {
			return nil, err
		}
		page = p
		return p.Items(), nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FetchByEvent loads every ticket sold for an event
func (s *Store) FetchByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.fetchEvent(ctx, eventID, s.service.ByEvent)
}

// FetchActiveByEvent loads the event's unused tickets
func (s *Store) FetchActiveByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.fetchEvent(ctx, eventID, s.service.ActiveByEvent)
}

// FetchUsedByEvent loads the event's checked-in tickets
func (s *Store) FetchUsedByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.fetchEvent(ctx, eventID, s.service.UsedByEvent)
}

func (s *Store) fetchEvent(ctx context.Context, eventID string, call func(context.Context, string) ([]Ticket, error)) ([]Ticket, error) {
	var list []Ticket
	err := s.fetch(ctx, &s.event, func(ctx context.Context) ([]Ticket, error) {
		var err error
		list, err = call(ctx, eventID)
		return list, err
	})
	return list, err
}

// FetchRefundRequests loads tickets whose holders asked for a refund
func (s *Store) FetchRefundRequests(ctx context.Context) ([]Ticket, error) {
	var list []Ticket
	err := s.fetch(ctx, &s.refunds, func(ctx context.Context) ([]Ticket, error) {
		var err error
		list, err = s.service.RefundRequests(ctx)
		return list, err
	})
	return list, err
}

// fetch replaces c with the result unless a newer fetch of c was started
// meanwhile. A stale error is returned to the caller but not recorded.
func (s *Store) fetch(ctx context.Context, c *collection, load func(context.Context) ([]Ticket, error)) error {
	s.mu.Lock()
	c.gen++
	gen := c.gen
	s.err = ""
	s.inflight++
	s.mu.Unlock()

	items, err := load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	current := gen == c.gen
	if err != nil {
		if current {
			s.err = err.Error()
		}
		return err
	}
	if current {
		c.items = append([]Ticket{}, items...)
	} else {
		s.logger.DebugContext(ctx, "Dropping stale ticket list response", "generation", gen, "latest", c.gen)
	}
	return nil
}

// FetchExpired loads expired tickets. The result is not kept.
func (s *Store) FetchExpired(ctx context.Context) ([]Ticket, error) {
	s.begin()
	defer s.end()
	list, err := s.service.Expired(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return list, nil
}

// Get loads one ticket
func (s *Store) Get(ctx context.Context, id string) (*Ticket, error) {
	s.setError("")
	ticket, err := s.service.Get(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return ticket, nil
}

// GetByNumber loads one ticket by its printed number
func (s *Store) GetByNumber(ctx context.Context, number string) (*Ticket, error) {
	s.setError("")
	ticket, err := s.service.GetByNumber(ctx, number)
	if err != nil {
		return nil, s.fail(err)
	}
	return ticket, nil
}

// Purchase buys tickets directly and puts the issued tickets first in the
// holder's list
func (s *Store) Purchase(ctx context.Context, req PurchaseRequest) ([]Ticket, error) {
	s.begin()
	defer s.end()

	if err := validation.Struct(req); err != nil {
		return nil, s.fail(err)
	}
	issued, err := s.service.Purchase(ctx, &req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.mine.items = append(append([]Ticket{}, issued...), s.mine.items...)
	s.mu.Unlock()

	s.logger.InfoWithContext(ctx, "Tickets Purchased", map[string]interface{}{
		"event_id": req.EventID,
		"quantity": len(issued),
	})
	return issued, nil
}

// Validate checks a ticket in at the door
func (s *Store) Validate(ctx context.Context, req ValidateRequest) (*ValidationResult, error) {
	s.begin()
	defer s.end()

	if err := req.Validate(); err != nil {
		return nil, s.fail(err)
	}
	result, err := s.service.Validate(ctx, &req)
	if err != nil {
		return nil, s.fail(err)
	}
	return result, nil
}

// RequestRefund asks for a refund and reloads the ticket
func (s *Store) RequestRefund(ctx context.Context, id, reason string) (*Ticket, error) {
	s.begin()
	defer s.end()

	if err := s.service.RequestRefund(ctx, id, reason); err != nil {
		return nil, s.fail(err)
	}
	ticket, err := s.service.Get(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	replaceByID(s.mine.items, id, *ticket)
	replaceByID(s.event.items, id, *ticket)
	return ticket, nil
}

// ProcessRefund refunds a requested ticket, reloads it and drops it from the
// pending requests
func (s *Store) ProcessRefund(ctx context.Context, id string) (*Ticket, error) {
	s.begin()
	defer s.end()

	if err := s.service.ProcessRefund(ctx, id); err != nil {
		return nil, s.fail(err)
	}
	ticket, err := s.service.Get(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	replaceByID(s.mine.items, id, *ticket)
	replaceByID(s.event.items, id, *ticket)
	s.refunds.items = removeByID(s.refunds.items, id)
	return ticket, nil
}

// QRCode fetches the ticket's QR payload
func (s *Store) QRCode(ctx context.Context, id string) (string, error) {
	s.setError("")
	code, err := s.service.QRCode(ctx, id)
	if err != nil {
		return "", s.fail(err)
	}
	return code, nil
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

func replaceByID(list []Ticket, id string, ticket Ticket) {
	for i := range list {
		if list[i].ID == id {
			list[i] = ticket
		}
	}
}

func removeByID(list []Ticket, id string) []Ticket {
	out := list[:0:0]
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
