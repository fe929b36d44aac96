package tickets

import (
	"context"
	"net/url"

	"evently/internal/api"
)

type Page = api.Page[Ticket]

// Service wraps the ticket endpoints
type Service interface {
	Purchase(ctx context.Context, req *PurchaseRequest) ([]Ticket, error)
	Mine(ctx context.Context, params ListParams) (*Page, error)
	Get(ctx context.Context, id string) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	ByEvent(ctx context.Context, eventID string) ([]Ticket, error)
	ActiveByEvent(ctx context.Context, eventID string) ([]Ticket, error)
	UsedByEvent(ctx context.Context, eventID string) ([]Ticket, error)
	Validate(ctx context.Context, req *ValidateRequest) (*ValidationResult, error)
	RequestRefund(ctx context.Context, id, reason string) error
	ProcessRefund(ctx context.Context, id string) error
	RefundRequests(ctx context.Context) ([]Ticket, error)
	Expired(ctx context.Context) ([]Ticket, error)
	QRCode(ctx context.Context, id string) (string, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) Purchase(ctx context.Context, req *PurchaseRequest) ([]Ticket, error) {
	var issued []Ticket
	if err := s.client.Post(ctx, "/tickets/purchase", req, &issued, "Failed to purchase tickets"); err != nil {
		return nil, err
	}
	return issued, nil
}

func (s *service) Mine(ctx context.Context, params ListParams) (*Page, error) {
	var page Page
	if err := s.client.Get(ctx, "/tickets", params.Values(), &page, "Failed to fetch user tickets"); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) get(ctx context.Context, path, fallback string) (*Ticket, error) {
	var ticket Ticket
	if err := s.client.Get(ctx, path, nil, &ticket, fallback); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *service) Get(ctx context.Context, id string) (*Ticket, error) {
	return s.get(ctx, "/tickets/"+url.PathEscape(id), "Failed to fetch ticket")
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Ticket, error) {
	return s.get(ctx, "/tickets/number/"+url.PathEscape(number), "Failed to fetch ticket")
}

func (s *service) list(ctx context.Context, path, fallback string) ([]Ticket, error) {
	list := []Ticket{}
	if err := s.client.Get(ctx, path, nil, &list, fallback); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) ByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.list(ctx, "/tickets/event/"+url.PathEscape(eventID), "Failed to fetch event tickets")
}

func (s *service) ActiveByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.list(ctx, "/tickets/event/"+url.PathEscape(eventID)+"/active", "Failed to fetch active tickets")
}

func (s *service) UsedByEvent(ctx context.Context, eventID string) ([]Ticket, error) {
	return s.list(ctx, "/tickets/event/"+url.PathEscape(eventID)+"/used", "Failed to fetch used tickets")
}

func (s *service) Validate(ctx context.Context, req *ValidateRequest) (*ValidationResult, error) {
	var result ValidationResult
	if err := s.client.Post(ctx, "/tickets/validate", req, &result, "Failed to validate ticket"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) RequestRefund(ctx context.Context, id, reason string) error {
	return s.client.Post(ctx, "/tickets/"+url.PathEscape(id)+"/refund-request", refundRequest{Reason: reason}, nil, "Failed to request refund")
}

func (s *service) ProcessRefund(ctx context.Context, id string) error {
	return s.client.Post(ctx, "/tickets/"+url.PathEscape(id)+"/refund-process", nil, nil, "Failed to process refund")
}

func (s *service) RefundRequests(ctx context.Context) ([]Ticket, error) {
	return s.list(ctx, "/tickets/refund-requests", "Failed to fetch refund requests")
}

func (s *service) Expired(ctx context.Context) ([]Ticket, error) {
	return s.list(ctx, "/tickets/expired", "Failed to fetch expired tickets")
}

func (s *service) QRCode(ctx context.Context, id string) (string, error) {
	var resp qrResponse
	if err := s.client.Get(ctx, "/tickets/"+url.PathEscape(id)+"/qr", nil, &resp, "Failed to generate QR code"); err != nil {
		return "", err
	}
	return resp.QRCode, nil
}
