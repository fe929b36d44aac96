package payments

import (
	"context"

	"evently/internal/api"
)

// Service wraps the payment endpoints
type Service interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	Verify(ctx context.Context, req *VerifyRequest) error
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	var order Order
	if err := s.client.Post(ctx, "/payments/create-order", req, &order, "Failed to create payment order"); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *service) Verify(ctx context.Context, req *VerifyRequest) error {
	return s.client.Post(ctx, "/payments/verify", req, nil, "Payment verification failed")
}
