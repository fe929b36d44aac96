package auth

import (
	"context"

	"evently/internal/api"
)

// Service wraps the authentication and profile endpoints
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, changes map[string]any) (Profile, error)
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) error
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp, "Login failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	payload := registerPayload{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
	}

	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/register", payload, &resp, "Registration failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) GetProfile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := s.client.Get(ctx, "/users/profile", nil, &profile, "Failed to fetch profile"); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, changes map[string]any) (Profile, error) {
	var profile Profile
	if err := s.client.Put(ctx, "/users/profile", changes, &profile, "Profile update failed"); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *service) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	return s.client.Put(ctx, "/users/change-password", req, nil, "Password change failed")
}
