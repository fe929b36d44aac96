package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"evently/internal/shared/constants"
	"evently/internal/shared/validation"
	"evently/internal/storage"
	"evently/pkg/logger"
)

var ErrMissingProfile = errors.New("response carried no user profile")

// Store owns the signed-in identity. It restores from storage on start,
// persists on login and register, and forgets on logout or a 401.
type Store struct {
	service Service
	storage storage.Store
	logger  *logger.Logger
	now     func() time.Time

	mu      sync.RWMutex
	profile Profile
	loading bool
	err     string
}

// NewStore returns a store in the loading state; call Restore to leave it
func NewStore(service Service, store storage.Store, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		service: service,
		storage: store,
		logger:  log,
		now:     time.Now,
		loading: true,
	}
}

// Restore loads the persisted session. The token is not checked against the
// backend; a stale token is discovered by the first 401.
func (s *Store) Restore(ctx context.Context) error {
	defer s.setLoading(false)

	token, err := s.readToken(ctx)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	if token == "" {
		return nil
	}
	s.inspect(ctx, token)

	raw, ok, err := s.storage.Get(ctx, constants.STORAGE_KEY_USER)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	if !ok || raw == "" {
		raw = "{}"
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.WarnContext(ctx, "Discarding unreadable stored session", "error", err.Error())
		if rmErr := s.storage.Remove(ctx, constants.SessionStorageKeys...); rmErr != nil {
			return fmt.Errorf("clearing unreadable session: %w", rmErr)
		}
		return nil
	}

	fields, isObject := decoded.(map[string]any)
	if !isObject || Profile(fields).Email() == "" {
		return nil
	}

	normalized := NormalizeProfile(Profile(fields))
	if err := s.persistProfile(ctx, normalized); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist normalized profile", "error", err.Error())
	}

	s.mu.Lock()
	s.profile = normalized
	s.mu.Unlock()
	return nil
}

func (s *Store) readToken(ctx context.Context) (string, error) {
	for _, key := range []string{constants.STORAGE_KEY_ACCESS_TOKEN, constants.STORAGE_KEY_LEGACY_TOKEN} {
		v, ok, err := s.storage.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}

// inspect warns about a token that has already expired
func (s *Store) inspect(ctx context.Context, token string) {
	claims, err := InspectToken(token)
	if err != nil {
		s.logger.DebugContext(ctx, "Stored token is not a readable JWT", "error", err.Error())
		return
	}
	if claims.Expired(s.now()) {
		s.logger.WarnContext(ctx, "Stored access token has expired", "expired_at", claims.ExpiresAt.Time)
	}
}

// Login signs in with email and password
func (s *Store) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	s.setError("")

	req := &LoginRequest{Email: email, Password: password}
	if err := validation.Struct(req); err != nil {
		return nil, s.fail(err)
	}

	resp, err := s.service.Login(ctx, req)
	if err != nil {
		s.logger.LogLoginFailure(ctx, email, err.Error())
		return nil, s.fail(err)
	}
	if err := s.establish(ctx, resp); err != nil {
		return nil, s.fail(err)
	}
	s.logger.LogLogin(ctx, email, s.Role())
	return resp, nil
}

// Register creates an account and signs in with it
func (s *Store) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.setError("")

	if req.Role != "" {
		req.Role = NormalizeRole(req.Role)
	}
	if err := validation.Struct(req); err != nil {
		return nil, s.fail(err)
	}

	resp, err := s.service.Register(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.establish(ctx, resp); err != nil {
		return nil, s.fail(err)
	}
	s.logger.LogLogin(ctx, req.Email, s.Role())
	return resp, nil
}

// establish persists the token and normalized profile, then sets the user
func (s *Store) establish(ctx context.Context, resp *AuthResponse) error {
	if resp.AccessToken == "" || resp.User == nil {
		return ErrMissingProfile
	}

	normalized := NormalizeProfile(resp.User)
	if err := s.storage.Set(ctx, constants.STORAGE_KEY_ACCESS_TOKEN, resp.AccessToken); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	if err := s.persistProfile(ctx, normalized); err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = normalized
	s.mu.Unlock()
	return nil
}

func (s *Store) persistProfile(ctx context.Context, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.storage.Set(ctx, constants.STORAGE_KEY_USER, string(data)); err != nil {
		return fmt.Errorf("persisting profile: %w", err)
	}
	return nil
}

// Logout forgets the session locally. The backend is not called.
func (s *Store) Logout(ctx context.Context) error {
	email := s.Email()

	s.mu.Lock()
	s.profile = nil
	s.err = ""
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, constants.SessionStorageKeys...); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.logger.LogLogout(ctx, email)
	return nil
}

// UpdateProfile sends changed profile fields and keeps the returned profile
func (s *Store) UpdateProfile(ctx context.Context, changes map[string]any) (*UserProfile, error) {
	s.setError("")

	profile, err := s.service.UpdateProfile(ctx, changes)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.replaceProfile(ctx, profile)
}

// RefreshProfile reloads the profile from the backend
func (s *Store) RefreshProfile(ctx context.Context) (*UserProfile, error) {
	s.setError("")

	profile, err := s.service.GetProfile(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.replaceProfile(ctx, profile)
}

func (s *Store) replaceProfile(ctx context.Context, profile Profile) (*UserProfile, error) {
	if profile == nil {
		return nil, s.fail(ErrMissingProfile)
	}
	normalized := NormalizeProfile(profile)
	if err := s.persistProfile(ctx, normalized); err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.profile = normalized
	s.mu.Unlock()

	s.logger.WithUserEmail(normalized.Email()).InfoContext(ctx, "Profile updated")
	return normalized.Typed(), nil
}

// ChangePassword changes the signed-in user's password
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	s.setError("")

	req := &ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := validation.Struct(req); err != nil {
		return s.fail(err)
	}
	if err := s.service.ChangePassword(ctx, req); err != nil {
		s.logger.WithUserEmail(s.Email()).WarnContext(ctx, "Password change failed", "error", err.Error())
		return s.fail(err)
	}
	s.logger.WithUserEmail(s.Email()).InfoContext(ctx, "Password changed")
	return nil
}

// Reset drops the in-memory user. The API gateway calls it after a 401,
// once it has already removed the persisted keys.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Session{Loading: s.loading, Error: s.err}
	if s.profile != nil {
		snap.User = s.profile.Typed()
	}
	return snap
}

// User returns the signed-in user, or nil
func (s *Store) User() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	return s.profile.Typed()
}

// Profile returns a copy of the raw normalized profile
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

// IsAuthenticated reports whether a user is signed in
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil
}

// Role returns the normalized role, or "" when absent or not a string
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Role()
}

// Email returns the signed-in user's email, or ""
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Email()
}

// Loading is true until Restore has returned
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the message of the last failed operation
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
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
