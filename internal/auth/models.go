package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Role values issued by the backend
const (
	RoleAttendee  = "ATTENDEE"
	RoleOrganizer = "ORGANIZER"
	RoleStaff     = "STAFF"
	RoleAdmin     = "ADMIN"
)

// IsValidRole checks the role against the known set, ignoring case
func IsValidRole(role string) bool {
	switch strings.ToUpper(role) {
	case RoleAttendee, RoleOrganizer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserProfile is the typed view of the signed-in user
type UserProfile struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role,omitempty"`
}

// FullName joins first and last name
func (u *UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile is the user object exactly as the backend sent it, after role
// normalization. Unknown fields survive persistence round-trips.
type Profile map[string]any

// Email returns the email field when it is a non-empty string
func (p Profile) Email() string {
	s, _ := p["email"].(string)
	return s
}

// Role returns the normalized role when it is a string
func (p Profile) Role() string {
	s, _ := p["role"].(string)
	return s
}

// Typed decodes the profile into a UserProfile. Ids may arrive as numbers.
func (p Profile) Typed() *UserProfile {
	u := &UserProfile{
		FirstName:   stringField(p, "firstName"),
		LastName:    stringField(p, "lastName"),
		Email:       p.Email(),
		PhoneNumber: stringField(p, "phoneNumber"),
		Role:        p.Role(),
	}
	switch id := p["id"].(type) {
	case string:
		u.ID = id
	case float64:
		u.ID = fmt.Sprintf("%.0f", id)
	case json.Number:
		u.ID = id.String()
	}
	return u
}

func stringField(p Profile, key string) string {
	s, _ := p[key].(string)
	return s
}

// Clone returns a shallow copy
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Session is a point-in-time copy of the session state
type Session struct {
	User    *UserProfile `json:"user"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
}

// IsAuthenticated reports whether a user is present
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

// JWTClaims are the claims read from the access token. The signature is
// never checked on the client.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
