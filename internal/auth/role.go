package auth

import "strings"

// RoleFields is the order in which profile fields are consulted for the role.
// Backends have used each of these names; the first present one wins.
var RoleFields = []string{"role", "Role", "userRole", "user_type", "type"}

// NormalizeProfile returns a copy of raw whose "role" field holds the
// inferred role. A field is present when it is non-nil and not the empty
// string. String roles are uppercased and other values are copied unchanged.
// When no candidate is present "role" is removed. raw is never modified and
// normalizing twice gives the same result.
func NormalizeProfile(raw Profile) Profile {
	if raw == nil {
		return nil
	}

	out := raw.Clone()
	role, ok := inferRole(raw)
	if !ok {
		delete(out, "role")
		return out
	}
	if s, isString := role.(string); isString {
		role = NormalizeRole(s)
	}
	out["role"] = role
	return out
}

// NormalizeRole uppercases a role string
func NormalizeRole(role string) string {
	return strings.ToUpper(role)
}

func inferRole(raw Profile) (any, bool) {
	for _, field := range RoleFields {
		v, exists := raw[field]
		if !exists || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}
