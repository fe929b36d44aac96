package constants

import (
	"fmt"
	"time"
)

// Session storage keys
// These names are shared with earlier releases of the client, so they must not change.
const (
	STORAGE_KEY_ACCESS_TOKEN = "accessToken"
	STORAGE_KEY_USER         = "user"

	// Legacy token key, read as a fallback and removed on logout, never written
	STORAGE_KEY_LEGACY_TOKEN = "token"
)

// SessionStorageKeys lists every key cleared on logout or forced sign-out
var SessionStorageKeys = []string{
	STORAGE_KEY_ACCESS_TOKEN,
	STORAGE_KEY_LEGACY_TOKEN,
	STORAGE_KEY_USER,
}

// ================== REDIS KEY PREFIXES ==================
// Pattern: evently:{component}:{kind}:{identifier}

const (
	CACHE_PREFIX = "evently"

	CACHE_KEY_SESSION   = CACHE_PREFIX + ":client:session:"   // + namespace:key
	CACHE_KEY_RATELIMIT = CACHE_PREFIX + ":shell:ratelimit"   // + :type:ip
	CACHE_KEY_VIEWS     = CACHE_PREFIX + ":shell:views:"      // + view name
	CACHE_KEY_ANALYTICS = CACHE_PREFIX + ":client:analytics:" // + user:metric
)

// View cache TTLs
const (
	TTL_VIEW_HOME = 2 * time.Minute
)

// BuildSessionKey returns the Redis key of a persisted session entry
func BuildSessionKey(namespace, key string) string {
	return fmt.Sprintf("%s%s:%s", CACHE_KEY_SESSION, namespace, key)
}

// BuildRateLimitKey returns the Redis key of a rate limit window
func BuildRateLimitKey(limitType, ip string) string {
	return fmt.Sprintf("%s:%s:%s", CACHE_KEY_RATELIMIT, limitType, ip)
}

// BuildViewKey returns the Redis key of a cached public view
func BuildViewKey(view string) string {
	return CACHE_KEY_VIEWS + view
}

// BuildAnalyticsKey returns the Redis key of a cached metric for one user
func BuildAnalyticsKey(user, metric string) string {
	return fmt.Sprintf("%s%s:%s", CACHE_KEY_ANALYTICS, user, metric)
}
