package constants

import "time"

// Context keys used by middleware and handlers.
const (
	ContextKeyCurrentUser = "current_user"
)

// Session policy defaults.
const (
	DefaultSessionLifetime = 4 * time.Hour
	SessionTokenBytes      = 32
)

// Media policy defaults.
const (
	DefaultMaxPhotoBytes = 200 * 1024
	DefaultMaxVideoBytes = 100 * 1024 * 1024
)
