package constants

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// ServiceName and ServiceVersion are reported by the banner endpoint.
const (
	ServiceName    = "Waitlist API"
	ServiceVersion = "2.1.0"
)

// Per-endpoint admission limits, per client IP per minute.
const (
	BannerRequestsPerMinute        = 30
	HealthRequestsPerMinute        = 60
	RegistrationRequestsPerMinute  = 5
	CountRequestsPerMinute         = 20
	RecentListingRequestsPerMinute = 10
)

// Recent listing bounds.
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)
