package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist     = "token:blacklist:"
	RedisKeyUnreadNotification = "notification:unread:"
)

// TokenBlacklistDefaultTTL bounds blacklist entries for tokens that carry no
// expiry claim.
const TokenBlacklistDefaultTTL = 24 * time.Hour

// Background task types and queues
const (
	TaskCompleteElapsedMeetings = "meeting:complete_elapsed"
	TaskDispatchNotification    = "notification:dispatch"

	QueueScheduler     = "scheduler"
	QueueNotifications = "notifications"

	DefaultSweepIntervalMinutes = 5
	DefaultWorkerConcurrency    = 10
)

// Meeting time format used for start_time / end_time columns
const MeetingTimeLayout = "15:04"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"
