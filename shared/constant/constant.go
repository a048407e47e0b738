// Package constant holds names shared across layers: context keys, request
// parameters, headers, span scopes and cache prefixes.
package constant

import "time"

const (
	Empty   = ""
	Asterix = "*"

	// ContextGuest is stamped into created_by for anonymous writes.
	ContextGuest = "guest"

	ServerEnvDevelopment = "development"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Query parameters and their defaults.
const (
	RequestParamID      = "id"
	RequestParamUserID  = "user_id"
	RequestParamAction  = "action"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
	RequestParamSearch  = "search"

	DefaultValuePage  = 1
	DefaultValueLimit = 10

	// RequestMaxMemory bounds the multipart form kept in memory.
	RequestMaxMemory = 10 << 20
)

// Values of the action parameter on GET /v1/bookings.
const (
	ActionGetBooking   = "get_booking"
	ActionUserBookings = "user_bookings"
)

const DateFormat = time.RFC3339

const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelExternalScopeName   = "external"
	OtelEventScopeName      = "event"
	OtelS3ScopeName         = "s3"
	OtelKafkaScopeName      = "kafka"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization = "Authorization"
	RequestHeaderAPIKey        = "X-API-Key"
	RequestHeaderContentType   = "Content-Type"
	RequestHeaderUserAgent     = "User-Agent"

	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRetryAfter         = "Retry-After"

	ContentTypeJSON = "application/json"
)

// Error bodies written outside the domain handlers.
const (
	ResponseErrorRouteNotFound        = "Route not found"
	ResponseErrorMethodNotAllowed     = "Method not allowed"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
)

// Cache key prefixes. Writes clear every key under the prefixes they affect.
const (
	CachePrefixRoom    = "room"
	CachePrefixBooking = "booking"
	CachePrefixReport  = "report"
)
