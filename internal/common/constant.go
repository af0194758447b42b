package common

const (
	// AuthorizationHeader carries the bearer token on authenticated requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token inside AuthorizationHeader.
	BearerPrefix = "Bearer "

	// DeadlineLayout is the canonical wire form of a task deadline
	// (minute precision, no zone).
	DeadlineLayout = "2006-01-02T15:04"
)
