package gamifyv1

// Metadata keys shared by the gateway and its clients.
const (
	// UserIDHeader carries the caller's user ID.
	UserIDHeader = "x-popcity-user-id"
	// UserNameHeader carries the caller's display name.
	UserNameHeader = "x-popcity-user-name"
	// LocaleHeader carries the caller's preferred locale for error messages.
	LocaleHeader = "x-popcity-locale"
	// RequestIDHeader carries the request correlation ID.
	RequestIDHeader = "x-popcity-request-id"
)

// DateLayout is the wire layout of calendar dates.
const DateLayout = "2006-01-02"
