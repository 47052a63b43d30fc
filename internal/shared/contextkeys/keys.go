package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "portfolio-backend context key " + string(c)
}

const (
	// RequestIDKey carries the X-Request-ID of the current HTTP request.
	RequestIDKey = contextKey("requestID")
	// ComponentKey names the component emitting logs.
	ComponentKey = contextKey("component")
	// OperationKey names the operation in progress, e.g. "initdb.create_user".
	OperationKey = contextKey("operation")
	// AdminKey holds the authenticated admin username.
	AdminKey = contextKey("admin")
	// ClientIPKey holds the remote address of the caller.
	ClientIPKey = contextKey("clientIP")
)
