package constants

// Session and context keys
const (
	SessionCookieName       = "projectdesk_session"
	SessionKeyAccountID     = "account_id"
	SessionKeySecurityStamp = "security_stamp"
	ContextKeyIdentity      = "identity"
)

// MinPasswordLength is the floor for login passwords. User-facing requests
// enforce it through their binding tags; it is checked directly where no
// request binding runs, such as the bootstrap admin seed.
const MinPasswordLength = 6

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
