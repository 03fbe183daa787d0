package models

// Role is the closed set of roles an account can hold.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// Identity is the acting principal of a request. It is resolved once by the
// auth middleware and passed explicitly into every service call; nothing in
// the service layer reads ambient request state.
type Identity struct {
	AccountID uint64
	Username  string
	Role      Role
}

// IsAuthenticated reports whether the identity resolves to a real login.
func (i Identity) IsAuthenticated() bool {
	return i.Username != ""
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
