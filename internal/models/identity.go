package models

// Identity is the authenticated caller established by the session
// middleware. A nil *Identity means no active session.
type Identity struct {
	UserID   int64
	UserName string
	Role     string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
