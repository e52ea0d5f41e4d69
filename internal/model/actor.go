package model

// Roles carried in the access token.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Actor is the authenticated caller of a checklist operation.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor may reset checklists and edit the
// catalog.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
