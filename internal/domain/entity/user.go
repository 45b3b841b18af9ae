package entity

import "time"

// Role classifies a user within the approval hierarchy
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var validRoles = map[Role]bool{
	RoleEmployee: true,
	RoleManager:  true,
	RoleAdmin:    true,
}

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a member of the organization. ManagerID is nil for
// top-level users (e.g. the designated admin).
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
