package model

import "time"

// Role values stored in users.role and carried in the JWT role claim.
const (
	RoleStaff = "STAFF"
	RoleGuest = "GUEST"
)

// User mirrors the 'users' table.  Staff users manage hotels and
// reservations; guest users book for themselves.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (STAFF | GUEST)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
