package domain

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleTeacher UserRole = "TEACHER"
	UserRoleAdmin   UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	BalanceCents int64      `json:"balance_cents"` // signed, may go negative after settlement
	Status       UserStatus `json:"status"`
	Name         string     `json:"name"`
}

// Principal identifies the actor invoking an operation. It is a value,
// not a live user record: services re-fetch the user when they need
// balance or account status.
type Principal struct {
	UserID string
	Role   UserRole
}

func (p Principal) IsZero() bool {
	return p.UserID == ""
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}
