package domain

import "time"

type PermanentRole string

const (
	RoleAdmin PermanentRole = "ADMIN"
	RoleUser  PermanentRole = "USER"
)

type User struct {
	ID                    uint          `json:"id"`
	Username              string        `json:"username"`
	Password              string        `json:"-"`
	FullName              string        `json:"full_name"`
	PermanentRole         PermanentRole `json:"permanent_role"`
	Active                bool          `json:"active"`
	FailedLoginAttempts   int           `json:"-"`
	FailedPasswordUpdates int           `json:"-"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.PermanentRole == RoleAdmin
}
