package domain

import (
	"errors"
	"time"
)

var (
	ErrStaffNotFound = errors.New("staff not found")
	ErrStaffExists   = errors.New("staff already exists")
	ErrTokenRevoked  = errors.New("token revoked")
)

// StaffAccount is a staff member as the auth service stores it: the public
// Identity plus the password hash.
type StaffAccount struct {
	Identity
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
