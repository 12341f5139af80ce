package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// RegisterStaffInput describes a new staff account.
type RegisterStaffInput struct {
	CIN         string      `json:"cin"         validate:"required,len=8,numeric"`
	Password    string      `json:"password"    validate:"required,min=6"`
	FirstName   string      `json:"firstName"   validate:"required"`
	LastName    string      `json:"lastName"    validate:"required"`
	Role        domain.Role `json:"role"        validate:"required,oneof=WORKER SUPERVISOR ADMIN"`
	PhoneNumber string      `json:"phoneNumber"`
}

// StaffAuthService issues, checks and revokes staff tokens.
type StaffAuthService interface {
	Register(ctx context.Context, in RegisterStaffInput) (*domain.StaffAccount, error)
	Login(ctx context.Context, cin, password string) (string, *domain.StaffAccount, error)
	Verify(ctx context.Context, token string) (*domain.StaffAccount, error)
	Logout(ctx context.Context, token string) error
}
