package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// StaffRepository persists staff accounts for the auth simulator.
type StaffRepository interface {
	FindByCIN(ctx context.Context, cin string) (*domain.StaffAccount, error)
	FindByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	Create(ctx context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error)
}
