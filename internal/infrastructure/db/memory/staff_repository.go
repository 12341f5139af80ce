package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// StaffRepository keeps staff accounts in a map keyed by CIN.
type StaffRepository struct {
	mu    sync.RWMutex
	byCIN map[string]domain.StaffAccount
}

var _ ports.StaffRepository = (*StaffRepository)(nil)

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{byCIN: make(map[string]domain.StaffAccount)}
}

func (r *StaffRepository) Create(_ context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCIN[account.CIN]; exists {
		return nil, domain.ErrStaffExists
	}
	stored := *account
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byCIN[stored.CIN] = stored
	return &stored, nil
}

func (r *StaffRepository) FindByCIN(_ context.Context, cin string) (*domain.StaffAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byCIN[cin]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	return &acc, nil
}

func (r *StaffRepository) FindByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.byCIN {
		if acc.ID == id {
			return &acc, nil
		}
	}
	return nil, domain.ErrStaffNotFound
}

// Update replaces the stored profile of an existing account. The simulator
// uses it to push identity changes to stations on their next verify.
func (r *StaffRepository) Update(_ context.Context, account *domain.StaffAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCIN[account.CIN]; !ok {
		return domain.ErrStaffNotFound
	}
	r.byCIN[account.CIN] = *account
	return nil
}
