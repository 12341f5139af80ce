package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/pkg/validate"
)

// StaffClaims is the JWT payload issued to staff.
type StaffClaims struct {
	CIN  string      `json:"cin"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// StaffAuthService implements registration, login, verification and logout
// for the auth simulator. Each staff member holds at most one live token: a
// newer login supersedes the previous one.
type StaffAuthService struct {
	repo      ports.StaffRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time

	mu     sync.Mutex
	active map[string]string // staff ID -> live token ID
}

var _ ports.StaffAuthService = (*StaffAuthService)(nil)

func NewStaffAuthService(repo ports.StaffRepository, jwtSecret string, tokenTTL time.Duration) *StaffAuthService {
	if tokenTTL <= 0 {
		tokenTTL = domain.DefaultSessionTTL
	}
	return &StaffAuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		active:    make(map[string]string),
	}
}

func (s *StaffAuthService) Register(ctx context.Context, in ports.RegisterStaffInput) (*domain.StaffAccount, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.StaffAccount{
		Identity: domain.Identity{
			CIN:         in.CIN,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Role:        in.Role,
			PhoneNumber: in.PhoneNumber,
		},
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login returns ErrInvalidCredentials for both unknown CIN and bad password.
func (s *StaffAuthService) Login(ctx context.Context, cin, password string) (string, *domain.StaffAccount, error) {
	if cin == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByCIN(ctx, cin)
	if errors.Is(err, domain.ErrStaffNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, tokenID, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.active[account.ID] = tokenID
	s.mu.Unlock()

	return token, account, nil
}

// Verify checks the signature, expiry and that the token is still the live
// one for its staff member, then returns the current account.
func (s *StaffAuthService) Verify(ctx context.Context, token string) (*domain.StaffAccount, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	live := s.active[claims.Subject]
	s.mu.Unlock()
	if live == "" || live != claims.ID {
		return nil, domain.ErrTokenRevoked
	}

	account, err := s.repo.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrStaffNotFound) {
		return nil, domain.ErrSessionRejected
	}
	return account, err
}

// Logout revokes the token if it is the live one. Revoking an already
// superseded token is a no-op.
func (s *StaffAuthService) Logout(_ context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[claims.Subject] == claims.ID {
		delete(s.active, claims.Subject)
	}
	return nil
}

func (s *StaffAuthService) generateToken(account *domain.StaffAccount) (string, string, error) {
	now := s.now()
	tokenID := uuid.NewString()
	claims := StaffClaims{
		CIN:  account.CIN,
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, tokenID, nil
}

func (s *StaffAuthService) parse(token string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrSessionExpired
	case err != nil:
		return nil, domain.ErrSessionRejected
	}
	return claims, nil
}
