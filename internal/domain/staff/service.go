package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Role         string
	EmployeeCode string
	Zone         string
}

// Create da de alta una identidad de personal. Solo admin/super_admin.
func (s *Service) Create(ctx context.Context, actorRole Role, in CreateInput) (Identity, error) {
	if !actorRole.IsAdmin() {
		return Identity{}, ErrUnauthorized
	}

	role, ok := ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return Identity{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.EmployeeCode) == "" {
		return Identity{}, ErrInvalidInput
	}

	now := s.now()
	id := Identity{
		ID:           uuid.NewString(),
		Role:         role,
		EmployeeCode: strings.TrimSpace(in.EmployeeCode),
		Active:       true,
		Zone:         strings.TrimSpace(in.Zone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Deactivate marca una identidad como inactiva (no se borra físicamente).
func (s *Service) Deactivate(ctx context.Context, actorRole Role, staffID string) (Identity, error) {
	if !actorRole.IsAdmin() {
		return Identity{}, ErrUnauthorized
	}

	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return Identity{}, ErrInvalidInput
	}

	id, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return Identity{}, ErrNotFound
	}

	// Idempotente
	if !id.Active {
		return id, nil
	}

	id.Active = false
	id.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func (s *Service) GetByID(ctx context.Context, staffID string) (Identity, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return Identity{}, ErrInvalidInput
	}
	id, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	return id, nil
}

func (s *Service) List(ctx context.Context, actorRole Role) ([]Identity, error) {
	if !actorRole.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx)
}
