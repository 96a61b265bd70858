package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"canine-registry/internal/domain/staff"
)

type staffRepo struct {
	mu   sync.RWMutex
	byID map[string]staff.Identity
}

func NewStaffRepo() staff.Repository {
	return &staffRepo{
		byID: make(map[string]staff.Identity),
	}
}

func (r *staffRepo) Create(ctx context.Context, id staff.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(id.ID) == "" {
		return errors.New("staff id required")
	}
	if _, exists := r.byID[id.ID]; exists {
		return errors.New("staff already exists")
	}
	r.byID[id.ID] = id
	return nil
}

func (r *staffRepo) Update(ctx context.Context, id staff.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id.ID]; !exists {
		return ErrNotFound
	}
	r.byID[id.ID] = id
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (staff.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return staff.Identity{}, ErrNotFound
	}
	return s, nil
}

func (r *staffRepo) List(ctx context.Context) ([]staff.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]staff.Identity, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
