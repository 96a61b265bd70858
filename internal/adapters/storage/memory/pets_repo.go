package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"canine-registry/internal/domain/pets"
)

type petsRepo struct {
	mu         sync.RWMutex
	byID       map[string]pets.Pet
	compliance map[string]pets.ComplianceRecord // key: pet ID
}

func NewPetsRepo() pets.Repository {
	return &petsRepo{
		byID:       make(map[string]pets.Pet),
		compliance: make(map[string]pets.ComplianceRecord),
	}
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *petsRepo) ListDangerous(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.DangerousBreed {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateCompliance rechaza un segundo comprobante: el registro es inmutable.
func (r *petsRepo) CreateCompliance(ctx context.Context, rec pets.ComplianceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.PetID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.compliance[rec.PetID]; exists {
		return pets.ErrComplianceExists
	}
	r.compliance[rec.PetID] = rec
	return nil
}

func (r *petsRepo) GetComplianceByPet(ctx context.Context, petID string) (pets.ComplianceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.compliance[petID]
	if !ok {
		return pets.ComplianceRecord{}, pets.ErrComplianceNotFound
	}
	return rec, nil
}
