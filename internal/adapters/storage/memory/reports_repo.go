package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"canine-registry/internal/domain/reports"
)

var ErrNotFound = errors.New("not found")

type reportsRepo struct {
	mu   sync.RWMutex
	byID map[string]reports.Report
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		byID: make(map[string]reports.Report),
	}
}

func (r *reportsRepo) Create(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return errors.New("report already exists")
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *reportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return reports.Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *reportsRepo) Update(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rep.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rep.ID] = rep
	return nil
}

// Bind es la escritura condicional: binding + new→assigned bajo el mismo
// lock, solo si el reporte sigue sin asignar. El perdedor de una carrera
// recibe reports.ErrAlreadyAssigned.
func (r *reportsRepo) Bind(ctx context.Context, reportID string, a reports.Assignment, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return ErrNotFound
	}
	if rep.Assignment != nil {
		return reports.ErrAlreadyAssigned
	}

	rep.Assignment = &a
	rep.Status = reports.StatusAssigned
	rep.UpdatedAt = updatedAt
	r.byID[reportID] = rep
	return nil
}

func (r *reportsRepo) Unbind(ctx context.Context, reportID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return ErrNotFound
	}

	rep.Assignment = nil
	rep.Status = reports.StatusNew
	rep.UpdatedAt = updatedAt
	r.byID[reportID] = rep
	return nil
}

func (r *reportsRepo) List(ctx context.Context) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0, len(r.byID))
	for _, rep := range r.byID {
		out = append(out, rep)
	}

	// Orden estable por created_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *reportsRepo) ListByAssignee(ctx context.Context, staffID string) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0)
	for _, rep := range r.byID {
		if rep.Assignment != nil && rep.Assignment.AssignedTo == staffID {
			out = append(out, rep)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
