package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"canine-registry/internal/domain/staff"

	"github.com/google/uuid"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrTransitionInvalid = errors.New("transition invalid")
	ErrAlreadyAssigned   = errors.New("already assigned")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Actor es la identidad explícita que acompaña cada operación
// (nada de estado global de sesión).
type Actor struct {
	UserID string
	Role   staff.Role
}

type Service struct {
	repo      Repository
	staffRepo staff.Repository
	now       func() time.Time
}

func NewService(repo Repository, staffRepo staff.Repository) *Service {
	return &Service{
		repo:      repo,
		staffRepo: staffRepo,
		now:       time.Now,
	}
}

type CreateInput struct {
	Reporter    Reporter
	Location    Location
	Animal      Animal
	PhotoRef    string
	Description string
}

// Create registra un avistamiento ciudadano. Nace siempre en new, sin asignar.
func (s *Service) Create(ctx context.Context, in CreateInput) (Report, error) {
	if strings.TrimSpace(in.Location.Address) == "" && strings.TrimSpace(in.Location.Zone) == "" {
		return Report{}, ErrValidation
	}
	if strings.TrimSpace(in.Description) == "" {
		return Report{}, ErrValidation
	}

	urgency := in.Animal.Urgency
	if urgency == "" {
		urgency = UrgencyMedium
	}

	now := s.now()
	r := Report{
		ID:       uuid.NewString(),
		Reporter: trimReporter(in.Reporter),
		Location: Location{
			Lat:     in.Location.Lat,
			Lng:     in.Location.Lng,
			Address: strings.TrimSpace(in.Location.Address),
			Zone:    strings.TrimSpace(in.Location.Zone),
		},
		Animal: Animal{
			Breed:       strings.TrimSpace(in.Animal.Breed),
			Size:        strings.TrimSpace(in.Animal.Size),
			Colors:      trimColors(in.Animal.Colors),
			Temperament: strings.TrimSpace(in.Animal.Temperament),
			Condition:   strings.TrimSpace(in.Animal.Condition),
			Gender:      strings.TrimSpace(in.Animal.Gender),
			Urgency:     urgency,
		},
		PhotoRef:    strings.TrimSpace(in.PhotoRef),
		Description: strings.TrimSpace(in.Description),
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

// ChangeStatus evalúa y aplica una transición de estado de trabajo.
// Solo seguimiento puede mover el estado una vez asignado el reporte.
func (s *Service) ChangeStatus(ctx context.Context, actor Actor, reportID string, target Status, notes string) (Report, error) {
	if actor.Role != staff.RoleSeguimiento {
		return Report{}, ErrUnauthorized
	}

	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return Report{}, ErrNotFound
	}

	r, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, ErrNotFound
	}

	if !CanTransition(r.Status, target) {
		return Report{}, ErrTransitionInvalid
	}
	if target == StatusDone && strings.TrimSpace(notes) == "" {
		return Report{}, ErrValidation
	}

	r.Status = target
	r.StatusNotes = strings.TrimSpace(notes)
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Assign vincula un reporte a personal de seguimiento. El binding y el
// pase new→assigned se aplican juntos; bajo carrera gana exactamente uno.
func (s *Service) Assign(ctx context.Context, actor Actor, reportID, staffID string) (Report, error) {
	if !actor.Role.IsAdmin() {
		return Report{}, ErrUnauthorized
	}

	reportID = strings.TrimSpace(reportID)
	staffID = strings.TrimSpace(staffID)
	if reportID == "" || staffID == "" {
		return Report{}, ErrValidation
	}

	assignee, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return Report{}, ErrNotFound
	}
	if !assignee.Active || assignee.Role != staff.RoleSeguimiento {
		return Report{}, ErrValidation
	}

	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return Report{}, ErrNotFound
	}

	now := s.now()
	a := Assignment{
		AssignedTo: staffID,
		AssignedBy: actor.UserID,
		AssignedAt: now,
	}

	if err := s.repo.Bind(ctx, reportID, a, now); err != nil {
		if errors.Is(err, ErrAlreadyAssigned) {
			return Report{}, ErrAlreadyAssigned
		}
		return Report{}, err
	}

	return s.repo.GetByID(ctx, reportID)
}

// Unassign limpia el binding y resetea status a new, sin importar cuánto
// avanzó el estado de trabajo (re-triage forzado; decisión de producto).
func (s *Service) Unassign(ctx context.Context, actor Actor, reportID string) (Report, error) {
	if !actor.Role.IsAdmin() {
		return Report{}, ErrUnauthorized
	}

	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return Report{}, ErrNotFound
	}

	r, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, ErrNotFound
	}
	if !r.Assigned() {
		return Report{}, ErrTransitionInvalid
	}

	if err := s.repo.Unbind(ctx, reportID, s.now()); err != nil {
		return Report{}, err
	}

	return s.repo.GetByID(ctx, reportID)
}

// ListAssignedTo devuelve los reportes actualmente vinculados a un staff
// (vista "mi trabajo").
func (s *Service) ListAssignedTo(ctx context.Context, staffID string) ([]Report, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return nil, ErrValidation
	}
	return s.repo.ListByAssignee(ctx, staffID)
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Report{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Report{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]Report, error) {
	return s.repo.List(ctx)
}

func trimReporter(r Reporter) Reporter {
	return Reporter{
		UserID: strings.TrimSpace(r.UserID),
		Name:   strings.TrimSpace(r.Name),
		Phone:  strings.TrimSpace(r.Phone),
	}
}

func trimColors(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
