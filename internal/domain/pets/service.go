package pets

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrComplianceRequired = errors.New("compliance record required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBadState           = errors.New("invalid state")
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

type RegisterInput struct {
	Name     string
	Breed    string
	Sex      string
	Color    string
	Size     string
	PhotoRef string

	// Compliance viene junto al alta cuando el formulario ya capturó el
	// comprobante. Nil si no se cargó.
	Compliance *ComplianceInput
}

type ComplianceInput struct {
	ReceiptNumber string
	IssueDate     time.Time
	PayerName     string
	// Amount llega como texto del formulario; debe parsear a un número > 0.
	Amount     string
	VoucherRef string
}

// Register da de alta una mascota. Si la raza matchea el padrón de razas
// peligrosas, el trámite no finaliza sin comprobante: queda en
// pending_compliance (sin comprobante) o finaliza de una (comprobante válido).
func (s *Service) Register(ctx context.Context, ownerUserID string, in RegisterInput) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	breed := strings.TrimSpace(in.Breed)
	if breed == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Breed:       breed,
		Sex:         parseSex(in.Sex),
		Color:       strings.TrimSpace(in.Color),
		Size:        strings.TrimSpace(in.Size),
		PhotoRef:    strings.TrimSpace(in.PhotoRef),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if !IsDangerousBreed(breed) {
		p.Status = StatusRegistered
		p.CUI = newCUI()
		if err := s.repo.Create(ctx, p); err != nil {
			return Pet{}, err
		}
		return p, nil
	}

	p.DangerousBreed = true

	if in.Compliance == nil {
		// Trámite detenido: el registro no finaliza hasta adjuntar comprobante.
		p.Status = StatusPendingCompliance
		if err := s.repo.Create(ctx, p); err != nil {
			return Pet{}, err
		}
		return p, nil
	}

	rec, err := s.buildComplianceRecord(p.ID, *in.Compliance, now)
	if err != nil {
		return Pet{}, err
	}

	// La mascota entra pendiente y recién finaliza cuando el comprobante
	// quedó persistido: nunca puede existir una registrada sin comprobante.
	p.Status = StatusPendingCompliance
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	if err := s.repo.CreateCompliance(ctx, rec); err != nil {
		return Pet{}, err
	}

	p.Status = StatusRegistered
	p.CUI = newCUI()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// AttachCompliance adjunta el comprobante a un trámite detenido y finaliza
// el registro. El comprobante queda inmutable.
func (s *Service) AttachCompliance(ctx context.Context, ownerUserID, petID string, in ComplianceInput) (Pet, error) {
	p, err := s.ownedPet(ctx, ownerUserID, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.Status != StatusPendingCompliance {
		return Pet{}, ErrBadState
	}

	now := s.now()
	rec, err := s.buildComplianceRecord(p.ID, in, now)
	if err != nil {
		return Pet{}, err
	}

	// Si el comprobante ya quedó persistido por un intento anterior que
	// falló al finalizar, lo toleramos: solo falta cerrar el trámite.
	if err := s.repo.CreateCompliance(ctx, rec); err != nil && !errors.Is(err, ErrComplianceExists) {
		return Pet{}, err
	}

	p.Status = StatusRegistered
	p.CUI = newCUI()
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// AbandonCompliance descarta el paso de comprobante. La raza elegida se
// limpia junto con el abandono: raza peligrosa y comprobante incompleto
// no pueden quedar conviviendo.
func (s *Service) AbandonCompliance(ctx context.Context, ownerUserID, petID string) (Pet, error) {
	p, err := s.ownedPet(ctx, ownerUserID, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.Status != StatusPendingCompliance {
		return Pet{}, ErrBadState
	}

	p.Breed = ""
	p.DangerousBreed = false
	p.Status = StatusDraft
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// SelectBreed re-selecciona raza sobre un borrador. Si la nueva raza es
// peligrosa el trámite vuelve a quedar detenido; si no, finaliza.
func (s *Service) SelectBreed(ctx context.Context, ownerUserID, petID, breed string) (Pet, error) {
	p, err := s.ownedPet(ctx, ownerUserID, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.Status != StatusDraft {
		return Pet{}, ErrBadState
	}

	breed = strings.TrimSpace(breed)
	if breed == "" {
		return Pet{}, ErrInvalidInput
	}

	p.Breed = breed
	p.UpdatedAt = s.now()

	if IsDangerousBreed(breed) {
		p.DangerousBreed = true
		p.Status = StatusPendingCompliance
	} else {
		p.DangerousBreed = false
		p.Status = StatusRegistered
		p.CUI = newCUI()
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) GetCompliance(ctx context.Context, petID string) (ComplianceRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ComplianceRecord{}, ErrNotFound
	}
	rec, err := s.repo.GetComplianceByPet(ctx, petID)
	if err != nil {
		if errors.Is(err, ErrComplianceNotFound) {
			return ComplianceRecord{}, ErrNotFound
		}
		return ComplianceRecord{}, err
	}
	return rec, nil
}

func (s *Service) ownedPet(ctx context.Context, ownerUserID, petID string) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	petID = strings.TrimSpace(petID)
	if ownerUserID == "" || petID == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

// buildComplianceRecord valida los cuatro campos obligatorios del
// comprobante. El monto solo exige > 0; el mínimo sugerido de 52.20 es
// una pista del formulario, no una regla de validación.
func (s *Service) buildComplianceRecord(petID string, in ComplianceInput, now time.Time) (ComplianceRecord, error) {
	receipt := strings.TrimSpace(in.ReceiptNumber)
	payer := strings.TrimSpace(in.PayerName)
	amountStr := strings.TrimSpace(in.Amount)

	if receipt == "" || payer == "" || amountStr == "" || in.IssueDate.IsZero() {
		return ComplianceRecord{}, ErrComplianceRequired
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		return ComplianceRecord{}, ErrComplianceRequired
	}

	return ComplianceRecord{
		ID:               uuid.NewString(),
		PetID:            petID,
		IsDangerousBreed: true,
		ReceiptNumber:    receipt,
		IssueDate:        in.IssueDate,
		PayerName:        payer,
		AmountPaid:       amount,
		VoucherRef:       strings.TrimSpace(in.VoucherRef),
		CreatedAt:        now,
	}, nil
}

func parseSex(s string) Sex {
	switch Sex(strings.TrimSpace(s)) {
	case SexMale:
		return SexMale
	case SexFemale:
		return SexFemale
	default:
		return SexUnknown
	}
}

// newCUI emite el código único de identificación de la mascota.
func newCUI() string {
	return "CUI-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
