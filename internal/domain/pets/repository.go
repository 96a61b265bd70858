package pets

import (
	"context"
	"errors"
)

// Sentinelas del borde del port: los adapters las devuelven para que el
// servicio distinga duplicado y ausencia de una falla real del storage.
var (
	ErrComplianceExists   = errors.New("compliance record exists")
	ErrComplianceNotFound = errors.New("compliance record not found")
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)

	// ListDangerous devuelve las mascotas marcadas como raza peligrosa
	// (para la vista de fiscalización del dashboard).
	ListDangerous(ctx context.Context) ([]Pet, error)

	// CreateCompliance persiste el comprobante. Devuelve ErrComplianceExists
	// si la mascota ya tiene uno: el registro es inmutable.
	CreateCompliance(ctx context.Context, rec ComplianceRecord) error
	// GetComplianceByPet devuelve ErrComplianceNotFound si no hay comprobante.
	GetComplianceByPet(ctx context.Context, petID string) (ComplianceRecord, error)
}
