package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"canine-registry/internal/domain/pets"
)

func TestPetsRepo_ComplianceIsImmutable(t *testing.T) {
	repo := NewPetsRepo()
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	err := repo.Create(ctx, pets.Pet{
		ID: "p-1", OwnerUserID: "owner-1", Name: "Thor", Breed: "Rottweiler",
		DangerousBreed: true, Status: pets.StatusPendingCompliance,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := pets.ComplianceRecord{
		ID: "c-1", PetID: "p-1", IsDangerousBreed: true,
		ReceiptNumber: "001-123", PayerName: "Juan Perez", AmountPaid: 52.20,
		CreatedAt: now,
	}
	if err := repo.CreateCompliance(ctx, rec); err != nil {
		t.Fatalf("CreateCompliance: %v", err)
	}

	dup := rec
	dup.ID = "c-2"
	if err := repo.CreateCompliance(ctx, dup); !errors.Is(err, pets.ErrComplianceExists) {
		t.Fatalf("duplicate: err = %v, want ErrComplianceExists", err)
	}

	got, err := repo.GetComplianceByPet(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetComplianceByPet: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("record was replaced, got %q", got.ID)
	}
}

func TestPetsRepo_GetComplianceByPet_Missing(t *testing.T) {
	repo := NewPetsRepo()

	_, err := repo.GetComplianceByPet(context.Background(), "nope")
	if !errors.Is(err, pets.ErrComplianceNotFound) {
		t.Fatalf("err = %v, want ErrComplianceNotFound", err)
	}
}
