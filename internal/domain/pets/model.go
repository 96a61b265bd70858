package pets

import "time"

// RegistrationStatus define el estado del trámite de registro.
// @Enum draft, pending_compliance, registered
type RegistrationStatus string

const (
	// StatusDraft: datos cargados pero sin raza seleccionada (o raza
	// descartada al abandonar el paso de compliance).
	StatusDraft RegistrationStatus = "draft"
	// StatusPendingCompliance: raza peligrosa elegida, falta el comprobante.
	StatusPendingCompliance RegistrationStatus = "pending_compliance"
	// StatusRegistered: trámite finalizado, CUI emitido.
	StatusRegistered RegistrationStatus = "registered"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet representa una mascota en trámite o registrada en el padrón municipal.
type Pet struct {
	ID          string
	CUI         string // código único, emitido al finalizar el registro
	OwnerUserID string

	Name  string
	Breed string
	Sex   Sex

	Color string
	Size  string

	PhotoRef string

	DangerousBreed bool
	Status         RegistrationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComplianceRecord es la evidencia del pago de la tasa por raza peligrosa.
// Se crea una sola vez al registrar y es inmutable; pertenece al agregado
// Pet y sobrevive al request que lo creó.
type ComplianceRecord struct {
	ID    string
	PetID string

	IsDangerousBreed bool

	ReceiptNumber string
	IssueDate     time.Time
	PayerName     string
	AmountPaid    float64
	VoucherRef    string

	CreatedAt time.Time
}
