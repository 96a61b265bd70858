package reports

import "time"

// Urgency define la urgencia percibida del avistamiento.
// @Enum low, medium, high
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Reporter identifica a quien reporta. Puede ser anónimo (todo vacío),
// con nombre/teléfono sueltos, o vinculado a una cuenta.
type Reporter struct {
	UserID string
	Name   string
	Phone  string
}

// Location combina coordenadas con dirección libre y zona municipal.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
	Zone    string
}

// Animal agrupa los descriptores del perro avistado. Los valores de
// breed/size/colors vienen del catálogo externo; acá son texto.
type Animal struct {
	Breed       string
	Size        string
	Colors      []string
	Temperament string
	Condition   string
	Gender      string
	Urgency     Urgency
}

// Assignment es el binding reporte→personal. Los tres campos se setean
// y limpian juntos, nunca parcialmente.
type Assignment struct {
	AssignedTo string
	AssignedBy string
	AssignedAt time.Time
}

// Report representa un avistamiento de perro callejero.
type Report struct {
	ID string

	Reporter Reporter
	Location Location
	Animal   Animal

	PhotoRef    string
	Description string

	Status      Status
	Assignment  *Assignment
	StatusNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned indica si el reporte está vinculado a personal de seguimiento.
func (r Report) Assigned() bool {
	return r.Assignment != nil && r.Assignment.AssignedTo != ""
}
