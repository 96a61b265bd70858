package reports

// Status define el ciclo de vida de un reporte de avistamiento.
// @Enum new, assigned, in_progress, done, in_review, closed
type Status string

const (
	StatusNew        Status = "new"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusInReview   Status = "in_review"
	StatusClosed     Status = "closed"
)

// ParseStatus normaliza un status externo. Devuelve false si no es conocido.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusAssigned, StatusInProgress, StatusDone, StatusInReview, StatusClosed:
		return Status(s), true
	default:
		return "", false
	}
}

// Label devuelve la etiqueta visible para el ciudadano/personal.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "Nuevo"
	case StatusAssigned:
		return "Asignado"
	case StatusInProgress:
		return "En Progreso"
	case StatusDone:
		return "Completado"
	case StatusInReview:
		return "En Revisión"
	case StatusClosed:
		return "Cerrado"
	default:
		return string(s)
	}
}

// CanTransition valida la tabla de transiciones de trabajo.
// Entrar a "assigned" desde "new" y volver a "new" solo ocurren como
// efecto de asignar/desasignar, nunca como transición directa.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusAssigned:
		switch to {
		case StatusInProgress, StatusInReview, StatusDone, StatusClosed:
			return true
		}
	case StatusInProgress:
		switch to {
		case StatusDone, StatusInReview, StatusClosed:
			return true
		}
	case StatusInReview:
		return to == StatusClosed
	case StatusNew, StatusDone, StatusClosed:
		// new solo sale vía asignación; done y closed son terminales
		// para el personal de seguimiento.
		return false
	}
	return false
}
