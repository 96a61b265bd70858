package reports

import (
	"context"
	"time"
)

// Repository persiste reportes. Bind es la única operación que exige
// escritura condicional atómica (asignar solo si sigue sin asignar);
// el resto es last-write-wins.
type Repository interface {
	Create(ctx context.Context, r Report) error
	GetByID(ctx context.Context, id string) (Report, error)

	// Update persiste status/notes/updatedAt sin chequeo de versión.
	Update(ctx context.Context, r Report) error

	// Bind setea el binding y pasa status a assigned en una sola operación,
	// solo si el reporte sigue sin asignar. Si otro ganó la carrera devuelve
	// ErrAlreadyAssigned.
	Bind(ctx context.Context, reportID string, a Assignment, updatedAt time.Time) error

	// Unbind limpia el binding y resetea status a new en una sola operación.
	Unbind(ctx context.Context, reportID string, updatedAt time.Time) error

	List(ctx context.Context) ([]Report, error)
	ListByAssignee(ctx context.Context, staffID string) ([]Report, error)
}
