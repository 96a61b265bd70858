package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"canine-registry/internal/domain/reports"
)

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

const reportColumns = `
	id,
	reporter_user_id, reporter_name, reporter_phone,
	lat, lng, address, zone,
	breed, size, colors, temperament, condition, gender, urgency,
	photo_ref, description,
	status, status_notes,
	assigned_to, assigned_by, assigned_at,
	created_at, updated_at
`

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`,
		rep.ID,
		rep.Reporter.UserID,
		rep.Reporter.Name,
		rep.Reporter.Phone,
		rep.Location.Lat,
		rep.Location.Lng,
		rep.Location.Address,
		rep.Location.Zone,
		rep.Animal.Breed,
		rep.Animal.Size,
		joinColors(rep.Animal.Colors),
		rep.Animal.Temperament,
		rep.Animal.Condition,
		rep.Animal.Gender,
		string(rep.Animal.Urgency),
		rep.PhotoRef,
		rep.Description,
		string(rep.Status),
		rep.StatusNotes,
		nullableAssignee(rep),
		nullableAssigner(rep),
		nullableAssignedAt(rep),
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	return err
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Report{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1
	`, id)

	return scanReport(row)
}

// Update persiste status/notes/updatedAt. Last-write-wins deliberado:
// la única escritura con chequeo condicional es Bind.
func (r *ReportsRepo) Update(ctx context.Context, rep reports.Report) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = $2, status_notes = $3, updated_at = $4
		WHERE id = $1
	`,
		rep.ID,
		string(rep.Status),
		rep.StatusNotes,
		rep.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Bind asigna solo si la fila sigue sin asignar: el WHERE assigned_to IS NULL
// hace la condición atómica a nivel de fila. RowsAffected == 0 con fila
// existente significa que otro admin ganó la carrera.
func (r *ReportsRepo) Bind(ctx context.Context, reportID string, a reports.Assignment, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET assigned_to = $2, assigned_by = $3, assigned_at = $4,
		    status = 'assigned', updated_at = $5
		WHERE id = $1 AND assigned_to IS NULL
	`,
		reportID,
		a.AssignedTo,
		a.AssignedBy,
		a.AssignedAt,
		updatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, reportID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return reports.ErrAlreadyAssigned
}

func (r *ReportsRepo) Unbind(ctx context.Context, reportID string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET assigned_to = NULL, assigned_by = NULL, assigned_at = NULL,
		    status = 'new', updated_at = $2
		WHERE id = $1
	`, reportID, updatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReportsRepo) List(ctx context.Context) ([]reports.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

func (r *ReportsRepo) ListByAssignee(ctx context.Context, staffID string) ([]reports.Report, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE assigned_to = $1
		ORDER BY created_at ASC
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (reports.Report, error) {
	var (
		rep        reports.Report
		colors     string
		urgency    string
		status     string
		assignedTo sql.NullString
		assignedBy sql.NullString
		assignedAt sql.NullTime
	)

	if err := row.Scan(
		&rep.ID,
		&rep.Reporter.UserID,
		&rep.Reporter.Name,
		&rep.Reporter.Phone,
		&rep.Location.Lat,
		&rep.Location.Lng,
		&rep.Location.Address,
		&rep.Location.Zone,
		&rep.Animal.Breed,
		&rep.Animal.Size,
		&colors,
		&rep.Animal.Temperament,
		&rep.Animal.Condition,
		&rep.Animal.Gender,
		&urgency,
		&rep.PhotoRef,
		&rep.Description,
		&status,
		&rep.StatusNotes,
		&assignedTo,
		&assignedBy,
		&assignedAt,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return reports.Report{}, ErrNotFound
		}
		return reports.Report{}, err
	}

	rep.Animal.Colors = splitColors(colors)
	rep.Animal.Urgency = reports.Urgency(urgency)
	rep.Status = reports.Status(status)

	// Los tres campos del binding van juntos o son NULL juntos.
	if assignedTo.Valid {
		rep.Assignment = &reports.Assignment{
			AssignedTo: assignedTo.String,
			AssignedBy: assignedBy.String,
			AssignedAt: assignedAt.Time,
		}
	}

	return rep, nil
}

func scanReports(rows *sql.Rows) ([]reports.Report, error) {
	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func nullableAssignee(rep reports.Report) sql.NullString {
	if rep.Assignment == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: rep.Assignment.AssignedTo, Valid: true}
}

func nullableAssigner(rep reports.Report) sql.NullString {
	if rep.Assignment == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: rep.Assignment.AssignedBy, Valid: true}
}

func nullableAssignedAt(rep reports.Report) sql.NullTime {
	if rep.Assignment == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: rep.Assignment.AssignedAt, Valid: true}
}

// colors se guarda como texto separado por comas. Suficiente mientras el
// catálogo de colores no contenga comas.
func joinColors(colors []string) string {
	return strings.Join(colors, ",")
}

func splitColors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
