package postgres

import (
	"context"
	"database/sql"
	"strings"

	"canine-registry/internal/domain/staff"
)

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Create(ctx context.Context, id staff.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff (
			id, role, employee_code, active, zone,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		id.ID,
		string(id.Role),
		id.EmployeeCode,
		id.Active,
		id.Zone,
		id.CreatedAt,
		id.UpdatedAt,
	)
	return err
}

func (r *StaffRepo) Update(ctx context.Context, id staff.Identity) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff
		SET role = $2, employee_code = $3, active = $4, zone = $5, updated_at = $6
		WHERE id = $1
	`,
		id.ID,
		string(id.Role),
		id.EmployeeCode,
		id.Active,
		id.Zone,
		id.UpdatedAt,
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

func (r *StaffRepo) GetByID(ctx context.Context, id string) (staff.Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return staff.Identity{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, role, employee_code, active, zone, created_at, updated_at
		FROM staff
		WHERE id = $1
	`, id)

	var (
		s    staff.Identity
		role string
	)
	if err := row.Scan(&s.ID, &role, &s.EmployeeCode, &s.Active, &s.Zone, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return staff.Identity{}, ErrNotFound
		}
		return staff.Identity{}, err
	}
	s.Role = staff.Role(role)
	return s, nil
}

func (r *StaffRepo) List(ctx context.Context) ([]staff.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, employee_code, active, zone, created_at, updated_at
		FROM staff
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]staff.Identity, 0)
	for rows.Next() {
		var (
			s    staff.Identity
			role string
		)
		if err := rows.Scan(&s.ID, &role, &s.EmployeeCode, &s.Active, &s.Zone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Role = staff.Role(role)
		out = append(out, s)
	}
	return out, rows.Err()
}
