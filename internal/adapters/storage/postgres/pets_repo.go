package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"canine-registry/internal/domain/pets"

	"github.com/jackc/pgx/v5/pgconn"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, cui, owner_user_id,
	name, breed, sex, color, size, photo_ref,
	dangerous_breed, status,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.CUI,
		p.OwnerUserID,
		p.Name,
		p.Breed,
		string(p.Sex),
		p.Color,
		p.Size,
		p.PhotoRef,
		p.DangerousBreed,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET cui = $2, name = $3, breed = $4, sex = $5, color = $6, size = $7,
		    photo_ref = $8, dangerous_breed = $9, status = $10, updated_at = $11
		WHERE id = $1
	`,
		p.ID,
		p.CUI,
		p.Name,
		p.Breed,
		string(p.Sex),
		p.Color,
		p.Size,
		p.PhotoRef,
		p.DangerousBreed,
		string(p.Status),
		p.UpdatedAt,
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

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)

	return scanPet(row)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPets(rows)
}

func (r *PetsRepo) ListDangerous(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE dangerous_breed
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPets(rows)
}

// CreateCompliance cuenta con el UNIQUE(pet_id) de la tabla para rechazar
// un segundo comprobante: el registro es inmutable.
func (r *PetsRepo) CreateCompliance(ctx context.Context, rec pets.ComplianceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO compliance_records (
			id, pet_id, is_dangerous_breed,
			receipt_number, issue_date, payer_name, amount_paid, voucher_ref,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rec.ID,
		rec.PetID,
		rec.IsDangerousBreed,
		rec.ReceiptNumber,
		rec.IssueDate,
		rec.PayerName,
		rec.AmountPaid,
		rec.VoucherRef,
		rec.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return pets.ErrComplianceExists
	}
	return err
}

func (r *PetsRepo) GetComplianceByPet(ctx context.Context, petID string) (pets.ComplianceRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return pets.ComplianceRecord{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, is_dangerous_breed,
		       receipt_number, issue_date, payer_name, amount_paid, voucher_ref,
		       created_at
		FROM compliance_records
		WHERE pet_id = $1
	`, petID)

	var rec pets.ComplianceRecord
	if err := row.Scan(
		&rec.ID,
		&rec.PetID,
		&rec.IsDangerousBreed,
		&rec.ReceiptNumber,
		&rec.IssueDate,
		&rec.PayerName,
		&rec.AmountPaid,
		&rec.VoucherRef,
		&rec.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.ComplianceRecord{}, pets.ErrComplianceNotFound
		}
		return pets.ComplianceRecord{}, err
	}
	return rec, nil
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p      pets.Pet
		sex    string
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.CUI,
		&p.OwnerUserID,
		&p.Name,
		&p.Breed,
		&sex,
		&p.Color,
		&p.Size,
		&p.PhotoRef,
		&p.DangerousBreed,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	p.Sex = pets.Sex(sex)
	p.Status = pets.RegistrationStatus(status)
	return p, nil
}

func scanPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
