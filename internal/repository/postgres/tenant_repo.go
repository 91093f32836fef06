package postgres

import (
	"context"
	"errors"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TenantRepo struct{ db *pgxpool.Pool }

func NewTenantRepo(db *pgxpool.Pool) repository.TenantRepository { return &TenantRepo{db: db} }

const tenantCols = `id, property_id, name, email, phone, unit, lease_start, lease_end, rent_amount, status,
	ec_name, ec_phone, ec_relation, created_at, updated_at`

func scanTenant(row pgx.Row, t *models.Tenant) error {
	return row.Scan(
		&t.ID, &t.PropertyID, &t.Name, &t.Email, &t.Phone, &t.Unit, &t.LeaseStart, &t.LeaseEnd, &t.RentAmount, &t.Status,
		&t.EmergencyContact.Name, &t.EmergencyContact.Phone, &t.EmergencyContact.Relationship,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *TenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	err := scanTenant(r.db.QueryRow(ctx, `
		INSERT INTO tenants (property_id, name, email, phone, unit, lease_start, lease_end, rent_amount, status,
			ec_name, ec_phone, ec_relation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING `+tenantCols,
		t.PropertyID, t.Name, t.Email, t.Phone, t.Unit, t.LeaseStart, t.LeaseEnd, t.RentAmount, t.Status,
		t.EmergencyContact.Name, t.EmergencyContact.Phone, t.EmergencyContact.Relationship,
	), t)
	return translate(err)
}

func (r *TenantRepo) Get(ctx context.Context, id string) (*models.Tenant, error) {
	if !validID(id) {
		return nil, nil
	}
	var t models.Tenant
	err := scanTenant(r.db.QueryRow(ctx, `SELECT `+tenantCols+` FROM tenants WHERE id=$1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepo) ListByProperties(ctx context.Context, propertyIDs []string) ([]models.Tenant, error) {
	propertyIDs = validIDs(propertyIDs)
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+tenantCols+`
		FROM tenants
		WHERE property_id = ANY($1::uuid[])
		ORDER BY created_at DESC`, propertyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := scanTenant(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TenantRepo) CountByProperty(ctx context.Context, propertyID string) (int, error) {
	if !validID(propertyID) {
		return 0, nil
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE property_id=$1`, propertyID).Scan(&n)
	return n, err
}

func (r *TenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	if !validID(t.ID) {
		return repository.ErrNotFound
	}
	err := r.db.QueryRow(ctx, `
		UPDATE tenants SET
			property_id=$1, name=$2, email=$3, phone=$4, unit=$5, lease_start=$6, lease_end=$7, rent_amount=$8,
			status=$9, ec_name=$10, ec_phone=$11, ec_relation=$12, updated_at=now()
		WHERE id=$13
		RETURNING updated_at`,
		t.PropertyID, t.Name, t.Email, t.Phone, t.Unit, t.LeaseStart, t.LeaseEnd, t.RentAmount, t.Status,
		t.EmergencyContact.Name, t.EmergencyContact.Phone, t.EmergencyContact.Relationship, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return translate(err)
}

func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
