package postgres

import (
	"context"
	"errors"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepo struct{ db *pgxpool.Pool }

func NewPropertyRepo(db *pgxpool.Pool) repository.PropertyRepository { return &PropertyRepo{db: db} }

const propertyCols = `id, owner_id, name, street, city, state, zip_code, type, size, image_url, status, created_at, updated_at`

func scanProperty(row pgx.Row, p *models.Property) error {
	return row.Scan(
		&p.ID, &p.Owner, &p.Name, &p.Address.Street, &p.Address.City, &p.Address.State, &p.Address.ZipCode,
		&p.Type, &p.Size, &p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
}

func collectProperties(rows pgx.Rows) ([]models.Property, error) {
	defer rows.Close()
	var out []models.Property
	for rows.Next() {
		var p models.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PropertyRepo) Create(ctx context.Context, p *models.Property) error {
	err := scanProperty(r.db.QueryRow(ctx, `
		INSERT INTO properties (owner_id, name, street, city, state, zip_code, type, size, image_url, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+propertyCols,
		p.Owner, p.Name, p.Address.Street, p.Address.City, p.Address.State, p.Address.ZipCode,
		p.Type, p.Size, p.ImageURL, p.Status,
	), p)
	return translate(err)
}

func (r *PropertyRepo) Get(ctx context.Context, id string) (*models.Property, error) {
	if !validID(id) {
		return nil, nil
	}
	var p models.Property
	err := scanProperty(r.db.QueryRow(ctx, `SELECT `+propertyCols+` FROM properties WHERE id=$1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepo) GetMany(ctx context.Context, ids []string) (map[string]models.Property, error) {
	out := make(map[string]models.Property, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+propertyCols+` FROM properties WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	items, err := collectProperties(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+propertyCols+`
		FROM properties
		WHERE owner_id=$1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

func (r *PropertyRepo) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ids := []string{}
	if !validID(ownerID) {
		return ids, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id FROM properties WHERE owner_id=$1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update persists every mutable column. Owner is never rewritten.
func (r *PropertyRepo) Update(ctx context.Context, p *models.Property) error {
	if !validID(p.ID) {
		return repository.ErrNotFound
	}
	err := r.db.QueryRow(ctx, `
		UPDATE properties SET
			name=$1, street=$2, city=$3, state=$4, zip_code=$5, type=$6, size=$7, image_url=$8, status=$9, updated_at=now()
		WHERE id=$10
		RETURNING updated_at`,
		p.Name, p.Address.Street, p.Address.City, p.Address.State, p.Address.ZipCode,
		p.Type, p.Size, p.ImageURL, p.Status, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return translate(err)
}

func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
