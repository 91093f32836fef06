package postgres

import (
	"context"
	"errors"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

const userCols = `id, email, name, role, phone, status, last_login, created_at, updated_at`

func scanUser(row pgx.Row, u *models.User, extra ...any) error {
	dest := append([]any{
		&u.ID, &u.Email, &u.Name, &u.Role, &u.Phone, &u.Status, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	}, extra...)
	return row.Scan(dest...)
}

// Create user (stores bcrypt hash in password_h)
func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role, phone, status, password_h)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+userCols,
		u.Email, u.Name, u.Role, u.Phone, u.Status, passwordHash), u)
	return translate(err)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var ph string
	err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userCols+`, password_h
		FROM users WHERE email=$1`, email), &u, &ph)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, nil
	}
	var u models.User
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) PasswordHash(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", repository.ErrNotFound
	}
	var ph string
	err := r.db.QueryRow(ctx, `SELECT password_h FROM users WHERE id=$1`, id).Scan(&ph)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return ph, err
}

// Names resolves display names for populating createdBy/assignedTo/comment authors.
func (r *UserRepo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, name FROM users WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (r *UserRepo) ListByRole(ctx context.Context, role, status string) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE role=$1 AND ($2 = '' OR status=$2)
		ORDER BY name ASC`, role, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) updateReturning(ctx context.Context, sql string, args ...any) (*models.User, error) {
	var u models.User
	err := scanUser(r.db.QueryRow(ctx, sql+` RETURNING `+userCols, args...), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateBasic(ctx context.Context, id, name, phone string) (*models.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.updateReturning(ctx, `
		UPDATE users
		SET name=$1, phone=$2, updated_at=now()
		WHERE id=$3`, name, phone, id)
}

func (r *UserRepo) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.updateReturning(ctx, `
		UPDATE users
		SET status=$1, updated_at=now()
		WHERE id=$2`, status, id)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_h=$1, updated_at=now()
		WHERE id=$2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login=now() WHERE id=$1`, id)
	return err
}
