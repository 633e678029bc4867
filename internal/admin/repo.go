package admin

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("admin not found")
	ErrAlreadyExist = errors.New("admin email already exists")
)

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Update(ctx context.Context, a *Admin, updatePassword bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, a *Admin) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO admins (admin_id, admin_name, admin_email, password_hash)
		VALUES ($1,$2,$3,$4)
	`, a.ID, a.Name, a.Email, a.PasswordHash)
	if err != nil {
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Admin
	err := r.db.QueryRow(ctx, `
		SELECT admin_id, admin_name, admin_email, password_hash FROM admins WHERE admin_id=$1
	`, id).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash)
	if err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Admin
	err := r.db.QueryRow(ctx, `
		SELECT admin_id, admin_name, admin_email, password_hash FROM admins WHERE admin_email=$1
	`, email).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash)
	if err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT admin_id, admin_name, admin_email, password_hash FROM admins ORDER BY admin_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Admin{}
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, a *Admin, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePassword {
		_, err := r.db.Exec(ctx, `
			UPDATE admins
			SET admin_name = COALESCE(NULLIF($2,''), admin_name),
			    admin_email = COALESCE(NULLIF($3,''), admin_email),
			    password_hash = $4
			WHERE admin_id = $1
		`, a.ID, a.Name, a.Email, a.PasswordHash)
		return err
	}
	_, err := r.db.Exec(ctx, `
		UPDATE admins
		SET admin_name = COALESCE(NULLIF($2,''), admin_name),
		    admin_email = COALESCE(NULLIF($3,''), admin_email)
		WHERE admin_id = $1
	`, a.ID, a.Name, a.Email)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM admins WHERE admin_id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
