package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
	ErrNoAddress    = errors.New("no address on file")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User, updatePassword bool) error
	Delete(ctx context.Context, id string) (bool, error)
	TouchLastLogin(ctx context.Context, id string) error
	GetAddress(ctx context.Context, userID string) (*Address, error)
	PutAddress(ctx context.Context, userID string, a Address) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone_number, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.Role)
	if err != nil {
		// simplified: UNIQUE on username/email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, COALESCE(first_name,''), COALESCE(last_name,''),
		       COALESCE(phone_number,''), role, created_at, last_login
		FROM users WHERE id=$1
	`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, COALESCE(first_name,''), COALESCE(last_name,''),
		       COALESCE(phone_number,''), role, created_at, last_login
		FROM users WHERE email=$1
	`, email))
}

func (r *PGRepo) scanOne(row pgx.Row) (*User, error) {
	var u User
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.PhoneNumber, &u.Role, &u.CreatedAt, &lastLogin); err != nil {
		return nil, ErrNotFound
	}
	if lastLogin.Valid {
		u.LastLogin = lastLogin.Time
	}
	return &u, nil
}

func (r *PGRepo) Update(ctx context.Context, u *User, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePassword {
		_, err := r.db.Exec(ctx, `
			UPDATE users
			SET username = COALESCE(NULLIF($2, ''), username),
			    email    = COALESCE(NULLIF($3, ''), email),
			    first_name = COALESCE(NULLIF($4, ''), first_name),
			    last_name  = COALESCE(NULLIF($5, ''), last_name),
			    phone_number = COALESCE(NULLIF($6, ''), phone_number),
			    password_hash = $7
			WHERE id = $1
		`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.PasswordHash)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = COALESCE(NULLIF($2, ''), username),
		    email    = COALESCE(NULLIF($3, ''), email),
		    first_name = COALESCE(NULLIF($4, ''), first_name),
		    last_name  = COALESCE(NULLIF($5, ''), last_name),
		    phone_number = COALESCE(NULLIF($6, ''), phone_number)
		WHERE id = $1
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PhoneNumber)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) TouchLastLogin(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id=$1`, id)
	return err
}

func (r *PGRepo) GetAddress(ctx context.Context, userID string) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Address
	err := r.db.QueryRow(ctx, `
		SELECT street, city, COALESCE(state,''), country FROM addresses WHERE user_id=$1
	`, userID).Scan(&a.Street, &a.City, &a.State, &a.Country)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoAddress
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGRepo) PutAddress(ctx context.Context, userID string, a Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO addresses (id, user_id, street, city, state, country)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET street = EXCLUDED.street, city = EXCLUDED.city,
		    state = EXCLUDED.state, country = EXCLUDED.country
	`, userID, a.Street, a.City, a.State, a.Country)
	return err
}
