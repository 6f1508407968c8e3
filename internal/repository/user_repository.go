package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voiceout/platform/internal/domain"
)

// UserRepository is the directory of known platform users. It backs the
// referral picker and supplies profiles for demo logins.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO directory_users (email, name, role, profile)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name, role=EXCLUDED.role, profile=EXCLUDED.profile, updated_at=NOW()`
	_, err = r.pool.Exec(ctx, query, user.Email, user.Name, user.Role, profile)
	return err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT email, name, role, profile FROM directory_users WHERE email=$1`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	const query = `SELECT email, name, role, profile FROM directory_users WHERE role=$1 ORDER BY email ASC`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	result := []domain.User{}
	for rows.Next() {
		var (
			email, name string
			role        domain.Role
			raw         []byte
		)
		if err := rows.Scan(&email, &name, &role, &raw); err != nil {
			return nil, err
		}
		profile, err := domain.DecodeProfile(role, raw)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.User{Email: email, Name: name, Role: role, Profile: profile})
	}
	return result, rows.Err()
}
