package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"eventhub/internal/domain"
)

type userRepository struct {
	DB     *sql.DB
	Driver Driver
}

func NewUserRepository(db *sql.DB, driver Driver) domain.UserRepository {
	return &userRepository{
		DB:     db,
		Driver: driver,
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User, p *domain.Profile) error {
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, email, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, u.ID, u.Username, u.Email, utc(u.CreatedAt)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, full_name, bio, location, image_url, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO NOTHING
		`, u.ID, p.FullName, p.Bio, p.Location, p.ImageURL, utc(p.UpdatedAt))
		return err
	})
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListByIDs returns the users that exist among ids, in no particular order.
func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cond, args := r.Driver.inClause("id", ids, 1)
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username, email, created_at FROM users WHERE `+cond, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, full_name, bio, location, image_url, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &domain.Profile{}
	var imageURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.FullName, &p.Bio, &p.Location, &imageURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, bio = $2, location = $3, image_url = $4, updated_at = $5
		WHERE user_id = $6
	`
	result, err := r.DB.ExecContext(ctx, query, p.FullName, p.Bio, p.Location, p.ImageURL, utc(p.UpdatedAt), p.UserID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
