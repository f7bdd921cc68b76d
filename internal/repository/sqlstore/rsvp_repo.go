package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

const rsvpColumns = `r.id, r.event_id, r.user_id, u.username, r.status, r.created_at, r.updated_at`

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Upsert relies on UNIQUE (event_id, user_id): concurrent callers for the same
// pair collapse onto one row and the last write wins the status.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (id, event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`
	if _, err := r.DB.ExecContext(ctx, query,
		uuid.NewString(), rsvp.EventID, rsvp.UserID, string(rsvp.Status), utc(rsvp.CreatedAt), utc(rsvp.UpdatedAt),
	); err != nil {
		return mapError(err)
	}
	stored, err := r.GetByEventAndUser(ctx, rsvp.EventID, rsvp.UserID)
	if err != nil {
		return err
	}
	*rsvp = *stored
	return nil
}

func (r *rsvpRepository) UpdateStatus(ctx context.Context, eventID, userID string, status domain.RSVPStatus, updatedAt time.Time) (*domain.RSVP, error) {
	query := `UPDATE rsvps SET status = $1, updated_at = $2 WHERE event_id = $3 AND user_id = $4`
	result, err := r.DB.ExecContext(ctx, query, string(status), utc(updatedAt), eventID, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByEventAndUser(ctx, eventID, userID)
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.user_id = $2
	`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at, r.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rsvp)
	}
	return list, rows.Err()
}

func scanRSVP(row rowScanner) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	var status string
	if err := row.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.User, &status, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
		return nil, err
	}
	rsvp.Status = domain.RSVPStatus(status)
	return rsvp, nil
}
