package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.location, e.start_time, e.end_time, e.is_public,
		e.organizer_id, u.username, e.created_at, e.updated_at`

type eventRepository struct {
	DB     *sql.DB
	Driver Driver
}

func NewEventRepository(db *sql.DB, driver Driver) domain.EventRepository {
	return &eventRepository{
		DB:     db,
		Driver: driver,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	id := uuid.NewString()
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO events (id, title, description, location, start_time, end_time, is_public, organizer_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, query,
			id, e.Title, e.Description, e.Location, utc(e.StartTime), utc(e.EndTime), e.IsPublic,
			e.OrganizerID, utc(e.CreatedAt), utc(e.UpdatedAt),
		); err != nil {
			return err
		}
		return insertInvitees(ctx, tx, id, e.InvitedUserIDs)
	})
	if err != nil {
		return mapError(err)
	}
	e.ID = id
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadInvitees(ctx, []*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := visibilityClause(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events e WHERE ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || params.Offset() >= total {
		return []*domain.Event{}, total, nil
	}

	n := len(args)
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE ` + where + `
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0, params.Limit())
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadInvitees(ctx, events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			UPDATE events
			SET title = $1, description = $2, location = $3, start_time = $4, end_time = $5, is_public = $6, updated_at = $7
			WHERE id = $8
		`
		result, err := tx.ExecContext(ctx, query,
			e.Title, e.Description, e.Location, utc(e.StartTime), utc(e.EndTime), e.IsPublic, utc(e.UpdatedAt), e.ID,
		)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_invitees WHERE event_id = $1`, e.ID); err != nil {
			return err
		}
		return insertInvitees(ctx, tx, e.ID, e.InvitedUserIDs)
	})
	return mapError(err)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// visibilityClause renders an EventFilter as a WHERE condition on alias e.
func visibilityClause(filter domain.EventFilter) (string, []any) {
	if filter.PublicOnly() {
		return `e.is_public = TRUE`, nil
	}
	return `(e.is_public = TRUE OR e.organizer_id = $1 OR EXISTS (
			SELECT 1 FROM event_invitees i WHERE i.event_id = e.id AND i.user_id = $1
		))`, []any{filter.ViewerID}
}

func insertInvitees(ctx context.Context, tx *sql.Tx, eventID string, userIDs []string) error {
	for pos, userID := range userIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_invitees (event_id, user_id, position) VALUES ($1, $2, $3)`,
			eventID, userID, pos,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRepository) loadInvitees(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Event, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		e.InvitedUserIDs = []string{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	cond, args := r.Driver.inClause("event_id", ids, 1)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id, user_id FROM event_invitees WHERE `+cond+` ORDER BY event_id, position`, args...)
	if err != nil {
		return fmt.Errorf("load invitees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID, userID string
		if err := rows.Scan(&eventID, &userID); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.InvitedUserIDs = append(e.InvitedUserIDs, userID)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime, &e.IsPublic,
		&e.OrganizerID, &e.Organizer, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}
