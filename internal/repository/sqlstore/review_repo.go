package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &reviewRepository{
		DB: db,
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	id := uuid.NewString()
	query := `
		INSERT INTO reviews (id, event_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.DB.ExecContext(ctx, query,
		id, review.EventID, review.UserID, review.Rating, review.Comment, utc(review.CreatedAt),
	); err != nil {
		return mapError(err)
	}
	review.ID = id
	return nil
}

func (r *reviewRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Review, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		rv := &domain.Review{}
		if err := rows.Scan(&rv.ID, &rv.EventID, &rv.UserID, &rv.User, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
