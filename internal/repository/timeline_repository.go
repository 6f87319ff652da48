package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TimelineRepository stores append-only timeline events. Each append is a
// single-row insert, so concurrent appenders never lose or overwrite entries.
type TimelineRepository interface {
	Append(ctx context.Context, event *domain.TimelineEvent) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.TimelineEvent, error)
}

type timelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository builds repository.
func NewTimelineRepository(pool *pgxpool.Pool) TimelineRepository {
	return &timelineRepository{pool: pool}
}

func (r *timelineRepository) Append(ctx context.Context, event *domain.TimelineEvent) error {
	const query = `
        INSERT INTO timeline_events (complaint_id, event_type, action, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.ComplaintID,
		event.Type,
		event.Action,
		event.Message,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *timelineRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.TimelineEvent, error) {
	const query = `
        SELECT id, complaint_id, event_type, action, message, created_at
        FROM timeline_events WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimelineEvent
	for rows.Next() {
		var event domain.TimelineEvent
		if err := rows.Scan(
			&event.ID,
			&event.ComplaintID,
			&event.Type,
			&event.Action,
			&event.Message,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
