package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// AuditRepository stores append-only audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (complaint_id, actor, old_status, new_status,
            old_level, new_level, old_deadline, new_deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.Actor,
		entry.OldStatus,
		entry.NewStatus,
		entry.OldLevel,
		entry.NewLevel,
		entry.OldDeadline,
		entry.NewDeadline,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, complaint_id, actor, old_status, new_status, old_level, new_level,
               old_deadline, new_deadline, created_at
        FROM audit_log WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.Actor,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.OldLevel,
			&entry.NewLevel,
			&entry.OldDeadline,
			&entry.NewDeadline,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
