package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures list query parameters.
type ComplaintFilter struct {
	CitizenID  *string
	Department *string
	Statuses   []domain.ComplaintStatus
	Severities []domain.ComplaintSeverity
	Limit      int
	Offset     int
}

// SLAUpdate is the field-level mutation applied by the watchdog when a
// complaint transitions. Both deadline fields receive the same value.
type SLAUpdate struct {
	Status          domain.ComplaintStatus
	EscalationLevel int
	NewDeadline     time.Time
	UpdatedAt       time.Time
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Update(ctx context.Context, complaint *domain.Complaint) error
	UpdateSLAFields(ctx context.Context, id string, update SLAUpdate) error
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	ListActive(ctx context.Context, statuses []domain.ComplaintStatus, limit int) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, reference_key, citizen_id, title, description, department,
       assigned_department, severity, status, escalation_level,
       sla_deadline, expected_resolution_time, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference_key, citizen_id, title, description, department,
            assigned_department, severity, status, escalation_level, sla_deadline, expected_resolution_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ReferenceKey,
		complaint.CitizenID,
		complaint.Title,
		complaint.Description,
		complaint.Department,
		complaint.AssignedDepartment,
		complaint.Severity,
		complaint.Status,
		complaint.EscalationLevel,
		complaint.SLADeadline,
		complaint.ExpectedResolutionTime,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, department=$3, assigned_department=$4,
            severity=$5, status=$6, escalation_level=$7, sla_deadline=$8,
            expected_resolution_time=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Department,
		complaint.AssignedDepartment,
		complaint.Severity,
		complaint.Status,
		complaint.EscalationLevel,
		complaint.SLADeadline,
		complaint.ExpectedResolutionTime,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateSLAFields applies the watchdog transition as a single-row update.
// Writing the same target status/level twice is harmless, which is what
// makes concurrent watchdog instances safe without a distributed lock.
func (r *complaintRepository) UpdateSLAFields(ctx context.Context, id string, update SLAUpdate) error {
	const query = `
        UPDATE complaints SET status=$1, escalation_level=$2, sla_deadline=$3,
            expected_resolution_time=$3, updated_at=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		update.Status,
		update.EscalationLevel,
		update.NewDeadline,
		update.UpdatedAt,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) ListActive(ctx context.Context, statuses []domain.ComplaintStatus, limit int) ([]domain.Complaint, error) {
	return r.ListWithFilter(ctx, ComplaintFilter{Statuses: statuses, Limit: limit})
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CitizenID != nil {
		args = append(args, *filter.CitizenID)
		clauses = append(clauses, fmt.Sprintf("citizen_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Severities) > 0 {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			args = append(args, severity)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.ReferenceKey,
		&c.CitizenID,
		&c.Title,
		&c.Description,
		&c.Department,
		&c.AssignedDepartment,
		&c.Severity,
		&c.Status,
		&c.EscalationLevel,
		&c.SLADeadline,
		&c.ExpectedResolutionTime,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(complaintFields(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
