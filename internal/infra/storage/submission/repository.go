package submission

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/pkg/psqlbuilder"
)

const tableName = "form_submissions"

// Repository журнал отправок формы записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает попытку отправки формы
func (r *Repository) Create(ctx context.Context, submission *domain.Submission) (*domain.Submission, error) {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"form_id",
			"user_subject",
			"professional_id",
			"service_ids",
			"date_time",
			"outcome",
			"error",
		).
		Values(
			submission.FormID,
			submission.UserSubject,
			submission.ProfessionalID,
			pq.Array(submission.ServiceIDs),
			submission.DateTime,
			submission.Outcome,
			submission.Error,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&submission.ID,
		&createdAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	submission.CreatedAt = createdAt.Time

	return submission, nil
}

// ListByUser получает последние отправки пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userSubject string, limit int) ([]*domain.Submission, error) {
	if limit <= 0 || limit > domain.MaxSubmissionsListLimit {
		limit = domain.MaxSubmissionsListLimit
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"form_id",
		"user_subject",
		"professional_id",
		"service_ids",
		"date_time",
		"outcome",
		"error",
		"created_at",
	).
		From(tableName).
		Where(squirrel.Eq{"user_subject": userSubject}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	submissions := make([]*domain.Submission, 0)
	for rows.Next() {
		var (
			s          domain.Submission
			serviceIDs pq.Int64Array
			errText    sql.NullString
			createdAt  sql.NullTime
		)

		if err := rows.Scan(
			&s.ID,
			&s.FormID,
			&s.UserSubject,
			&s.ProfessionalID,
			&serviceIDs,
			&s.DateTime,
			&s.Outcome,
			&errText,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}

		s.ServiceIDs = []int64(serviceIDs)
		if errText.Valid {
			s.Error = &errText.String
		}
		s.CreatedAt = createdAt.Time

		submissions = append(submissions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows iteration: %v", ErrScanRow, err)
	}

	return submissions, nil
}
