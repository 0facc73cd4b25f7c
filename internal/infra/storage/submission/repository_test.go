package submission

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, time.May, 30, 15, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO form_submissions (form_id,user_subject,professional_id,service_ids,date_time,outcome,error) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at",
	)).
		WithArgs("form-1", "maria@example.com", int64(1), "{11,12}", "2025-06-01T09:00", "created", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), createdAt))

	repo := NewRepository(db)
	got, err := repo.Create(context.Background(), &domain.Submission{
		FormID:         "form-1",
		UserSubject:    "maria@example.com",
		ProfessionalID: 1,
		ServiceIDs:     []int64{11, 12},
		DateTime:       "2025-06-01T09:00",
		Outcome:        domain.SubmissionCreated,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), got.ID)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO form_submissions").WillReturnError(sql.ErrConnDone)

	_, err = NewRepository(db).Create(context.Background(), &domain.Submission{Outcome: domain.SubmissionFailed})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, time.May, 30, 15, 0, 0, 0, time.UTC)
	columns := []string{"id", "form_id", "user_subject", "professional_id", "service_ids", "date_time", "outcome", "error", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, form_id, user_subject, professional_id, service_ids, date_time, outcome, error, created_at FROM form_submissions WHERE user_subject = $1 ORDER BY created_at DESC, id DESC LIMIT 100",
	)).
		WithArgs("maria@example.com").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "form-1", "maria@example.com", int64(1), "{11}", "2025-06-01T09:00", "rejected", "slot taken", createdAt).
			AddRow(int64(1), "form-1", "maria@example.com", int64(1), "{11,12}", "2025-06-01T09:30", "created", nil, createdAt))

	// лимит больше допустимого обрезается
	got, err := NewRepository(db).ListByUser(context.Background(), "maria@example.com", 1000)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.SubmissionRejected, got[0].Outcome)
	require.NotNil(t, got[0].Error)
	assert.Equal(t, "slot taken", *got[0].Error)
	assert.Equal(t, []int64{11}, got[0].ServiceIDs)

	assert.Nil(t, got[1].Error)
	assert.Equal(t, []int64{11, 12}, got[1].ServiceIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUserEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM form_submissions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := NewRepository(db).ListByUser(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
