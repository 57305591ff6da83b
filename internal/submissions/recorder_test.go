package submissions

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

func testSnapshot() *models.Snapshot {
	d := models.DefaultFormData()
	d.LastNameRomaji = "NGUYEN"
	d.FirstNameRomaji = "VAN A"
	d.Email = "applicant@example.com"
	d.Nationality = "Vietnam"
	return &models.Snapshot{
		FormData: d,
		Attachments: []models.Attachment{
			{Name: "passport.pdf", Key: models.AttachmentPassport},
		},
		SubmittedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecordInsertsSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(
			sqlmock.AnyArg(), // generated id
			"NGUYEN VAN A",
			"applicant@example.com",
			"Vietnam",
			sqlmock.AnyArg(), // form_data json
			1,
			"application-forms/2026-09-01_form.pdf",
			"2026-09-01T10:00:00Z",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewRecorder(db, logger.NewTestLogger(t))
	id, err := r.Record(context.Background(), testSnapshot(), "application-forms/2026-09-01_form.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPrefersExplicitFullName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	snap := testSnapshot()
	snap.FormData.FullName = "Nguyen Van A"

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(
			sqlmock.AnyArg(),
			"Nguyen Van A",
			"applicant@example.com",
			"Vietnam",
			sqlmock.AnyArg(),
			1,
			"",
			"2026-09-01T10:00:00Z",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewRecorder(db, logger.NewTestLogger(t))
	_, err = r.Record(context.Background(), snap, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWrapsInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO submissions").WillReturnError(assert.AnError)

	r := NewRecorder(db, logger.NewTestLogger(t))
	_, err = r.Record(context.Background(), testSnapshot(), "")
	assert.Error(t, err)
}
