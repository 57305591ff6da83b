package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/metrics"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

// Recorder writes one row per submitted application. The full form record
// goes into a JSONB column; a few hot fields are extracted for querying.
type Recorder struct {
	db     *sql.DB
	logger logger.Logger
}

// NewRecorder builds a submission recorder.
func NewRecorder(db *sql.DB, log logger.Logger) *Recorder {
	return &Recorder{db: db, logger: log}
}

// Record inserts the submission and returns the generated id. documentPath
// is the storage path of the assembled document, empty if none was uploaded.
func (r *Recorder) Record(ctx context.Context, snap *models.Snapshot, documentPath string) (string, error) {
	id := uuid.New().String()

	formJSON, err := json.Marshal(snap.FormData)
	if err != nil {
		return "", errors.NewRecordInsertFailedError(err)
	}

	fullName := snap.FormData.FullName
	if fullName == "" {
		fullName = snap.FormData.LastNameRomaji + " " + snap.FormData.FirstNameRomaji
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, full_name, email, nationality, form_data,
			attachment_count, document_path, submitted_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		fullName,
		snap.FormData.Email,
		snap.FormData.Nationality,
		formJSON,
		len(snap.Attachments),
		documentPath,
		snap.SubmittedAt.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return "", errors.NewRecordInsertFailedError(err)
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	r.logger.Info("Submission recorded", map[string]interface{}{
		"id":          id,
		"email":       snap.FormData.Email,
		"attachments": len(snap.Attachments),
	})
	return id, nil
}
