package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/email"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/storage"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/form"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/packaging"
)

// Assembler produces the application PDF from a snapshot.
type Assembler interface {
	Assemble(ctx context.Context, snap *models.Snapshot) ([]byte, error)
}

// Packager produces the submission archive.
type Packager interface {
	Build(ctx context.Context, snap *models.Snapshot, onProgress packaging.ProgressFunc) ([]byte, error)
}

// Recorder persists a submission row. Optional.
type Recorder interface {
	Record(ctx context.Context, snap *models.Snapshot, documentPath string) (string, error)
}

// Server exposes the application over HTTP.
type Server struct {
	cfg       config.ServerConfig
	email     config.EmailConfig
	logger    logger.Logger
	store     *form.Store
	assembler Assembler
	packager  Packager
	uploader  storage.Uploader
	sender    email.Sender
	recorder  Recorder
}

// New wires the HTTP surface. uploader, sender, and recorder may be nil when
// the matching delivery channel is disabled.
func New(cfg config.ServerConfig, emailCfg config.EmailConfig, store *form.Store, assembler Assembler,
	packager Packager, uploader storage.Uploader, sender email.Sender, recorder Recorder, log logger.Logger) *Server {
	return &Server{
		cfg:       cfg,
		email:     emailCfg,
		logger:    log,
		store:     store,
		assembler: assembler,
		packager:  packager,
		uploader:  uploader,
		sender:    sender,
		recorder:  recorder,
	}
}

// Handler builds the full route table wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/uploadPdf", s.handleUploadPDF)

	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/form", s.handleForm)
	mux.HandleFunc("/api/photo", s.handlePhoto)
	mux.HandleFunc("/api/attachments", s.handleAttachments)
	mux.HandleFunc("/api/theme", s.handleTheme)
	mux.HandleFunc("/api/navigate", s.handleNavigate)
	mux.HandleFunc("/api/submit", s.handleSubmit)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/document", s.handleDocument)
	mux.HandleFunc("/api/package", s.handlePackage)
	mux.HandleFunc("/api/deliver", s.handleDeliver)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// writeError maps the error category onto an HTTP status and emits the
// single descriptive message the recovery policy calls for.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.Classify(err) {
	case errors.CategoryRequest:
		status = http.StatusBadRequest
	case errors.CategoryPipeline:
		var std *errors.StandardError
		if errors.As(err, &std) && std.Code == errors.ErrCodePipelineBusy {
			status = http.StatusConflict
		}
	}
	s.writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": errors.UserMessage(err),
	})
}
