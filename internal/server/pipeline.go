package server

import (
	"net/http"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/email"
)

// handleDocument runs the assembly pipeline against the submitted snapshot
// and returns the PDF. At most one assembly runs at a time; a concurrent
// request gets 409.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	snap, err := s.store.Submission()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.BeginPipeline(); err != nil {
		s.writeError(w, err)
		return
	}
	defer s.store.EndPipeline()

	pdf, err := s.assembler.Assemble(r.Context(), snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.store.SetDocumentCache(pdf)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="Application_Form.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Error("Failed to write document response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// handlePackage builds and returns the submission archive.
func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	snap, err := s.store.Submission()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.BeginPipeline(); err != nil {
		s.writeError(w, err)
		return
	}
	defer s.store.EndPipeline()

	archive, err := s.packager.Build(r.Context(), snap, func(step string, percent int) {
		s.logger.Debug("Packaging progress", map[string]interface{}{
			"step":    step,
			"percent": percent,
		})
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="Application_Package.zip"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		s.logger.Error("Failed to write package response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// handleDeliver emails the assembled document to the applicant. The cached
// document from a previous assembly is reused when present.
func (s *Server) handleDeliver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if s.sender == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"ok":    false,
			"error": "email delivery is disabled",
		})
		return
	}

	snap, err := s.store.Submission()
	if err != nil {
		s.writeError(w, err)
		return
	}

	pdf := s.store.DocumentCache()
	if pdf == nil {
		if err := s.store.BeginPipeline(); err != nil {
			s.writeError(w, err)
			return
		}
		pdf, err = s.assembler.Assemble(r.Context(), snap)
		s.store.EndPipeline()
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.store.SetDocumentCache(pdf)
	}

	s.store.SetSendingEmail(true)
	defer s.store.SetSendingEmail(false)

	result, err := s.sender.Send(r.Context(), email.Message{
		To: snap.FormData.Email,
		Attachments: []email.Attachment{
			{Filename: s.email.PDFFilename, Content: pdf},
		},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
