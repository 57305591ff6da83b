package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.State())
}

// handleForm merges a partial form record into the live draft.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, errors.NewBadRequestError("unreadable body"))
		return
	}
	if err := s.store.UpdateForm(patch); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		var req struct {
			ImageURL string `json:"imageUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
			s.writeError(w, errors.NewBadRequestError("missing imageUrl"))
			return
		}
		if err := s.store.SetPhoto(req.ImageURL); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	case http.MethodDelete:
		s.store.ClearPhoto()
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleAttachments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var att models.Attachment
		if err := json.NewDecoder(r.Body).Decode(&att); err != nil {
			s.writeError(w, errors.NewBadRequestError("malformed attachment"))
			return
		}
		if att.Name == "" || att.Key == "" {
			s.writeError(w, errors.NewBadRequestError("attachment requires name and key"))
			return
		}
		s.store.AddAttachment(att)
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	case http.MethodDelete:
		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			s.writeError(w, errors.NewBadRequestError("missing or malformed index"))
			return
		}
		if err := s.store.RemoveAttachment(index); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Theme != "light" && req.Theme != "dark") {
		s.writeError(w, errors.NewBadRequestError("theme must be light or dark"))
		return
	}
	s.store.SetTheme(req.Theme)
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	var req struct {
		Page models.Page `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewBadRequestError("malformed navigation request"))
		return
	}
	switch req.Page {
	case models.PagePreview:
		s.store.NavigateToPreview()
	case models.PageSuccess:
		s.store.NavigateToSuccess()
	default:
		s.writeError(w, errors.NewBadRequestError("page must be preview or success"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSubmit runs validation and, when it passes, snapshots the
// application and records it.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	result := s.store.Submit(r.Context())
	if !result.Valid {
		s.writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	if s.recorder != nil {
		snap, err := s.store.Submission()
		if err == nil {
			if _, err := s.recorder.Record(r.Context(), snap, ""); err != nil {
				// Recording is best-effort; the submission itself stands.
				s.logger.Warn("Submission record failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleReset handles both reset flavors: "toForm" discards a submission
// and returns to the form page, "form" blanks the working draft in place.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewBadRequestError("malformed reset request"))
		return
	}
	switch req.Mode {
	case "toForm":
		s.store.ResetToForm()
	case "form":
		s.store.ResetForm()
	default:
		s.writeError(w, errors.NewBadRequestError("mode must be form or toForm"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
}
