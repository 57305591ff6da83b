package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

type uploadRequest struct {
	Base64   string `json:"base64"`
	Filename string `json:"filename"`
}

// handleUploadPDF accepts a base64 document and stores it publicly,
// returning the download link.
//
//	POST {base64, filename} -> 200 {ok, downloadURL, path}
//	wrong method            -> 405 {error}
//	missing field           -> 400 {error}
//	storage failure         -> 500 {ok:false, error}
func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Base64 == "" || req.Filename == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing base64 or filename"})
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Base64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid base64 payload"})
		return
	}

	result, err := s.uploader.Upload(r.Context(), req.Filename, content, "application/pdf")
	if err != nil {
		s.logger.Error("Upload failed", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          true,
		"downloadURL": result.DownloadURL,
		"path":        result.Path,
	})
}
