package form

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/persistence"
)

const persistTimeout = 5 * time.Second

// Persister is the slice of the draft store the state machine needs.
type Persister interface {
	Save(ctx context.Context, st persistence.PersistedState) error
	Load(ctx context.Context) (*persistence.PersistedState, error)
	Clear(ctx context.Context) error
}

// Store is the single application state machine. All mutations go through
// its methods under one lock; edits to form data, photo, or attachments
// schedule a debounced write of the draft snapshot.
type Store struct {
	mu         sync.Mutex
	state      models.ApplicationState
	pdfCache   []byte
	pipelining bool

	persister Persister
	debounce  *persistence.Debouncer
	logger    logger.Logger
}

// NewStore builds the state machine and hydrates from a persisted draft if
// one exists. A corrupt or unreadable draft is logged and ignored: the
// application starts empty rather than not at all.
func NewStore(ctx context.Context, persister Persister, debounceDelay time.Duration, log logger.Logger) *Store {
	s := &Store{
		state:     models.NewApplicationState(),
		persister: persister,
		debounce:  persistence.NewDebouncer(debounceDelay),
		logger:    log,
	}

	if persister != nil {
		draft, err := persister.Load(ctx)
		switch {
		case err != nil:
			log.Warn("Draft hydration failed, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		case draft != nil:
			s.state.FormData = draft.FormData
			s.state.ImageURL = draft.ImageURL
			s.state.Attachments = draft.Attachments
			if draft.Theme != "" {
				s.state.Theme = draft.Theme
			}
			log.Info("Hydrated draft snapshot", map[string]interface{}{
				"savedAt":     draft.SavedAt,
				"attachments": len(draft.Attachments),
			})
		}
	}
	return s
}

// State returns a copy of the current application state.
func (s *Store) State() models.ApplicationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *Store) copyStateLocked() models.ApplicationState {
	out := s.state
	out.FormData = s.state.FormData.Clone()
	out.Attachments = append([]models.Attachment{}, s.state.Attachments...)
	out.ValidationErrors = map[string]string{}
	for k, v := range s.state.ValidationErrors {
		out.ValidationErrors[k] = v
	}
	if s.state.SubmittedData != nil {
		snap := *s.state.SubmittedData
		snap.FormData = s.state.SubmittedData.FormData.Clone()
		snap.Attachments = append([]models.Attachment{}, s.state.SubmittedData.Attachments...)
		out.SubmittedData = &snap
	}
	return out
}

// UpdateForm merges a partial record into the live form data. Only keys
// present in the patch change; absent keys keep their current values.
func (s *Store) UpdateForm(patch json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.state.FormData.Clone()
	if err := json.Unmarshal(patch, &merged); err != nil {
		return errors.NewBadRequestError("malformed form patch: " + err.Error())
	}
	merged.Normalize()
	s.state.FormData = merged
	s.schedulePersistLocked()
	return nil
}

// SetPhoto validates and stores the portrait reference.
func (s *Store) SetPhoto(ref string) error {
	if err := ValidatePhoto(ref); err != nil {
		return errors.NewBadRequestError(err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ImageURL = ref
	s.schedulePersistLocked()
	return nil
}

// ClearPhoto removes the portrait reference.
func (s *Store) ClearPhoto() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ImageURL = ""
	s.schedulePersistLocked()
}

// AddAttachment stores an attachment in its slot. One attachment per slot:
// uploading to an occupied slot replaces the previous file.
func (s *Store) AddAttachment(att models.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Attachments[:0]
	for _, existing := range s.state.Attachments {
		if existing.Key != att.Key {
			kept = append(kept, existing)
		}
	}
	s.state.Attachments = append(kept, att)
	s.schedulePersistLocked()
}

// RemoveAttachment deletes the attachment at the given index.
func (s *Store) RemoveAttachment(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.state.Attachments) {
		return errors.NewAttachmentBoundsError(index, len(s.state.Attachments))
	}
	s.state.Attachments = append(s.state.Attachments[:index], s.state.Attachments[index+1:]...)
	s.schedulePersistLocked()
	return nil
}

// SetTheme switches the UI theme.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	s.schedulePersistLocked()
}

// Submit validates the live form. On failure the validation errors are
// stored and no transition happens. On success an immutable snapshot is
// taken, the persisted draft is deleted, and the page moves to Success.
func (s *Store) Submit(ctx context.Context) ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Validate(s.state.FormData, s.state.ImageURL)
	if !result.Valid {
		s.state.ValidationErrors = result.Errors
		return result
	}

	snap := &models.Snapshot{
		FormData:    s.state.FormData.Clone(),
		ImageURL:    s.state.ImageURL,
		Attachments: append([]models.Attachment{}, s.state.Attachments...),
		SubmittedAt: time.Now().UTC(),
	}
	s.state.IsSubmitted = true
	s.state.SubmittedData = snap
	s.state.Status.Submitting = true
	s.state.ValidationErrors = map[string]string{}
	s.state.CurrentPage = models.PageSuccess

	// A submitted application must not resurrect a stale draft.
	s.debounce.Flush()
	if s.persister != nil {
		if err := s.persister.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear persisted draft after submit", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return result
}

// ResetToForm discards the submission and returns a blank form.
func (s *Store) ResetToForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IsSubmitted = false
	s.state.SubmittedData = nil
	s.state.FormData = models.DefaultFormData()
	s.state.ImageURL = ""
	s.state.Attachments = []models.Attachment{}
	s.state.ValidationErrors = map[string]string{}
	s.state.CurrentPage = models.PageForm
	s.pdfCache = nil
	s.schedulePersistLocked()
}

// ResetForm blanks the form data, photo, attachments, and the cached
// document without navigating away.
func (s *Store) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.FormData = models.DefaultFormData()
	s.state.ImageURL = ""
	s.state.Attachments = []models.Attachment{}
	s.state.IsSubmitted = false
	s.state.SubmittedData = nil
	s.state.ValidationErrors = map[string]string{}
	s.pdfCache = nil
	s.schedulePersistLocked()
}

// NavigateToPreview moves to the preview page.
func (s *Store) NavigateToPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = models.PagePreview
}

// NavigateToSuccess moves to the success page.
func (s *Store) NavigateToSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = models.PageSuccess
}

// SetValidationErrors stores externally computed validation errors.
func (s *Store) SetValidationErrors(errs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if errs == nil {
		errs = map[string]string{}
	}
	s.state.ValidationErrors = errs
}

// ClearValidationErrors empties the validation error map.
func (s *Store) ClearValidationErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ValidationErrors = map[string]string{}
}

// Submission returns the submitted snapshot, or an error if none exists.
func (s *Store) Submission() (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SubmittedData == nil {
		return nil, errors.NewNoSubmissionError()
	}
	snap := *s.state.SubmittedData
	snap.FormData = s.state.SubmittedData.FormData.Clone()
	snap.Attachments = append([]models.Attachment{}, s.state.SubmittedData.Attachments...)
	return &snap, nil
}

// BeginPipeline marks the document pipeline busy. A second call before
// EndPipeline fails: at most one assembly runs at a time.
func (s *Store) BeginPipeline() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipelining {
		return errors.NewPipelineBusyError()
	}
	s.pipelining = true
	s.state.Status.GeneratingPDF = true
	return nil
}

// EndPipeline releases the pipeline guard.
func (s *Store) EndPipeline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelining = false
	s.state.Status.GeneratingPDF = false
}

// SetSendingEmail toggles the email-in-flight flag.
func (s *Store) SetSendingEmail(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status.SendingEmail = v
}

// SetDocumentCache stores the last assembled document.
func (s *Store) SetDocumentCache(pdf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfCache = pdf
}

// DocumentCache returns the last assembled document, or nil.
func (s *Store) DocumentCache() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pdfCache
}

// Flush forces any pending draft write to run now.
func (s *Store) Flush() {
	s.debounce.Flush()
}

// Close flushes pending persistence work. Call on shutdown.
func (s *Store) Close() {
	s.debounce.Close()
}

// schedulePersistLocked snapshots the persistable slice of state and hands
// it to the debouncer. Caller must hold the lock.
func (s *Store) schedulePersistLocked() {
	if s.persister == nil {
		return
	}
	st := persistence.PersistedState{
		FormData:    s.state.FormData.Clone(),
		ImageURL:    s.state.ImageURL,
		Theme:       s.state.Theme,
		Attachments: append([]models.Attachment{}, s.state.Attachments...),
	}
	s.debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.Save(ctx, st); err != nil {
			s.logger.Warn("Draft persist failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
}
