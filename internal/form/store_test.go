package form

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/persistence"
)

// memoryPersister is an in-memory Persister for store tests.
type memoryPersister struct {
	mu    sync.Mutex
	state *persistence.PersistedState
	saves int
}

func (m *memoryPersister) Save(_ context.Context, st persistence.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &st
	m.saves++
	return nil
}

func (m *memoryPersister) Load(context.Context) (*persistence.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	st := *m.state
	return &st, nil
}

func (m *memoryPersister) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

func (m *memoryPersister) snapshot() *persistence.PersistedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *memoryPersister) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func newTestStore(t *testing.T) (*Store, *memoryPersister) {
	t.Helper()
	p := &memoryPersister{}
	s := NewStore(context.Background(), p, 10*time.Millisecond, logger.NewTestLogger(t))
	t.Cleanup(s.Close)
	return s, p
}

func fillValid(t *testing.T, s *Store) {
	t.Helper()
	patch, err := json.Marshal(completeFormData())
	require.NoError(t, err)
	require.NoError(t, s.UpdateForm(patch))
	require.NoError(t, s.SetPhoto(portraitRef(t, 300, 400)))
}

func TestUpdateFormMergesOnlyPatchedKeys(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.UpdateForm(json.RawMessage(`{"lastNameRomaji":"NGUYEN","email":"a@b.co"}`)))
	require.NoError(t, s.UpdateForm(json.RawMessage(`{"firstNameRomaji":"VAN A"}`)))

	st := s.State()
	assert.Equal(t, "NGUYEN", st.FormData.LastNameRomaji)
	assert.Equal(t, "VAN A", st.FormData.FirstNameRomaji)
	assert.Equal(t, "a@b.co", st.FormData.Email)
}

func TestUpdateFormRejectsMalformedPatch(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Error(t, s.UpdateForm(json.RawMessage(`{broken`)))
}

func TestUpdateFormNestedStructures(t *testing.T) {
	s, _ := newTestStore(t)

	patch := `{"sponsor":{"fullName":"Nguyen Van B"},"education":[{"schoolName":"Hanoi High School","startYm":"2012-09"}]}`
	require.NoError(t, s.UpdateForm(json.RawMessage(patch)))

	st := s.State()
	assert.Equal(t, "Nguyen Van B", st.FormData.Sponsor.FullName)
	require.Len(t, st.FormData.Education, 1)
	assert.Equal(t, "Hanoi High School", st.FormData.Education[0].SchoolName)
}

func TestDebouncedPersistCoalescesRapidEdits(t *testing.T) {
	s, p := newTestStore(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.UpdateForm(json.RawMessage(`{"phone":"123"}`)))
	}

	require.Eventually(t, func() bool {
		return p.snapshot() != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, p.saveCount())
	assert.Equal(t, "123", p.snapshot().FormData.Phone)
}

func TestHydrateFromPersistedDraft(t *testing.T) {
	p := &memoryPersister{state: &persistence.PersistedState{
		FormData: func() models.FormData {
			d := models.DefaultFormData()
			d.LastNameRomaji = "TRAN"
			return d
		}(),
		Theme:       "dark",
		Attachments: []models.Attachment{{Name: "passport.pdf", Key: models.AttachmentPassport}},
	}}

	s := NewStore(context.Background(), p, 10*time.Millisecond, logger.NewNoOpLogger())
	defer s.Close()

	st := s.State()
	assert.Equal(t, "TRAN", st.FormData.LastNameRomaji)
	assert.Equal(t, "dark", st.Theme)
	require.Len(t, st.Attachments, 1)
	assert.Equal(t, models.PageForm, st.CurrentPage)
}

func TestAddAttachmentReplacesSameSlot(t *testing.T) {
	s, _ := newTestStore(t)

	s.AddAttachment(models.Attachment{Name: "old_passport.pdf", Key: models.AttachmentPassport})
	s.AddAttachment(models.Attachment{Name: "degree.pdf", Key: models.AttachmentCertificate})
	s.AddAttachment(models.Attachment{Name: "new_passport.pdf", Key: models.AttachmentPassport})

	st := s.State()
	require.Len(t, st.Attachments, 2)
	names := []string{st.Attachments[0].Name, st.Attachments[1].Name}
	assert.Contains(t, names, "degree.pdf")
	assert.Contains(t, names, "new_passport.pdf")
	assert.NotContains(t, names, "old_passport.pdf")
}

func TestRemoveAttachmentBounds(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddAttachment(models.Attachment{Name: "a.pdf", Key: models.AttachmentOther})

	assert.Error(t, s.RemoveAttachment(-1))
	assert.Error(t, s.RemoveAttachment(1))
	assert.NoError(t, s.RemoveAttachment(0))
	assert.Empty(t, s.State().Attachments)
}

func TestSubmitInvalidKeepsPage(t *testing.T) {
	s, p := newTestStore(t)
	require.NoError(t, s.UpdateForm(json.RawMessage(`{"lastNameRomaji":"NGUYEN"}`)))
	s.Flush()
	require.NotNil(t, p.snapshot())

	result := s.Submit(context.Background())
	assert.False(t, result.Valid)

	st := s.State()
	assert.Equal(t, models.PageForm, st.CurrentPage)
	assert.False(t, st.IsSubmitted)
	assert.Nil(t, st.SubmittedData)
	assert.NotEmpty(t, st.ValidationErrors)
	// An invalid submit must not touch the persisted draft.
	assert.NotNil(t, p.snapshot())
}

func TestSubmitValidTransitionsAndClearsDraft(t *testing.T) {
	s, p := newTestStore(t)
	fillValid(t, s)
	s.AddAttachment(models.Attachment{Name: "passport.pdf", Key: models.AttachmentPassport})
	s.Flush()
	require.NotNil(t, p.snapshot())

	result := s.Submit(context.Background())
	require.True(t, result.Valid)

	st := s.State()
	assert.Equal(t, models.PageSuccess, st.CurrentPage)
	assert.True(t, st.IsSubmitted)
	require.NotNil(t, st.SubmittedData)
	assert.Equal(t, "NGUYEN", st.SubmittedData.FormData.LastNameRomaji)
	assert.Len(t, st.SubmittedData.Attachments, 1)
	assert.Empty(t, st.ValidationErrors)
	assert.Nil(t, p.snapshot())
}

func TestSnapshotIsImmutableCopy(t *testing.T) {
	s, _ := newTestStore(t)
	fillValid(t, s)
	require.True(t, s.Submit(context.Background()).Valid)

	// Edits after submit must not leak into the snapshot.
	require.NoError(t, s.UpdateForm(json.RawMessage(`{"lastNameRomaji":"CHANGED"}`)))

	snap, err := s.Submission()
	require.NoError(t, err)
	assert.Equal(t, "NGUYEN", snap.FormData.LastNameRomaji)
}

func TestSubmissionWithoutSubmitFails(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Submission()
	assert.Error(t, err)
}

func TestResetToForm(t *testing.T) {
	s, _ := newTestStore(t)
	fillValid(t, s)
	s.AddAttachment(models.Attachment{Name: "passport.pdf", Key: models.AttachmentPassport})
	require.True(t, s.Submit(context.Background()).Valid)

	s.ResetToForm()

	st := s.State()
	assert.Equal(t, models.PageForm, st.CurrentPage)
	assert.False(t, st.IsSubmitted)
	assert.Nil(t, st.SubmittedData)
	assert.Empty(t, st.Attachments)
	assert.Empty(t, st.ImageURL)
	assert.Equal(t, models.DefaultFormData(), st.FormData)
}

func TestResetFormClearsDocumentCache(t *testing.T) {
	s, _ := newTestStore(t)
	fillValid(t, s)
	s.SetDocumentCache([]byte("%PDF-1.7"))
	require.NotNil(t, s.DocumentCache())

	s.ResetForm()

	assert.Nil(t, s.DocumentCache())
	assert.Equal(t, models.DefaultFormData(), s.State().FormData)
}

func TestPipelineGuard(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.BeginPipeline())
	assert.True(t, s.State().Status.GeneratingPDF)

	// Second begin while busy fails.
	assert.Error(t, s.BeginPipeline())

	s.EndPipeline()
	assert.False(t, s.State().Status.GeneratingPDF)
	assert.NoError(t, s.BeginPipeline())
	s.EndPipeline()
}

func TestSetPhotoValidates(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Error(t, s.SetPhoto(portraitRef(t, 100, 133)))
	assert.Empty(t, s.State().ImageURL)

	require.NoError(t, s.SetPhoto(portraitRef(t, 300, 400)))
	assert.NotEmpty(t, s.State().ImageURL)

	s.ClearPhoto()
	assert.Empty(t, s.State().ImageURL)
}

func TestNavigation(t *testing.T) {
	s, _ := newTestStore(t)

	s.NavigateToPreview()
	assert.Equal(t, models.PagePreview, s.State().CurrentPage)

	s.NavigateToSuccess()
	assert.Equal(t, models.PageSuccess, s.State().CurrentPage)
}

func TestStateReturnsDefensiveCopy(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.UpdateForm(json.RawMessage(`{"lastNameRomaji":"NGUYEN"}`)))

	st := s.State()
	st.FormData.LastNameRomaji = "MUTATED"
	st.ValidationErrors["injected"] = "x"

	fresh := s.State()
	assert.Equal(t, "NGUYEN", fresh.FormData.LastNameRomaji)
	assert.NotContains(t, fresh.ValidationErrors, "injected")
}
