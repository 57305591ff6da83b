package models

import "time"

// Page names the screen the application is currently on.
type Page string

const (
	PageForm    Page = "form"
	PageSuccess Page = "success"
	PagePreview Page = "preview"
)

// Status tracks the long-running operations in flight.
type Status struct {
	GeneratingPDF bool `json:"generatingPdf"`
	SendingEmail  bool `json:"sendingEmail"`
	Submitting    bool `json:"submitting"`
}

// Snapshot is the immutable copy of the application taken at submit time.
// Downstream stages (document assembly, packaging, delivery) read from the
// snapshot, never from the live state.
type Snapshot struct {
	FormData    FormData     `json:"formData"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Attachments []Attachment `json:"attachments"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

// ApplicationState is the whole application at a point in time.
type ApplicationState struct {
	FormData         FormData          `json:"formData"`
	ImageURL         string            `json:"imageUrl,omitempty"`
	Attachments      []Attachment      `json:"attachments"`
	Status           Status            `json:"status"`
	Theme            string            `json:"theme"`
	IsSubmitted      bool              `json:"isSubmitted"`
	SubmittedData    *Snapshot         `json:"submittedData,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors"`
	CurrentPage      Page              `json:"currentPage"`
}

// NewApplicationState returns the initial state: empty form, light theme,
// form page, no validation errors.
func NewApplicationState() ApplicationState {
	return ApplicationState{
		FormData:         DefaultFormData(),
		Attachments:      []Attachment{},
		Theme:            "light",
		ValidationErrors: map[string]string{},
		CurrentPage:      PageForm,
	}
}
