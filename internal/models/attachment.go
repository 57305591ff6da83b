package models

// AttachmentKey identifies the upload slot an attachment belongs to. Slots
// map one-to-one onto folders inside the packaged archive.
type AttachmentKey string

const (
	AttachmentPassport    AttachmentKey = "passport"
	AttachmentCertificate AttachmentKey = "certificate"
	AttachmentOther       AttachmentKey = "other"
)

// Attachment is a supporting document uploaded alongside the form. Content
// may arrive in one of three shapes: a server-local file path, an inline
// base64 payload (optionally a data URL), or a fetchable URL. LocalPath is
// never serialized into persisted snapshots.
type Attachment struct {
	Name       string        `json:"name"`
	Size       int64         `json:"size"`
	Type       string        `json:"type"`
	Key        AttachmentKey `json:"key"`
	Base64     string        `json:"base64,omitempty"`
	PreviewURL string        `json:"previewUrl,omitempty"`
	LocalPath  string        `json:"-"`
}

// HasContent reports whether at least one content source is present.
func (a Attachment) HasContent() bool {
	return a.LocalPath != "" || a.Base64 != "" || a.PreviewURL != ""
}
