package packaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean name untouched", in: "passport.pdf", want: "passport.pdf"},
		{name: "forbidden characters", in: `a/b\c:d"e.pdf`, want: "a_b_c_d_e.pdf"},
		{name: "angle brackets and pipes", in: "<doc>|final?*.pdf", want: "doc_final_.pdf"},
		{name: "whitespace collapsed", in: "my  scan   copy.jpg", want: "my_scan_copy.jpg"},
		{name: "runs collapse", in: "a___b.png", want: "a_b.png"},
		{name: "edges stripped", in: " padded name ", want: "padded_name"},
		{name: "unicode preserved", in: "パスポート 写し.pdf", want: "パスポート_写し.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestFolderFor(t *testing.T) {
	assert.Equal(t, "01_Passport_Documents", FolderFor(models.AttachmentPassport))
	assert.Equal(t, "02_Certificates", FolderFor(models.AttachmentCertificate))
	assert.Equal(t, "03_Other_Documents", FolderFor(models.AttachmentOther))
	// Anything unrecognized lands in the catch-all folder.
	assert.Equal(t, "04_Additional_Documents", FolderFor(models.AttachmentKey("unknown")))
	assert.Equal(t, "04_Additional_Documents", FolderFor(models.AttachmentKey("")))
}
