package packaging

import (
	"regexp"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

// Archive folder per attachment slot. Unknown slots land in the catch-all.
const (
	folderPassport    = "01_Passport_Documents"
	folderCertificate = "02_Certificates"
	folderOther       = "03_Other_Documents"
	folderAdditional  = "04_Additional_Documents"
)

// FolderFor maps an attachment slot onto its archive folder.
func FolderFor(key models.AttachmentKey) string {
	switch key {
	case models.AttachmentPassport:
		return folderPassport
	case models.AttachmentCertificate:
		return folderCertificate
	case models.AttachmentOther:
		return folderOther
	default:
		return folderAdditional
	}
}

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace  = regexp.MustCompile(`\s+`)
	underscores = regexp.MustCompile(`_+`)
	edgeScores  = regexp.MustCompile(`^_|_$`)
)

// SanitizeFileName rewrites a user-supplied filename into a safe archive
// entry name: forbidden characters and whitespace become underscores, runs
// collapse, and leading/trailing underscores are stripped.
func SanitizeFileName(name string) string {
	out := unsafeChars.ReplaceAllString(name, "_")
	out = whitespace.ReplaceAllString(out, "_")
	out = underscores.ReplaceAllString(out, "_")
	return edgeScores.ReplaceAllString(out, "")
}
