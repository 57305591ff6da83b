package packaging

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/metrics"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/form"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

const (
	documentEntry = "Application_Form.pdf"
	portraitEntry = "Portrait_Photo.jpg"

	// Balanced between speed and size.
	compressionLevel = 6
)

// ProgressFunc reports packaging milestones as a step label and a percent.
type ProgressFunc func(step string, percent int)

// Assembler produces the PDF placed at the archive root.
type Assembler interface {
	Assemble(ctx context.Context, snap *models.Snapshot) ([]byte, error)
}

// Packager builds the submission archive: the assembled form document, the
// portrait photo, and every attachment sorted into its slot folder.
type Packager struct {
	assembler Assembler
	client    fetcher
	logger    logger.Logger
}

// NewPackager wires the packaging stage.
func NewPackager(assembler Assembler, client fetcher, log logger.Logger) *Packager {
	return &Packager{assembler: assembler, client: client, logger: log}
}

// Build produces the archive bytes. The document is mandatory; a missing
// photo or an unreadable attachment is logged and skipped, never fatal.
func (p *Packager) Build(ctx context.Context, snap *models.Snapshot, onProgress ProgressFunc) ([]byte, error) {
	progress := func(step string, percent int) {
		if onProgress != nil {
			onProgress(step, percent)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})

	progress("Creating PDF form...", 20)
	pdf, err := p.assembler.Assemble(ctx, snap)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, errors.NewPackagingFailedError(fmt.Errorf("assembled document is empty"))
	}
	if err := p.addEntry(zw, documentEntry, pdf); err != nil {
		return nil, err
	}
	progress("PDF created successfully", 40)

	if snap.ImageURL != "" {
		progress("Adding portrait photo...", 50)
		if photo, err := form.DecodePhoto(snap.ImageURL); err != nil {
			p.logger.Warn("Cannot add portrait photo", map[string]interface{}{
				"error": err.Error(),
			})
		} else if err := p.addEntry(zw, portraitEntry, photo); err != nil {
			return nil, err
		}
	}

	if len(snap.Attachments) > 0 {
		progress("Adding attachments...", 60)
		added := 0
		for _, att := range snap.Attachments {
			content, err := p.resolveContent(ctx, att)
			if err != nil {
				p.logger.Warn("Cannot add attachment", map[string]interface{}{
					"name":  att.Name,
					"error": err.Error(),
				})
				continue
			}

			name := SanitizeFileName(att.Name)
			if name == "" {
				name = "attachment"
			}
			entry := FolderFor(att.Key) + "/" + name
			if err := p.addEntry(zw, entry, content); err != nil {
				return nil, err
			}

			added++
			progress(fmt.Sprintf("Added %d/%d attachments", added, len(snap.Attachments)),
				60+added*20/len(snap.Attachments))
		}
	}

	progress("Creating ZIP file...", 85)
	if err := zw.Close(); err != nil {
		return nil, errors.NewPackagingFailedError(err)
	}
	if buf.Len() == 0 {
		return nil, errors.NewPackagingFailedError(fmt.Errorf("archive is empty"))
	}

	metrics.PackagesBuilt.Inc()
	p.logger.Info("Package built", map[string]interface{}{
		"bytes":       buf.Len(),
		"attachments": len(snap.Attachments),
	})
	progress("Completed!", 100)
	return buf.Bytes(), nil
}

func (p *Packager) addEntry(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.NewPackagingFailedError(err)
	}
	if _, err := w.Write(content); err != nil {
		return errors.NewPackagingFailedError(err)
	}
	return nil
}
