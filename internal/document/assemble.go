package document

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"math"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/metrics"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/observability"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

// Assembler turns a submitted snapshot into an A4 PDF: render the snapshot
// to one tall bitmap, slice it into page bands, JPEG-encode each band, and
// import the images one per page.
type Assembler struct {
	renderer *Renderer
	cfg      config.DocumentConfig
	logger   logger.Logger
	obs      *observability.Observability
}

// NewAssembler wires the assembly pipeline.
func NewAssembler(cfg config.DocumentConfig, log logger.Logger, obs *observability.Observability) (*Assembler, error) {
	renderer, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	return &Assembler{renderer: renderer, cfg: cfg, logger: log, obs: obs}, nil
}

// Assemble produces the final PDF bytes for a snapshot.
func (a *Assembler) Assemble(ctx context.Context, snap *models.Snapshot) ([]byte, error) {
	start := time.Now()

	bitmap, err := a.renderer.Render(snap)
	if err != nil {
		a.recordOutcome(ctx, "render", start, err)
		return nil, err
	}

	pages := Paginate(bitmap, a.cfg.MarginPt)

	readers := make([]io.Reader, 0, len(pages))
	for _, page := range pages {
		var buf bytes.Buffer
		if encErr := jpeg.Encode(&buf, page, &jpeg.Options{Quality: a.cfg.Quality}); encErr != nil {
			err = errors.NewRasterFailedError(encErr)
			a.recordOutcome(ctx, "raster", start, err)
			return nil, err
		}
		readers = append(readers, bytes.NewReader(buf.Bytes()))
	}

	pdf, err := a.importPages(bitmap.Bounds().Dx(), readers)
	if err != nil {
		a.recordOutcome(ctx, "document", start, err)
		return nil, err
	}

	metrics.DocumentsAssembled.Inc()
	metrics.DocumentPages.Observe(float64(len(pages)))
	a.recordOutcome(ctx, "document", start, nil)
	a.logger.Info("Document assembled", map[string]interface{}{
		"pages":    len(pages),
		"bytes":    len(pdf),
		"duration": time.Since(start).String(),
	})
	return pdf, nil
}

// importPages builds the PDF. The dpi maps the bitmap width onto the
// printable width so each band lands inside the page margins.
func (a *Assembler) importPages(widthPx int, pages []io.Reader) ([]byte, error) {
	contentWidth := a4WidthPt - a.cfg.MarginPt*2
	dpi := int(math.Round(float64(widthPx) * 72 / contentWidth))
	margin := int(a.cfg.MarginPt)

	desc := fmt.Sprintf("form:A4, pos:tl, off:%d -%d, dpi:%d", margin, margin, dpi)
	imp, err := api.Import(desc, types.POINTS)
	if err != nil {
		return nil, errors.NewDocumentFailedError(err)
	}

	var out bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, &out, pages, imp, conf); err != nil {
		return nil, errors.NewDocumentFailedError(err)
	}
	return out.Bytes(), nil
}

func (a *Assembler) recordOutcome(ctx context.Context, stage string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if a.obs != nil {
		a.obs.RecordRun(ctx, stage, status)
		a.obs.RecordDuration(ctx, stage, time.Since(start), status)
	}
}
