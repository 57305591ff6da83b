package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

func testDocumentConfig() config.DocumentConfig {
	return config.DocumentConfig{
		Scale:          2,
		Quality:        95,
		MarginPt:       36,
		ContentWidthPx: 794,
		PaddingPx:      76,
	}
}

func testPortrait(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 300, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 190, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testSnapshot(t *testing.T) *models.Snapshot {
	t.Helper()
	d := models.DefaultFormData()
	d.LastNameRomaji = "NGUYEN"
	d.FirstNameRomaji = "VAN A"
	d.DOB = "2000-04-12"
	d.Nationality = "Vietnam"
	d.Email = "applicant@example.com"
	d.Education = []models.EducationRow{
		{SchoolName: "Hanoi High School", StartYm: "2012-09", EndYm: "2015-06", YearsAttended: "3", Location: "Hanoi"},
	}
	d.Sponsor.FullName = "Nguyen Van B"
	return &models.Snapshot{
		FormData:    d,
		ImageURL:    testPortrait(t),
		SubmittedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	ctx, err := api.ReadContext(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())
	return ctx.PageCount
}

func TestAssembleProducesValidPDF(t *testing.T) {
	a, err := NewAssembler(testDocumentConfig(), logger.NewTestLogger(t), nil)
	require.NoError(t, err)

	pdf, err := a.Assemble(context.Background(), testSnapshot(t))
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.GreaterOrEqual(t, pageCount(t, pdf), 1)
}

func TestAssembleWithoutPhoto(t *testing.T) {
	a, err := NewAssembler(testDocumentConfig(), logger.NewTestLogger(t), nil)
	require.NoError(t, err)

	snap := testSnapshot(t)
	snap.ImageURL = ""
	pdf, err := a.Assemble(context.Background(), snap)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(t, pdf), 1)
}

func TestAssembleLongFormSpansMultiplePages(t *testing.T) {
	a, err := NewAssembler(testDocumentConfig(), logger.NewTestLogger(t), nil)
	require.NoError(t, err)

	snap := testSnapshot(t)
	for i := 0; i < 40; i++ {
		snap.FormData.Education = append(snap.FormData.Education, models.EducationRow{
			SchoolName:    "Extra School",
			StartYm:       "2010-04",
			EndYm:         "2012-03",
			YearsAttended: "2",
			Location:      "Hanoi",
		})
		snap.FormData.Family = append(snap.FormData.Family, models.FamilyRow{
			Relation: "Sibling", Name: "Nguyen Van C", DOB: "2002-01-01",
			Nationality: "Vietnam", Occupation: "Student", Address: "Hanoi",
		})
	}

	pdf, err := a.Assemble(context.Background(), snap)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(t, pdf), 2)
}

func TestAssembleRejectsBrokenPhoto(t *testing.T) {
	a, err := NewAssembler(testDocumentConfig(), logger.NewTestLogger(t), nil)
	require.NoError(t, err)

	snap := testSnapshot(t)
	snap.ImageURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("junk"))
	_, err = a.Assemble(context.Background(), snap)
	assert.Error(t, err)
}
