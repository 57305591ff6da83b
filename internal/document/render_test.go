package document

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

func TestRenderDimensions(t *testing.T) {
	cfg := testDocumentConfig()
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	img, err := r.Render(testSnapshot(t))
	require.NoError(t, err)

	assert.Equal(t, cfg.ContentWidthPx*cfg.Scale, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), cfg.PaddingPx*cfg.Scale*2)
}

func TestRenderGrowsWithContent(t *testing.T) {
	r, err := NewRenderer(testDocumentConfig())
	require.NoError(t, err)

	short := testSnapshot(t)
	shortImg, err := r.Render(short)
	require.NoError(t, err)

	long := testSnapshot(t)
	for i := 0; i < 20; i++ {
		long.FormData.Education = append(long.FormData.Education, models.EducationRow{SchoolName: "Extra School"})
	}
	longImg, err := r.Render(long)
	require.NoError(t, err)

	assert.Greater(t, longImg.Bounds().Dy(), shortImg.Bounds().Dy())
}

func TestRenderBackgroundIsWhite(t *testing.T) {
	r, err := NewRenderer(testDocumentConfig())
	require.NoError(t, err)

	img, err := r.Render(testSnapshot(t))
	require.NoError(t, err)

	// Corners sit inside the padding and stay blank.
	for _, p := range []struct{ x, y int }{
		{0, 0},
		{img.Bounds().Dx() - 1, 0},
		{0, img.Bounds().Dy() - 1},
	} {
		c := color.RGBAModel.Convert(img.At(p.x, p.y)).(color.RGBA)
		assert.Equal(t, uint8(255), c.R)
		assert.Equal(t, uint8(255), c.G)
		assert.Equal(t, uint8(255), c.B)
	}
}

func TestWrapBreaksLongText(t *testing.T) {
	r, err := NewRenderer(testDocumentConfig())
	require.NoError(t, err)

	snap := testSnapshot(t)
	snap.FormData.ReasonsForApplying = "I want to study graphic design in Japan because the design industry there combines tradition with modern technology and I believe studying there will help me grow as a designer and build an international career."

	base, err := r.Render(testSnapshot(t))
	require.NoError(t, err)
	withText, err := r.Render(snap)
	require.NoError(t, err)

	// The wrapped paragraph consumes extra lines.
	assert.Greater(t, withText.Bounds().Dy(), base.Bounds().Dy())
}
