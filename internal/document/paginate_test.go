package document

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMargin = 36.0

// bandHeightFor computes the source-pixel band height Paginate uses for a
// bitmap of the given width.
func bandHeightFor(widthPx int) float64 {
	scale := (a4WidthPt - testMargin*2) / float64(widthPx)
	return (a4HeightPt - testMargin*2) / scale
}

func TestPaginateSinglePage(t *testing.T) {
	band := int(bandHeightFor(1588))
	img := image.NewRGBA(image.Rect(0, 0, 1588, band))

	pages := Paginate(img, testMargin)
	require.Len(t, pages, 1)
	assert.Equal(t, img.Bounds(), pages[0].Bounds())
}

func TestPaginateSpillsToSecondPage(t *testing.T) {
	band := int(bandHeightFor(1588))
	img := image.NewRGBA(image.Rect(0, 0, 1588, band+10))

	pages := Paginate(img, testMargin)
	require.Len(t, pages, 2)
	// Second band holds only the overflow rows.
	assert.LessOrEqual(t, pages[1].Bounds().Dy(), 11)
}

func TestPaginateBandsAreContiguous(t *testing.T) {
	band := int(bandHeightFor(1588))
	height := band*3 + band/2
	img := image.NewRGBA(image.Rect(0, 0, 1588, height))

	pages := Paginate(img, testMargin)
	require.Len(t, pages, 4)

	// No overlap, no gap: each band starts where the previous ended.
	cursor := 0
	for i, page := range pages {
		b := page.Bounds()
		assert.Equal(t, cursor, b.Min.Y, "page %d start", i)
		assert.Equal(t, 1588, b.Dx())
		cursor = b.Max.Y
	}
	assert.Equal(t, height, cursor)
}

func TestPaginateTallNarrowImage(t *testing.T) {
	// A narrow image maps to a large source band: still one page when the
	// scaled height fits.
	img := image.NewRGBA(image.Rect(0, 0, 100, 140))
	pages := Paginate(img, testMargin)
	assert.Len(t, pages, 1)
}
