package document

import "image"

// A4 page geometry in points.
const (
	a4WidthPt  = 595.28
	a4HeightPt = 841.89
)

// Paginate slices the rendered bitmap into contiguous horizontal bands, one
// per A4 page. The bitmap is scaled so its full width spans the printable
// width (page minus margins); the band height is the printable height mapped
// back into source pixels. Bands never overlap and never skip rows.
func Paginate(img image.Image, marginPt float64) []image.Image {
	bounds := img.Bounds()
	contentWidth := a4WidthPt - marginPt*2
	contentHeight := a4HeightPt - marginPt*2

	scale := contentWidth / float64(bounds.Dx())
	scaledHeight := float64(bounds.Dy()) * scale
	if scaledHeight <= contentHeight {
		return []image.Image{img}
	}

	bandHeight := contentHeight / scale
	var pages []image.Image
	for sourceY := 0.0; sourceY < float64(bounds.Dy()); sourceY += bandHeight {
		top := bounds.Min.Y + int(sourceY)
		bottom := bounds.Min.Y + int(sourceY+bandHeight)
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		if bottom <= top {
			break
		}
		band := image.Rect(bounds.Min.X, top, bounds.Max.X, bottom)
		pages = append(pages, subImage(img, band))
	}
	return pages
}

// subImager is satisfied by every in-memory image type we render to.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	// Fallback copy for exotic image types.
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}
