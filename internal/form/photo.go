package form

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"
)

// Portrait photo constraints. The target is a 3:4 portrait of at least
// 240x320 pixels, with a small tolerance on the ratio.
const (
	photoMinWidth  = 240
	photoMinHeight = 320
	photoRatio     = 3.0 / 4.0
	photoTolerance = 0.05
)

// DecodePhoto accepts either a bare base64 string or a data URL
// ("data:image/jpeg;base64,....") and returns the raw image bytes.
func DecodePhoto(ref string) ([]byte, error) {
	payload := ref
	if strings.HasPrefix(ref, "data:") {
		idx := strings.Index(ref, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		payload = ref[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return raw, nil
}

// ValidatePhoto decodes the portrait reference and checks its dimensions:
// at least 240x320 pixels and a width/height ratio within 0.05 of 3:4.
func ValidatePhoto(ref string) error {
	raw, err := DecodePhoto(ref)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode photo: %w", err)
	}
	if cfg.Width < photoMinWidth || cfg.Height < photoMinHeight {
		return fmt.Errorf("photo is %dx%d, minimum is %dx%d", cfg.Width, cfg.Height, photoMinWidth, photoMinHeight)
	}
	ratio := float64(cfg.Width) / float64(cfg.Height)
	if math.Abs(ratio-photoRatio) >= photoTolerance {
		return fmt.Errorf("photo ratio %.3f is outside the 3:4 tolerance", ratio)
	}
	return nil
}
