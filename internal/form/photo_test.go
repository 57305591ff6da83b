package form

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portraitRef encodes a solid-color JPEG of the given size as a data URL.
func portraitRef(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{name: "exact minimum 3:4", w: 240, h: 320, wantErr: false},
		{name: "larger 3:4", w: 600, h: 800, wantErr: false},
		{name: "within ratio tolerance", w: 480, h: 620, wantErr: false},
		{name: "too small", w: 180, h: 240, wantErr: true},
		{name: "too narrow", w: 239, h: 320, wantErr: true},
		{name: "landscape", w: 800, h: 600, wantErr: true},
		{name: "square", w: 400, h: 400, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoto(portraitRef(t, tt.w, tt.h))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePhotoRejectsGarbage(t *testing.T) {
	assert.Error(t, ValidatePhoto("not base64 at all!!"))
	assert.Error(t, ValidatePhoto("data:image/jpeg;base64"))
	assert.Error(t, ValidatePhoto(base64.StdEncoding.EncodeToString([]byte("not an image"))))
}

func TestDecodePhotoAcceptsBareBase64(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	got, err := DecodePhoto(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
