package visualmem

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
)

// makeThumbnail decodes a base64 screenshot, scales it down to targetWidth
// with nearest-neighbor sampling, and re-encodes it as base64 PNG. Images
// already at or below the target width are returned unchanged.
func makeThumbnail(screenshot string, targetWidth int) (string, error) {
	data, err := base64.StdEncoding.DecodeString(screenshot)
	if err != nil {
		return "", fmt.Errorf("failed to decode screenshot: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= targetWidth {
		return screenshot, nil
	}

	scale := float64(targetWidth) / float64(bounds.Dx())
	targetHeight := int(float64(bounds.Dy()) * scale)
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	for y := 0; y < targetHeight; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/targetHeight
		for x := 0; x < targetWidth; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/targetWidth
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
