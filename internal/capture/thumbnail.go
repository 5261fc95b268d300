package capture

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// decodeImage decodes an encoded screenshot.
func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}

// writeThumbnail scales img to width, keeping the aspect ratio, and saves it
// as PNG at path. Images already narrower than width are saved as-is.
func writeThumbnail(img image.Image, width int, path string) error {
	thumb := img
	if img.Bounds().Dx() > width {
		thumb = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	if err := imaging.Save(thumb, path); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
