package utils

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
)

// Dimensions holds width and height information
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageDimensions decodes just enough of an image to report its dimensions.
// Returns nil for non-image payloads.
func ImageDimensions(reader io.Reader) *Dimensions {
	img, err := imaging.Decode(reader)
	if err != nil {
		return nil
	}
	bounds := img.Bounds()
	return &Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
}

// Thumbnail produces a PNG thumbnail that fits within the given bounds
// while maintaining aspect ratio.
func Thumbnail(reader io.Reader, width, height int) ([]byte, error) {
	src, err := imaging.Decode(reader)
	if err != nil {
		return nil, err
	}

	resized := imaging.Fit(src, width, height, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
