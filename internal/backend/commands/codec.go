package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeGIF  = "image/gif"
)

// decodeRaster decodes any registered raster format and reports the imaging format
// the result should be written back in. Formats imaging cannot encode fall back to PNG.
func decodeRaster(data []byte) (image.Image, imaging.Format, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, imaging.PNG, fmt.Errorf("failed to decode image: %w", err)
	}

	switch format {
	case "jpeg":
		return img, imaging.JPEG, nil
	case "gif":
		return img, imaging.GIF, nil
	default:
		return img, imaging.PNG, nil
	}
}

func encodeRaster(img image.Image, format imaging.Format) (commandstructure.Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return commandstructure.Image{}, fmt.Errorf("failed to encode image as %s: %w", format, err)
	}
	return commandstructure.Image{Data: buf.Bytes(), ContentType: contentTypeOf(format)}, nil
}

func contentTypeOf(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return mimeJPEG
	case imaging.GIF:
		return mimeGIF
	default:
		return mimePNG
	}
}

func createTargetCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return dst
}
