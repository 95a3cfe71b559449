package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
)

// ResizeParams holds the target box. A zero dimension is derived from the aspect ratio.
type ResizeParams struct {
	Width  int
	Height int
	// Fit keeps the image inside the box instead of stretching it to exactly Width x Height.
	Fit bool
}

func NewResizeParamsFromMap(params map[string]any) (*ResizeParams, error) {
	width := commandstructure.GetIntParam(params, "width", 0)
	height := commandstructure.GetIntParam(params, "height", 0)

	if width < 0 || height < 0 {
		return nil, fmt.Errorf("width and height must not be negative, got %dx%d", width, height)
	}
	if width == 0 && height == 0 {
		return nil, fmt.Errorf("at least one of 'width' or 'height' must be specified")
	}

	fit := commandstructure.GetBoolParam(params, "fit", false)
	if fit && (width == 0 || height == 0) {
		return nil, fmt.Errorf("'fit' requires both 'width' and 'height'")
	}

	return &ResizeParams{Width: width, Height: height, Fit: fit}, nil
}

// ResizeCommand scales an image with Lanczos resampling
type ResizeCommand struct {
	name   string
	params *ResizeParams
}

func NewResizeCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewResizeParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &ResizeCommand{name: "ResizeCommand", params: typedParams}, nil
}

func (c *ResizeCommand) Name() string {
	return c.name
}

func (c *ResizeCommand) Execute(image commandstructure.Image) (commandstructure.Image, error) {
	img, format, err := decodeRaster(image.Data)
	if err != nil {
		return commandstructure.Image{}, err
	}

	resize := imaging.Resize
	if c.params.Fit {
		resize = imaging.Fit
	}
	resized := resize(img, c.params.Width, c.params.Height, imaging.Lanczos)

	slog.Debug("ResizeCommand: resized image",
		"original_width", img.Bounds().Dx(),
		"original_height", img.Bounds().Dy(),
		"target_width", resized.Bounds().Dx(),
		"target_height", resized.Bounds().Dy(),
		"fit", c.params.Fit)

	return encodeRaster(resized, format)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("ResizeCommand", NewResizeCommand); err != nil {
		panic(fmt.Sprintf("failed to register ResizeCommand: %v", err))
	}
}
