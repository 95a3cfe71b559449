package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
)

// CropParams represents typed parameters for crop command
type CropParams struct {
	Height int
	Width  int
}

// NewCropParamsFromMap creates CropParams from a generic map
func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"height", "width"}); err != nil {
		return nil, err
	}

	height := commandstructure.GetIntParam(params, "height", 0)
	width := commandstructure.GetIntParam(params, "width", 0)

	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}

	return &CropParams{
		Height: height,
		Width:  width,
	}, nil
}

// CropCommand cuts a centered Width x Height region out of the image
type CropCommand struct {
	name   string
	params *CropParams
}

func NewCropCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
	}, nil
}

func (c *CropCommand) Name() string {
	return c.name
}

// Execute center crops the image. A box at least as large as the image returns the input untouched.
func (c *CropCommand) Execute(image commandstructure.Image) (commandstructure.Image, error) {
	img, format, err := decodeRaster(image.Data)
	if err != nil {
		slog.Error("CropCommand: failed to decode image", "error", err)
		return commandstructure.Image{}, err
	}

	originalWidth := img.Bounds().Dx()
	originalHeight := img.Bounds().Dy()
	if c.params.Width >= originalWidth && c.params.Height >= originalHeight {
		slog.Debug("CropCommand: no crop needed, dimensions already smaller or equal",
			"original_width", originalWidth,
			"original_height", originalHeight)
		return image, nil
	}

	cropWidth := min(c.params.Width, originalWidth)
	cropHeight := min(c.params.Height, originalHeight)

	slog.Debug("CropCommand: performing center crop",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"crop_width", cropWidth,
		"crop_height", cropHeight)

	return encodeRaster(imaging.CropCenter(img, cropWidth, cropHeight), format)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("CropCommand", NewCropCommand); err != nil {
		panic(fmt.Sprintf("failed to register CropCommand: %v", err))
	}
}
