package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
)

const (
	orientationPortrait  = "portrait"
	orientationLandscape = "landscape"
)

// OrientationParams represents typed parameters for orientation command
type OrientationParams struct {
	Orientation      string
	RotateWhenSquare bool
	Clockwise        bool
}

func NewOrientationParamsFromMap(params map[string]any) (*OrientationParams, error) {
	orientation := commandstructure.GetStringParam(params, "orientation", orientationPortrait)
	if orientation != orientationPortrait && orientation != orientationLandscape {
		return nil, fmt.Errorf("invalid orientation: %s (must be 'portrait' or 'landscape')", orientation)
	}

	return &OrientationParams{
		Orientation:      orientation,
		RotateWhenSquare: commandstructure.GetBoolParam(params, "rotateWhenSquare", false),
		Clockwise:        commandstructure.GetBoolParam(params, "clockwise", true),
	}, nil
}

// OrientationCommand turns the image by 90 degrees when it does not match the wanted orientation
type OrientationCommand struct {
	name   string
	params *OrientationParams
}

func NewOrientationCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewOrientationParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &OrientationCommand{
		name:   "OrientationCommand",
		params: typedParams,
	}, nil
}

func (c *OrientationCommand) Name() string {
	return c.name
}

func (c *OrientationCommand) Execute(image commandstructure.Image) (commandstructure.Image, error) {
	img, format, err := decodeRaster(image.Data)
	if err != nil {
		slog.Error("OrientationCommand: failed to decode image", "error", err)
		return commandstructure.Image{}, err
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if !c.needsRotation(width, height) {
		slog.Debug("OrientationCommand: no rotation needed",
			"width", width,
			"height", height,
			"target_orientation", c.params.Orientation)
		return image, nil
	}

	slog.Debug("OrientationCommand: rotating image 90 degrees", "clockwise", c.params.Clockwise)
	// imaging rotates counter-clockwise
	if c.params.Clockwise {
		return encodeRaster(imaging.Rotate270(img), format)
	}
	return encodeRaster(imaging.Rotate90(img), format)
}

func (c *OrientationCommand) needsRotation(width, height int) bool {
	if width == height {
		return c.params.RotateWhenSquare
	}
	isPortrait := height > width
	return isPortrait != (c.params.Orientation == orientationPortrait)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("OrientationCommand", NewOrientationCommand); err != nil {
		panic(fmt.Sprintf("failed to register OrientationCommand: %v", err))
	}
}
