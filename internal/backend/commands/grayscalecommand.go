package commands

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
)

type GrayscaleCommand struct {
	name string
}

func NewGrayscaleCommand(params map[string]any) (commandstructure.Command, error) {
	return &GrayscaleCommand{name: "GrayscaleCommand"}, nil
}

func (c *GrayscaleCommand) Name() string {
	return c.name
}

func (c *GrayscaleCommand) Execute(image commandstructure.Image) (commandstructure.Image, error) {
	img, format, err := decodeRaster(image.Data)
	if err != nil {
		return commandstructure.Image{}, err
	}
	return encodeRaster(imaging.Grayscale(img), format)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("GrayscaleCommand", NewGrayscaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register GrayscaleCommand: %v", err))
	}
}
