package commandstructure

// Image is the unit a command works on: encoded bytes plus their MIME type.
type Image struct {
	Data        []byte
	ContentType string
}

// Command transforms one image into another.
// Commands that re-encode must report the content type of their output.
type Command interface {
	Name() string
	Execute(image Image) (Image, error)
}

// CommandFactory creates a command from configuration parameters
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig represents a command configuration with name and parameters
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}
