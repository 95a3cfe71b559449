package commandstructure

import (
	"fmt"
	"log/slog"
	"time"
)

// VariantConfig describes one output of the pipeline as a chain of commands.
// An empty chain yields the input image unchanged.
type VariantConfig struct {
	Name     string          `yaml:"name"`
	Commands []CommandConfig `yaml:"commands"`
}

type variant struct {
	name    string
	invoker *CommandInvoker
}

// Pipeline derives one image per configured variant from a single source image.
type Pipeline struct {
	variants []variant
}

func NewPipeline(registry *CommandRegistry, configs []VariantConfig) (*Pipeline, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("pipeline needs at least one variant")
	}

	variants := make([]variant, 0, len(configs))
	for i, config := range configs {
		name := config.Name
		if name == "" {
			name = fmt.Sprintf("variant-%d", i)
		}
		invoker, err := NewCommandInvokerFromConfig(registry, config.Commands)
		if err != nil {
			return nil, fmt.Errorf("invalid variant %s: %w", name, err)
		}
		variants = append(variants, variant{name: name, invoker: invoker})
		slog.Debug("beautify variant configured", "variant", name, "command_count", invoker.Len())
	}

	return &Pipeline{variants: variants}, nil
}

// Run executes the variants one after another and returns their outputs in configuration order.
func (p *Pipeline) Run(source Image) ([]Image, error) {
	start := time.Now()
	outputs := make([]Image, 0, len(p.variants))

	for _, v := range p.variants {
		out, err := v.invoker.Execute(source)
		if err != nil {
			return nil, fmt.Errorf("variant %s failed: %w", v.name, err)
		}
		outputs = append(outputs, out)
	}

	slog.Info("beautify pipeline completed",
		"variant_count", len(p.variants),
		"input_size_bytes", len(source.Data),
		"duration_ms", time.Since(start).Milliseconds())

	return outputs, nil
}

// VariantCount returns the number of images Run produces
func (p *Pipeline) VariantCount() int {
	return len(p.variants)
}
