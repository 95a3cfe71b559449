package commandstructure

import (
	"fmt"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of commands on an image
type CommandInvoker struct {
	commands []Command
}

func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// NewCommandInvokerFromConfig resolves every configured command through the registry up front,
// so configuration errors surface at startup rather than on the first request.
func NewCommandInvokerFromConfig(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		commands = append(commands, command)
	}
	return NewCommandInvoker(commands), nil
}

// Execute applies all commands in sequence. With no commands the input is returned unchanged.
func (i *CommandInvoker) Execute(image Image) (Image, error) {
	if len(i.commands) == 0 {
		slog.Debug("no commands to execute, returning original image")
		return image, nil
	}

	start := time.Now()
	current := image

	for idx, command := range i.commands {
		commandStart := time.Now()

		processed, err := command.Execute(current)
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err,
				"input_size_bytes", len(current.Data))
			return Image{}, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Debug("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_size_bytes", len(current.Data),
			"output_size_bytes", len(processed.Data),
			"content_type", processed.ContentType)

		current = processed
	}

	slog.Debug("command chain completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands),
		"final_size_bytes", len(current.Data))

	return current, nil
}

// Len returns the number of commands in the chain
func (i *CommandInvoker) Len() int {
	return len(i.commands)
}
