package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
	"github.com/jo-hoe/gobeautify/internal/backend/database"

	// registers the beautify commands in the default registry
	_ "github.com/jo-hoe/gobeautify/internal/backend/commands"
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	pipeline        *commandstructure.Pipeline
}

// NewCoreService wires an already opened database into the service. The caller owns the
// database lifecycle until Close is called on the service.
func NewCoreService(config *ServiceConfig, databaseService database.DatabaseService) (*CoreService, error) {
	if databaseService == nil {
		return nil, fmt.Errorf("database service must not be nil")
	}

	pipeline, err := commandstructure.NewPipeline(commandstructure.DefaultRegistry, config.Beautify.Variants)
	if err != nil {
		return nil, fmt.Errorf("failed to build beautify pipeline: %w", err)
	}
	slog.Info("beautify pipeline ready",
		"variant_count", pipeline.VariantCount(),
		"available_commands", commandstructure.DefaultRegistry.GetRegisteredNames())

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		pipeline:        pipeline,
	}, nil
}

// OpenDatabase connects to the configured database driver and ensures its schema exists
func OpenDatabase(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, database.Options{
		Type:             config.Database.Type,
		ConnectionString: config.Database.ConnectionString,
		Name:             config.Database.Name,
		Collection:       config.Database.Collection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func (service *CoreService) AddImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	id, err := service.databaseService.CreateImage(ctx, name, data, contentType)
	if err != nil {
		return "", err
	}
	slog.Info("image stored", "image_id", id, "name", name, "content_type", contentType, "size_bytes", len(data))
	return id, nil
}

// GetImageByID returns database.ErrNotFound for unknown or malformed ids
func (service *CoreService) GetImageByID(ctx context.Context, id string) (*database.ImageRecord, error) {
	return service.databaseService.GetImageByID(ctx, id)
}

// BeautifyImage runs the stored image through every configured variant, in order
func (service *CoreService) BeautifyImage(ctx context.Context, id string) ([]commandstructure.Image, error) {
	record, err := service.databaseService.GetImageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	outputs, err := service.pipeline.Run(commandstructure.Image{
		Data:        record.Data,
		ContentType: record.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to beautify image %s: %w", id, err)
	}
	return outputs, nil
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

// ToDataURI renders an image as data:<contentType>;base64,<payload>
func ToDataURI(image commandstructure.Image) string {
	return "data:" + image.ContentType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}
