package core

import (
	"fmt"
	"os"

	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
	"github.com/jo-hoe/gobeautify/internal/backend/database"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. GOBEAUTIFY_DATABASE_TYPE
const EnvPrefix = "GOBEAUTIFY"

type Database struct {
	Type             string `yaml:"type" envconfig:"TYPE"`
	ConnectionString string `yaml:"connectionString" envconfig:"CONNECTIONSTRING"`
	Name             string `yaml:"name" envconfig:"NAME"`
	Collection       string `yaml:"collection" envconfig:"COLLECTION"`
}

type BeautifyConfig struct {
	Variants []commandstructure.VariantConfig `yaml:"variants"`
}

type FrontendConfig struct {
	// APIBaseURL is where the page sends its requests; empty means same origin.
	APIBaseURL string `yaml:"apiBaseUrl" envconfig:"APIBASEURL"`
}

type ServiceConfig struct {
	Port     int            `yaml:"port" envconfig:"PORT"`
	LogLevel string         `yaml:"logLevel" envconfig:"LOGLEVEL"`
	Database Database       `yaml:"database" envconfig:"DATABASE"`
	Beautify BeautifyConfig `yaml:"beautify" ignored:"true"`
	Frontend FrontendConfig `yaml:"frontend" envconfig:"FRONTEND"`
}

// DefaultConfig returns the configuration used for everything the file and environment leave out.
// The default beautify pipeline has two identity variants and returns the stored image twice.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:     5000,
		LogLevel: "info",
		Database: Database{
			Type:             database.TypeMongoDB,
			ConnectionString: "mongodb://localhost:27017",
			Name:             "imageDB",
			Collection:       "images",
		},
		Beautify: BeautifyConfig{
			Variants: []commandstructure.VariantConfig{
				{Name: "first"},
				{Name: "second"},
			},
		},
	}
}

// LoadConfig layers defaults, the YAML file at configPath (skipped when empty)
// and GOBEAUTIFY_* environment variables, then validates the result.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be within 1-65535, got %d", config.Port)
	}

	switch config.Database.Type {
	case database.TypeMongoDB, database.TypeSQLite, database.TypeRedis:
	default:
		return fmt.Errorf("unsupported database type: %q", config.Database.Type)
	}

	return validateVariants(config.Beautify.Variants)
}

// validateVariants ensures the pipeline has outputs and every command is named
func validateVariants(variants []commandstructure.VariantConfig) error {
	if len(variants) == 0 {
		return fmt.Errorf("beautify needs at least one variant")
	}

	seenNames := make(map[string]bool)
	for i, variant := range variants {
		if variant.Name != "" {
			if seenNames[variant.Name] {
				return fmt.Errorf("duplicate variant name: %s", variant.Name)
			}
			seenNames[variant.Name] = true
		}
		for j, cmd := range variant.Commands {
			if cmd.Name == "" {
				return fmt.Errorf("command at index %d of variant %d has empty name", j, i)
			}
		}
	}
	return nil
}
