package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the top-level typegen.yaml configuration file.
type YAMLConfig struct {
	Source  SourceYAML    `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	MCP     MCPConfig     `yaml:"mcp"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceYAML selects where the schema comes from. Mode is "ddl" (read
// SchemaFile) or "catalog" (a stored source Name, or Driver and DSN).
type SourceYAML struct {
	Mode       string `yaml:"mode"`
	SchemaFile string `yaml:"schema_file"`
	Name       string `yaml:"name"`
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	Schema     string `yaml:"schema"`
}

// OutputConfig controls what is rendered and where it goes. An empty Dir
// prints to stdout.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Format      string `yaml:"format"`
	ObjectsOnly bool   `yaml:"objects_only"`
	RootOnly    bool   `yaml:"root_only"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string     `yaml:"host"`
	Port            int        `yaml:"port"`
	MaxBodySize     string     `yaml:"max_body_size"`
	RateLimit       int        `yaml:"rate_limit"` // requests per minute per IP, 0 disables
	ShutdownTimeout string     `yaml:"shutdown_timeout"`
	CORS            CORSConfig `yaml:"cors"`
}

// CORSConfig controls cross-origin resource sharing settings.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// MCPConfig controls the MCP (Model Context Protocol) server.
type MCPConfig struct {
	Transport string `yaml:"transport"` // stdio or http
	Addr      string `yaml:"addr"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadYAMLConfig reads and parses a YAML configuration file. Environment
// variables referenced as ${VAR_NAME} in the file are expanded before parsing.
// Keys missing from the file keep their DefaultYAMLConfig values.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	cfg := DefaultYAMLConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// DefaultYAMLConfig returns a YAMLConfig pre-filled with sensible defaults.
func DefaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Source: SourceYAML{
			Mode:       "ddl",
			SchemaFile: "schema.sql",
		},
		Output: OutputConfig{
			Format: "graphql",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			MaxBodySize:     "1MB",
			RateLimit:       120,
			ShutdownTimeout: "30s",
			CORS: CORSConfig{
				Origins: []string{"*"},
			},
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Addr:      ":8081",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// WriteDefaultConfig writes the default configuration to a YAML file.
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultYAMLConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
