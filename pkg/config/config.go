package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qaforge/qaforge/pkg/logging"
)

// Config holds complete pipeline configuration
type Config struct {
	// Logging configuration
	Logging *logging.LogConfig `json:"logging" yaml:"logging"`

	// Segmentation configuration
	Segment *SegmentConfig `json:"segment" yaml:"segment"`

	// Server configuration
	Server *ServerConfig `json:"server" yaml:"server"`

	// Output configuration
	Output *OutputConfig `json:"output" yaml:"output"`
}

// SegmentConfig holds the tunable knobs of the segmentation core
type SegmentConfig struct {
	// MetadataPattern overrides the default author/date signature regexp.
	// Empty means the built-in generic pattern.
	MetadataPattern string `json:"metadata_pattern" yaml:"metadata_pattern"`

	// Substance floor thresholds
	MinQuestionLen int `json:"min_question_len" yaml:"min_question_len"`
	MinAnswerLen   int `json:"min_answer_len" yaml:"min_answer_len"`

	// Minimum length for a split block to count as a real Q&A unit
	MinBlockLen int `json:"min_block_len" yaml:"min_block_len"`

	// ProgressInterval controls how often a progress event is emitted
	ProgressInterval int `json:"progress_interval" yaml:"progress_interval"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// OutputConfig holds output destination settings
type OutputConfig struct {
	Dir        string `json:"dir" yaml:"dir"`                 // directory for JSON/TXT artifacts
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"` // optional SQLite database path
}

// DefaultConfig returns a complete default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultLogConfig(),

		Segment: &SegmentConfig{
			MinQuestionLen:   20,
			MinAnswerLen:     10,
			MinBlockLen:      50,
			ProgressInterval: 100,
		},

		Server: &ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},

		Output: &OutputConfig{
			Dir: "./output_cleaned",
		},
	}
}

// DevelopmentConfig returns development configuration
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Logging.Level = "debug"
	config.Logging.Format = "pretty"
	return config
}

// ProductionConfig returns production-ready configuration
func ProductionConfig() *Config {
	config := DefaultConfig()
	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Console = false
	config.Logging.OutputFile = "logs/qaforge.log"
	return config
}

// Load reads a YAML configuration file layered over the defaults
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
