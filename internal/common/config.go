package common

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Classify ClassifyConfig `yaml:"classify"`
	Extract  ExtractConfig  `yaml:"extract"`
	Fusion   FusionConfig   `yaml:"fusion"`
	Store    StoreConfig    `yaml:"store"`
}

// ClassifyConfig holds classification tuning knobs
type ClassifyConfig struct {
	Strategy           string         `yaml:"strategy"`
	KeywordMinScore    float64        `yaml:"keyword_min_score"`
	TableMinScore      float64        `yaml:"table_min_score"`
	MimeMultiplier     float64        `yaml:"mime_multiplier"`
	AcceptanceMinScore float64        `yaml:"acceptance_min_score"`
	KeywordWeights     KeywordWeights `yaml:"keyword_weights"`
	TableWeights       TableWeights   `yaml:"table_weights"`
}

// KeywordWeights are the per-tier scores for keyword matches. Zero fields
// fall back to the classifier's built-in defaults.
type KeywordWeights struct {
	Required float64 `yaml:"required"`
	Strong   float64 `yaml:"strong"`
	Weak     float64 `yaml:"weak"`
}

// TableWeights are the per-tier scores for column header matches plus the
// bonus applied when a table's shape fits the candidate type. Zero fields
// fall back to the classifier's built-in defaults.
type TableWeights struct {
	Required       float64 `yaml:"required"`
	Strong         float64 `yaml:"strong"`
	Weak           float64 `yaml:"weak"`
	StructureBonus float64 `yaml:"structure_bonus"`
}

// ExtractConfig holds extraction-related configuration
type ExtractConfig struct {
	MaxFieldNames int  `yaml:"max_field_names"`
	KeepRawFields bool `yaml:"keep_raw_fields"`
}

// FusionConfig holds fusion-related configuration
type FusionConfig struct {
	Parallelism     int           `yaml:"parallelism"`
	DocumentTimeout time.Duration `yaml:"document_timeout"`
}

// StoreConfig holds the snapshot store configuration
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Classify: ClassifyConfig{
			Strategy:           getEnv("CLASSIFY_STRATEGY", "highest_confidence"),
			KeywordMinScore:    getEnvAsFloat64("CLASSIFY_KEYWORD_MIN_SCORE", 0.5),
			TableMinScore:      getEnvAsFloat64("CLASSIFY_TABLE_MIN_SCORE", 0.6),
			MimeMultiplier:     getEnvAsFloat64("CLASSIFY_MIME_MULTIPLIER", 0.3),
			AcceptanceMinScore: getEnvAsFloat64("CLASSIFY_ACCEPTANCE_MIN_SCORE", 0.0),
			KeywordWeights: KeywordWeights{
				Required: getEnvAsFloat64("CLASSIFY_KEYWORD_REQUIRED_WEIGHT", 0.40),
				Strong:   getEnvAsFloat64("CLASSIFY_KEYWORD_STRONG_WEIGHT", 0.10),
				Weak:     getEnvAsFloat64("CLASSIFY_KEYWORD_WEAK_WEIGHT", 0.03),
			},
			TableWeights: TableWeights{
				Required:       getEnvAsFloat64("CLASSIFY_TABLE_REQUIRED_WEIGHT", 0.35),
				Strong:         getEnvAsFloat64("CLASSIFY_TABLE_STRONG_WEIGHT", 0.08),
				Weak:           getEnvAsFloat64("CLASSIFY_TABLE_WEAK_WEIGHT", 0.02),
				StructureBonus: getEnvAsFloat64("CLASSIFY_TABLE_STRUCTURE_BONUS", 0.15),
			},
		},
		Extract: ExtractConfig{
			MaxFieldNames: getEnvAsInt("EXTRACT_MAX_FIELD_NAMES", 50),
			KeepRawFields: getEnvAsBool("EXTRACT_KEEP_RAW_FIELDS", true),
		},
		Fusion: FusionConfig{
			Parallelism:     getEnvAsInt("FUSION_PARALLELISM", 4),
			DocumentTimeout: getEnvAsDuration("FUSION_DOCUMENT_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", ""),
		},
	}
}

// LoadConfigFile loads configuration from the environment and then applies
// overrides from a YAML file. The file wins over the environment.
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "cannot read config file", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "cannot parse config file", err)
	}
	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Fusion.Parallelism < 1 {
		return NewAppError("CONFIG_ERROR", "FUSION_PARALLELISM must be at least 1", ErrInvalidInput)
	}
	if c.Fusion.DocumentTimeout < 0 {
		return NewAppError("CONFIG_ERROR", "FUSION_DOCUMENT_TIMEOUT must not be negative", ErrInvalidInput)
	}
	if c.Classify.MimeMultiplier <= 0 {
		return NewAppError("CONFIG_ERROR", "CLASSIFY_MIME_MULTIPLIER must be positive", ErrInvalidInput)
	}
	kw, tw := c.Classify.KeywordWeights, c.Classify.TableWeights
	if kw.Required < 0 || kw.Strong < 0 || kw.Weak < 0 ||
		tw.Required < 0 || tw.Strong < 0 || tw.Weak < 0 || tw.StructureBonus < 0 {
		return NewAppError("CONFIG_ERROR", "classification weights must not be negative", ErrInvalidInput)
	}
	return nil
}
