package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/vocab"
)

// Config holds the stylerank API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Value     ValueConfig     `yaml:"value"`
	Vocab     VocabConfig     `yaml:"vocab"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds the listing source settings.
type CatalogConfig struct {
	Path string `yaml:"path"` // csv, jsonl or parquet
}

// DatabaseConfig holds cache store connection settings. An empty addrs
// list disables the embedding cache and persistent budget counters.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string       `yaml:"provider"` // display name for logs and metrics
	APIKey     string       `yaml:"api_key"`
	BaseURL    string       `yaml:"base_url"`
	Model      string       `yaml:"model"`
	Dimensions int          `yaml:"dimensions"`
	Budget     BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit int64  `yaml:"daily_token_limit"` // 0 = unlimited
	Action          string `yaml:"action"`            // "reject" | "warn" (default)
}

// RankingConfig holds fusion weights and output settings.
type RankingConfig struct {
	Alpha       float64 `yaml:"alpha"`
	Beta        float64 `yaml:"beta"`
	Gamma       float64 `yaml:"gamma"`
	TopK        int     `yaml:"top_k"`
	DefaultMode string  `yaml:"default_mode"` // naive, bias_aware
}

// ValueConfig holds value index weights and score tables. Empty tables
// fall back to the built-in ones.
type ValueConfig struct {
	DiscountWeight  float64            `yaml:"discount_weight"`
	BrandWeight     float64            `yaml:"brand_weight"`
	MaterialWeight  float64            `yaml:"material_weight"`
	ConditionWeight float64            `yaml:"condition_weight"`
	BrandScores     map[string]float64 `yaml:"brand_scores"`
	MaterialScores  map[string]float64 `yaml:"material_scores"`
	ConditionScores map[string]float64 `yaml:"condition_scores"`
}

// VocabConfig holds attribute vocabulary overrides. Empty lists fall back
// to the built-in vocabularies. Order matters: first match wins.
type VocabConfig struct {
	Colors     []string      `yaml:"colors"`
	Categories []string      `yaml:"categories"`
	Styles     []vocab.Entry `yaml:"styles"`
	Conditions []vocab.Entry `yaml:"conditions"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "stylerank:"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Ranking.Alpha == 0 && c.Ranking.Beta == 0 && c.Ranking.Gamma == 0 {
		w := domain.DefaultFusionWeights()
		c.Ranking.Alpha = w.Alpha
		c.Ranking.Beta = w.Beta
		c.Ranking.Gamma = w.Gamma
	}
	if c.Ranking.TopK <= 0 {
		c.Ranking.TopK = 10
	}
	if c.Ranking.DefaultMode == "" {
		c.Ranking.DefaultMode = "bias_aware"
	}
	if c.Value.DiscountWeight == 0 && c.Value.BrandWeight == 0 &&
		c.Value.MaterialWeight == 0 && c.Value.ConditionWeight == 0 {
		w := domain.DefaultValueWeights()
		c.Value.DiscountWeight = w.Discount
		c.Value.BrandWeight = w.Brand
		c.Value.MaterialWeight = w.Material
		c.Value.ConditionWeight = w.Condition
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch c.Ranking.DefaultMode {
	case "naive", "bias_aware":
	default:
		return fmt.Errorf("ranking.default_mode must be \"naive\" or \"bias_aware\", got %q", c.Ranking.DefaultMode)
	}
	if c.Ranking.Alpha < 0 || c.Ranking.Beta < 0 || c.Ranking.Gamma < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Value.DiscountWeight < 0 || c.Value.BrandWeight < 0 ||
		c.Value.MaterialWeight < 0 || c.Value.ConditionWeight < 0 {
		return fmt.Errorf("value weights must be non-negative")
	}
	switch c.Embedding.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"embedding.budget.action must be \"warn\" or \"reject\", got %q",
			c.Embedding.Budget.Action,
		)
	}
	return nil
}

// FusionWeights returns the configured fusion weights.
func (c *Config) FusionWeights() domain.FusionWeights {
	return domain.FusionWeights{Alpha: c.Ranking.Alpha, Beta: c.Ranking.Beta, Gamma: c.Ranking.Gamma}
}

// ValueWeights returns the configured value index weights.
func (c *Config) ValueWeights() domain.ValueWeights {
	return domain.ValueWeights{
		Discount:  c.Value.DiscountWeight,
		Brand:     c.Value.BrandWeight,
		Material:  c.Value.MaterialWeight,
		Condition: c.Value.ConditionWeight,
	}
}

// ScoreTables merges the configured score tables over the built-in ones.
// A configured table replaces its built-in counterpart wholesale.
func (c *Config) ScoreTables() domain.ScoreTables {
	tables := domain.DefaultScoreTables()
	if len(c.Value.BrandScores) > 0 {
		tables.Brand = c.Value.BrandScores
	}
	if len(c.Value.MaterialScores) > 0 {
		tables.Material = c.Value.MaterialScores
	}
	if len(c.Value.ConditionScores) > 0 {
		tables.Condition = c.Value.ConditionScores
	}
	return tables
}

// Vocabularies returns the configured attribute vocabularies, falling back
// per list to the built-in ones.
func (c *Config) Vocabularies() (colors, categories vocab.Terms, styles, conditions vocab.List) {
	colors = vocab.DefaultColors()
	if len(c.Vocab.Colors) > 0 {
		colors = vocab.Terms(c.Vocab.Colors)
	}
	categories = vocab.DefaultCategories()
	if len(c.Vocab.Categories) > 0 {
		categories = vocab.Terms(c.Vocab.Categories)
	}
	styles = vocab.DefaultStyles()
	if len(c.Vocab.Styles) > 0 {
		styles = vocab.List(c.Vocab.Styles)
	}
	conditions = vocab.DefaultConditions()
	if len(c.Vocab.Conditions) > 0 {
		conditions = vocab.List(c.Vocab.Conditions)
	}
	return colors, categories, styles, conditions
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
