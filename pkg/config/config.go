package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/miguelangel-nubla/product-matcher/pkg/adapters/inventory"
	"github.com/miguelangel-nubla/product-matcher/pkg/matching"
)

// Config holds all configuration for the matcher service.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory holding SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Matching pipeline configuration
	Matching MatchingConfig `yaml:"matching"`

	// Embedding endpoint used by the semantic strategy (optional).
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Languages holds per-language normalization overrides. Languages with
	// built-in tables work without an entry here.
	Languages []LanguageConfig `yaml:"languages"`

	// Backends lists the inventory catalogs queries can be matched against.
	Backends []BackendConfig `yaml:"backends"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"matcher"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"product_matcher"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MatchingConfig holds the strategy cascade configuration.
type MatchingConfig struct {
	// Strategies is the cascade, in order. Each entry must be a known
	// strategy name.
	Strategies []string `yaml:"strategies" env:"MATCHING_STRATEGIES" env-default:"jaccard,fuzzy"`

	// DefaultThreshold applies to any strategy without an entry in
	// Thresholds. Scores are in [0, 1].
	DefaultThreshold float64 `yaml:"default_threshold" env:"MATCHING_DEFAULT_THRESHOLD" env-default:"0.8"`

	// Thresholds maps strategy name to its minimum confidence.
	Thresholds map[string]float64 `yaml:"thresholds"`

	// MaxCandidates caps the candidate list stored with a pending query.
	MaxCandidates int `yaml:"max_candidates" env:"MATCHING_MAX_CANDIDATES" env-default:"5"`

	// SemanticTieDetection makes the semantic strategy treat a shared top
	// score as ambiguous, like the other strategies do.
	SemanticTieDetection bool `yaml:"semantic_tie_detection" env:"MATCHING_SEMANTIC_TIE_DETECTION" env-default:"false"`
}

// EmbeddingConfig holds the OpenAI-compatible embedding endpoint used by the
// semantic strategy.
type EmbeddingConfig struct {
	Endpoint string `yaml:"endpoint" env:"EMBEDDING_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"EMBEDDING_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"EMBEDDING_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if an embedding endpoint is configured.
func (c *EmbeddingConfig) IsAvailable() bool {
	return c.Endpoint != "" && c.Model != ""
}

// LanguageConfig overrides normalization behavior for one language. A nil
// Stopwords or Expansions keeps the built-in table; a non-nil one replaces
// it entirely.
type LanguageConfig struct {
	Code       string            `yaml:"code"`
	Lemmatizer string            `yaml:"lemmatizer"`
	Stopwords  []string          `yaml:"stopwords"`
	Expansions map[string]string `yaml:"expansions"`
}

// BackendConfig describes one inventory catalog.
type BackendConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`

	// Adapter selects and configures the inventory client. The adapter's
	// API key is a secret: APIKeyEnv names the environment variable holding
	// it, resolved at load time.
	Adapter   inventory.AdapterSettings `yaml:"adapter"`
	APIKeyEnv string                    `yaml:"api_key_env"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. The version parameter is injected at build time.
func Load(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Resolve per-backend API keys from the environment.
	for i := range cfg.Backends {
		if cfg.Backends[i].APIKeyEnv != "" {
			cfg.Backends[i].Adapter.APIKey = os.Getenv(cfg.Backends[i].APIKeyEnv)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate cross-checks the configuration so misconfiguration fails at
// startup instead of on the first request.
func (c *Config) Validate() error {
	if len(c.Backends) == 0 {
		return fmt.Errorf("at least one backend must be configured")
	}

	seen := make(map[string]bool, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return fmt.Errorf("backend name must not be empty")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate backend name %q", b.Name)
		}
		seen[b.Name] = true
		if b.Language == "" {
			return fmt.Errorf("backend %q: language must not be empty", b.Name)
		}
		if b.Adapter.Type == "" {
			return fmt.Errorf("backend %q: adapter type must not be empty", b.Name)
		}
	}

	if len(c.Matching.Strategies) == 0 {
		return fmt.Errorf("at least one matching strategy must be configured")
	}
	for _, name := range c.Matching.Strategies {
		switch name {
		case matching.StrategyJaccard, matching.StrategyFuzzy:
		case matching.StrategySemantic:
			if !c.Embedding.IsAvailable() {
				return fmt.Errorf("semantic strategy requires embedding endpoint and model")
			}
		default:
			return fmt.Errorf("unknown matching strategy %q", name)
		}
	}

	if err := validThreshold(c.Matching.DefaultThreshold); err != nil {
		return fmt.Errorf("default_threshold: %w", err)
	}
	for name, threshold := range c.Matching.Thresholds {
		if err := validThreshold(threshold); err != nil {
			return fmt.Errorf("threshold for %q: %w", name, err)
		}
	}

	if c.Matching.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive")
	}

	return nil
}

func validThreshold(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0 and 1, got %v", v)
	}
	return nil
}
