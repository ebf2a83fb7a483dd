package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/researchmate/rag-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Database configuration. DATABASE_URL is optional: when empty the
	// document registry runs in-memory.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External capability configurations
	EmbeddingCfg  EmbeddingConnectorConfig  `envPrefix:"EMBEDDING_"`
	GenerationCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`

	// Vector backend: "memory" or "qdrant"
	VectorBackend string       `env:"VECTOR_BACKEND" envDefault:"memory"`
	QdrantCfg     QdrantConfig `envPrefix:"QDRANT_"`

	// Retrieval configuration
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`

	// Document processing configuration
	ChunkingCfg ChunkingConfig

	// Conversation store configuration
	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"24h"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:11434"`
}

// EmbeddingConnectorConfig configures the embedding capability (Ollama).
type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint string               `env:"EMBED_ENDPOINT" envDefault:"/api/embeddings"`
	Model         string               `env:"MODEL" envDefault:"nomic-embed-text"`
	Dimension     int                  `env:"DIMENSION" envDefault:"768"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GenerationConnectorConfig configures the generation capability (Ollama).
type GenerationConnectorConfig struct {
	HTTPClientConfig
	GenerateEndpoint string               `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	TagsEndpoint     string               `env:"TAGS_ENDPOINT" envDefault:"/api/tags"`
	Model            string               `env:"MODEL" envDefault:"llama3.2"`
	Temperature      float64              `env:"TEMPERATURE" envDefault:"0.7"`
	Timeout          time.Duration        `env:"TOTAL_TIMEOUT" envDefault:"300s"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// QdrantConfig configures the Qdrant vector backend.
type QdrantConfig struct {
	Url        string        `env:"URL" envDefault:"http://localhost:6333"`
	APIKey     string        `env:"API_KEY"`
	Collection string        `env:"COLLECTION" envDefault:"researchmate_docs"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// ChunkingConfig controls how extracted text is split before indexing.
type ChunkingConfig struct {
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`
}

// RetrievalConfig bounds the number of passages returned per query.
type RetrievalConfig struct {
	TopK    int `env:"TOP_K" envDefault:"5"`
	MinTopK int `env:"MIN_TOP_K" envDefault:"1"`
	MaxTopK int `env:"MAX_TOP_K" envDefault:"20"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64  `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	AllowedExts   string `env:"ALLOWED_EXTENSIONS" envDefault:".pdf,.txt,.md,.docx"`
}

// AllowedExtensions returns the allowed upload extensions, lowercased.
func (c FileUploadConfig) AllowedExtensions() []string {
	parts := strings.Split(c.AllowedExts, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.ChunkingCfg.ChunkSize < 100 || cfg.ChunkingCfg.ChunkSize > 10000 {
		errs = append(errs, fmt.Sprintf("CHUNK_SIZE must be between 100 and 10000, got %d", cfg.ChunkingCfg.ChunkSize))
	}

	if cfg.ChunkingCfg.ChunkOverlap < 0 || cfg.ChunkingCfg.ChunkOverlap >= cfg.ChunkingCfg.ChunkSize {
		errs = append(errs, fmt.Sprintf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", cfg.ChunkingCfg.ChunkOverlap))
	}

	if cfg.RetrievalCfg.MinTopK < 1 || cfg.RetrievalCfg.MaxTopK < cfg.RetrievalCfg.MinTopK {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_MIN_TOP_K/MAX_TOP_K bounds are invalid: [%d, %d]",
			cfg.RetrievalCfg.MinTopK, cfg.RetrievalCfg.MaxTopK))
	}

	if cfg.RetrievalCfg.TopK < cfg.RetrievalCfg.MinTopK || cfg.RetrievalCfg.TopK > cfg.RetrievalCfg.MaxTopK {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_TOP_K must be between %d and %d, got %d",
			cfg.RetrievalCfg.MinTopK, cfg.RetrievalCfg.MaxTopK, cfg.RetrievalCfg.TopK))
	}

	switch cfg.VectorBackend {
	case "memory", "qdrant":
	default:
		errs = append(errs, fmt.Sprintf("VECTOR_BACKEND must be 'memory' or 'qdrant', got %q", cfg.VectorBackend))
	}

	if cfg.EmbeddingCfg.Dimension <= 0 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension))
	}

	if cfg.GenerationCfg.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("GENERATION_TOTAL_TIMEOUT must be positive, got %s", cfg.GenerationCfg.Timeout))
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
