package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr                string   `yaml:"addr"`
	ReadTimeoutSecs     int      `yaml:"read_timeout_secs"`
	WriteTimeoutSecs    int      `yaml:"write_timeout_secs"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Service string `yaml:"service"`
}

// DataConfig points at the knowledge files loaded at startup.
type DataConfig struct {
	KnowledgeBase string `yaml:"knowledge_base"`
	Doctors       string `yaml:"doctors"`
	Tabular       string `yaml:"tabular"`
	Dictionary    string `yaml:"dictionary"`
	DocumentsDir  string `yaml:"documents_dir"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SessionConfig selects where conversation state lives.
type SessionConfig struct {
	Type              string       `yaml:"type"`
	TTLSecs           int          `yaml:"ttl_secs"`
	SweepIntervalSecs int          `yaml:"sweep_interval_secs"`
	Redis             *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig contains connection details for the redis session store.
type RedisConfig struct {
	Addr         string `yaml:"addr"`
	PasswordEnv  string `yaml:"password_env"`
	DB           int    `yaml:"db"`
	KeyPrefix    string `yaml:"key_prefix"`
	LockTTLSecs  int    `yaml:"lock_ttl_secs"`
	LockWaitSecs int    `yaml:"lock_wait_secs"`
}

// GeneratorConfig selects the text generator used for phrasing replies.
type GeneratorConfig struct {
	Type        string  `yaml:"type"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Data        DataConfig        `yaml:"data"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Session     SessionConfig     `yaml:"session"`
	Generator   GeneratorConfig   `yaml:"generator"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML and fills unset fields with defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/triage/config.yaml.
// If neither exists it returns defaults along with the user path; nothing is written.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return Default(), userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath is ~/.config/triage/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "triage", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{
		VectorStore: VectorStoreConfig{Type: "memory"},
		Session:     SessionConfig{Type: "memory"},
		Generator:   GeneratorConfig{Type: "none"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5001"
	}
	if cfg.Server.ReadTimeoutSecs == 0 {
		cfg.Server.ReadTimeoutSecs = 15
	}
	if cfg.Server.WriteTimeoutSecs == 0 {
		cfg.Server.WriteTimeoutSecs = 60
	}
	if cfg.Server.ShutdownTimeoutSecs == 0 {
		cfg.Server.ShutdownTimeoutSecs = 10
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Service == "" {
		cfg.Log.Service = "triage"
	}

	if cfg.Data.KnowledgeBase == "" {
		cfg.Data.KnowledgeBase = "data/knowledge_base.json"
	}
	if cfg.Data.Doctors == "" {
		cfg.Data.Doctors = "data/doctors.json"
	}
	if cfg.Data.Tabular == "" {
		cfg.Data.Tabular = "data/causes_deces.csv"
	}
	if cfg.Data.Dictionary == "" {
		cfg.Data.Dictionary = cfg.Data.KnowledgeBase
	}
	if cfg.Data.DocumentsDir == "" {
		cfg.Data.DocumentsDir = "data/documents"
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "triage_records"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}

	if cfg.Session.Type == "" {
		cfg.Session.Type = "memory"
	}
	if cfg.Session.TTLSecs == 0 {
		cfg.Session.TTLSecs = 3600
	}
	if cfg.Session.SweepIntervalSecs == 0 {
		cfg.Session.SweepIntervalSecs = 60
	}
	if cfg.Session.Type == "redis" {
		if cfg.Session.Redis == nil {
			cfg.Session.Redis = &RedisConfig{}
		}
		if cfg.Session.Redis.Addr == "" {
			cfg.Session.Redis.Addr = "localhost:6379"
		}
		if cfg.Session.Redis.PasswordEnv == "" {
			cfg.Session.Redis.PasswordEnv = "REDIS_PASSWORD"
		}
		if cfg.Session.Redis.KeyPrefix == "" {
			cfg.Session.Redis.KeyPrefix = "triage:session:"
		}
		if cfg.Session.Redis.LockTTLSecs == 0 {
			cfg.Session.Redis.LockTTLSecs = 30
		}
		if cfg.Session.Redis.LockWaitSecs == 0 {
			cfg.Session.Redis.LockWaitSecs = 10
		}
	}

	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "none"
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.BaseURL == "" {
			cfg.Generator.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Generator.APIKeyEnv == "" {
			cfg.Generator.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Generator.Model == "" {
			cfg.Generator.Model = "gpt-4o-mini"
		}
		if cfg.Generator.Temperature == 0 {
			cfg.Generator.Temperature = 0.7
		}
		if cfg.Generator.MaxTokens == 0 {
			cfg.Generator.MaxTokens = 500
		}
		if cfg.Generator.TimeoutSecs == 0 {
			cfg.Generator.TimeoutSecs = 15
		}
		if cfg.Generator.MaxRetries == 0 {
			cfg.Generator.MaxRetries = 2
		}
	}
}
