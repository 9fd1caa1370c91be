// Package config provides configuration loading and structs for the knowbot server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Chat       ChatConfig       `yaml:"chat"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the optional persistent conversation history path.
// An empty HistoryPath selects the in-memory history store.
type StorageConfig struct {
	HistoryPath string `yaml:"history_path"`
}

// EmbeddingConfig holds embedder settings. Provider is one of "onnx",
// "ollama", or "mock".
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`
	ModelPath   string `yaml:"model_path"`
	Dimensions  int    `yaml:"dimensions"`
	MaxTokens   int    `yaml:"max_tokens"`
	CacheSize   int    `yaml:"cache_size"`
	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`
}

// GenerationConfig holds text-generation provider settings. Provider is one
// of "gemini" or "ollama". The Gemini API key may be given inline or via the
// environment variable named by APIKeyEnv.
type GenerationConfig struct {
	Provider        string `yaml:"provider"`
	APIKey          string `yaml:"api_key"`
	APIKeyEnv       string `yaml:"api_key_env"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s"`
	TimeoutS        int    `yaml:"timeout_s"`
	OllamaURL       string `yaml:"ollama_url"`
	OllamaModel     string `yaml:"ollama_model"`
}

// ChatConfig holds chunking, retrieval, and prompt settings.
type ChatConfig struct {
	ChunkSize int     `yaml:"chunk_size"`
	TopK      int     `yaml:"top_k"`
	MinScore  float64 `yaml:"min_score"`
	// HistoryLimit keeps only the last N turns in the prompt; 0 replays the
	// full history.
	HistoryLimit int `yaml:"history_limit"`
	// RecordAssistant controls whether generated answers are appended back
	// into the session history. Nil defaults to true.
	RecordAssistant *bool `yaml:"record_assistant"`
	Fallback        string `yaml:"fallback"`
}

// RecordAssistantOrDefault returns whether assistant turns are recorded;
// defaults to true when unset.
func (c *ChatConfig) RecordAssistantOrDefault() bool {
	if c.RecordAssistant != nil {
		return *c.RecordAssistant
	}
	return true
}

// WatchConfig holds directory watch settings for automatic ingestion.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.HistoryPath = expandPath(cfg.Storage.HistoryPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// APIKey resolves the generation API key: inline value first, then the
// configured environment variable.
func (g *GenerationConfig) ResolvedAPIKey() string {
	if g.APIKey != "" {
		return g.APIKey
	}
	if g.APIKeyEnv != "" {
		return os.Getenv(g.APIKeyEnv)
	}
	return ""
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
// Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
