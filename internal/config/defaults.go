package config

// DefaultFallback is the answer returned when the generation call fails.
const DefaultFallback = "Sorry, I could not generate an answer right now. Please try again."

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/knowbot/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.OllamaURL == "" {
		cfg.Embedding.OllamaURL = "http://localhost:11434"
	}
	if cfg.Embedding.OllamaModel == "" {
		cfg.Embedding.OllamaModel = "nomic-embed-text"
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "gemini"
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gemini-1.5-flash-latest"
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Generation.ConnectTimeoutS == 0 {
		cfg.Generation.ConnectTimeoutS = 3
	}
	if cfg.Generation.TimeoutS == 0 {
		cfg.Generation.TimeoutS = 10
	}
	if cfg.Generation.OllamaURL == "" {
		cfg.Generation.OllamaURL = "http://localhost:11434"
	}
	if cfg.Generation.OllamaModel == "" {
		cfg.Generation.OllamaModel = "llama3.2"
	}
	if cfg.Chat.ChunkSize == 0 {
		cfg.Chat.ChunkSize = 300
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = 3
	}
	// MinScore defaults to 0 (no floor), which is already the zero value.
	if cfg.Chat.Fallback == "" {
		cfg.Chat.Fallback = DefaultFallback
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".txt", ".md", ".docx", ".xlsx"}
	}
}
