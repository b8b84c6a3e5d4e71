package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	// Nonexistent file falls through to defaults.
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Embedder.Provider)
	assert.Equal(t, "BAAI/bge-small-en-v1.5", cfg.Embedder.Model)
	assert.Equal(t, "cosine", cfg.Similarity.Metric)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "embedsim", cfg.Telemetry.ServiceName)
}

func TestLoadWithFile_YAML(t *testing.T) {
	path := writeConfigFile(t, `
embedder:
  provider: ollama
  model: nomic-embed-text
  base_url: http://localhost:11434
similarity:
  metric: dot
logging:
  level: debug
  format: console
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Embedder.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Embedder.BaseURL)
	assert.Equal(t, "dot", cfg.Similarity.Metric)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
embedder:
  provider: tei
  model: BAAI/bge-base-en-v1.5
`)

	t.Setenv("EMBEDDER_MODEL", "BAAI/bge-small-en-v1.5")
	t.Setenv("SIMILARITY_METRIC", "dot")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tei", cfg.Embedder.Provider)
	assert.Equal(t, "BAAI/bge-small-en-v1.5", cfg.Embedder.Model)
	assert.Equal(t, "dot", cfg.Similarity.Metric)
}

func TestLoadWithFile_OpenAIKeyAlias(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("EMBEDDER_PROVIDER", "openai")

	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Provider)
	assert.Equal(t, "sk-from-env", cfg.Embedder.APIKey)
}

func TestLoadWithFile_TEIDefaultBaseURL(t *testing.T) {
	t.Setenv("EMBEDDER_PROVIDER", "tei")

	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Embedder.BaseURL)
}

func TestLoadWithFile_RejectsInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity:\n  metric: dot\n"), 0644))

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestLoadWithFile_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown provider",
			yaml:    "embedder:\n  provider: bedrock\n",
			wantErr: "unknown embedder provider",
		},
		{
			name:    "unknown metric",
			yaml:    "similarity:\n  metric: euclidean\n",
			wantErr: "metric",
		},
		{
			name:    "unknown log format",
			yaml:    "logging:\n  format: xml\n",
			wantErr: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := LoadWithFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTransformEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EMBEDDER_PROVIDER", "embedder.provider"},
		{"EMBEDDER_BASE_URL", "embedder.base_url"},
		{"SIMILARITY_METRIC", "similarity.metric"},
		{"TELEMETRY_SERVICE_NAME", "telemetry.service_name"},
		{"OPENAI_API_KEY", "embedder.api_key"},
		{"PATH", "path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnvKey(tt.in), tt.in)
	}
}

func TestValidate_TelemetryRequirements(t *testing.T) {
	cfg := &Config{
		Similarity: SimilarityConfig{Metric: "cosine"},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
		Telemetry:  TelemetryConfig{Enabled: true},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")

	cfg.Telemetry.Endpoint = "localhost:4317"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service name")

	cfg.Telemetry.ServiceName = "embedsim"
	assert.NoError(t, cfg.Validate())
}
