package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/docuprism/internal/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestWithDefault(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "")

	cfg := config.WithDefault()

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()

	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if builtCfg.APIBaseURL() != "http://localhost:11434/v1" {
		t.Errorf("unexpected APIBaseURL %q", builtCfg.APIBaseURL())
	}
	if builtCfg.Model() == "" {
		t.Error("expected a default model")
	}
	if builtCfg.APIKey() != "" {
		t.Errorf("expected empty APIKey, got %q", builtCfg.APIKey())
	}
	if builtCfg.Offline() {
		t.Error("expected Offline false")
	}

	// Verify timeouts
	if builtCfg.CheckTimeout() != 10*time.Second {
		t.Errorf("expected CheckTimeout 10s, got %v", builtCfg.CheckTimeout())
	}
	if builtCfg.SummarizeTimeout() != 30*time.Second {
		t.Errorf("expected SummarizeTimeout 30s, got %v", builtCfg.SummarizeTimeout())
	}
	if builtCfg.LanguageTimeout() != 3*time.Second {
		t.Errorf("expected LanguageTimeout 3s, got %v", builtCfg.LanguageTimeout())
	}

	// Verify retry
	if builtCfg.MaxAttempt() != 3 {
		t.Errorf("expected MaxAttempt 3, got %d", builtCfg.MaxAttempt())
	}
	if builtCfg.BackoffInitialDuration() != time.Second {
		t.Errorf("expected BackoffInitialDuration 1s, got %v", builtCfg.BackoffInitialDuration())
	}
	if builtCfg.BackoffMultiplier() != 2.0 {
		t.Errorf("expected BackoffMultiplier 2.0, got %f", builtCfg.BackoffMultiplier())
	}
	if builtCfg.BackoffMaxDuration() != 10*time.Second {
		t.Errorf("expected BackoffMaxDuration 10s, got %v", builtCfg.BackoffMaxDuration())
	}

	// Verify storage
	if builtCfg.DataDir() == "" {
		t.Error("expected a default DataDir")
	}
	if builtCfg.MaxAnalyses() != 10 {
		t.Errorf("expected MaxAnalyses 10, got %d", builtCfg.MaxAnalyses())
	}
	if builtCfg.PreviewLength() != 1000 {
		t.Errorf("expected PreviewLength 1000, got %d", builtCfg.PreviewLength())
	}
	if builtCfg.MaxFileSize() != 10*1024*1024 {
		t.Errorf("expected MaxFileSize 10MiB, got %d", builtCfg.MaxFileSize())
	}

	if builtCfg.LogLevel() != "info" {
		t.Errorf("expected LogLevel info, got %q", builtCfg.LogLevel())
	}
	if builtCfg.LogFile() != "" || builtCfg.MetricsFile() != "" {
		t.Error("expected LogFile and MetricsFile to be empty")
	}
}

func TestWithDefault_APIKeyFromEnv(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "sk-env")

	cfg, err := config.WithDefault().Build()

	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIKey() != "sk-env" {
		t.Errorf("expected APIKey from env, got %q", cfg.APIKey())
	}
}

func TestBuilderSetters(t *testing.T) {
	cfg, err := config.WithDefault().
		WithAPIBaseURL("https://api.example.com/v1").
		WithModel("small").
		WithAPIKey("sk-flag").
		WithOffline(true).
		WithCheckTimeout(time.Second).
		WithSummarizeTimeout(5 * time.Second).
		WithLanguageTimeout(500 * time.Millisecond).
		WithMaxAttempt(5).
		WithBaseDelay(10 * time.Millisecond).
		WithJitter(time.Millisecond).
		WithRandomSeed(42).
		WithBackoffInitialDuration(100 * time.Millisecond).
		WithBackoffMultiplier(3).
		WithBackoffMaxDuration(time.Second).
		WithDataDir("/tmp/docuprism").
		WithMaxAnalyses(20).
		WithPreviewLength(200).
		WithMaxFileSize(1024).
		WithLogLevel("debug").
		WithLogFile("/tmp/docuprism.log").
		WithMetricsFile("/tmp/docuprism.prom").
		Build()

	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIBaseURL() != "https://api.example.com/v1" || cfg.Model() != "small" || cfg.APIKey() != "sk-flag" {
		t.Errorf("unexpected endpoint settings: %q %q %q", cfg.APIBaseURL(), cfg.Model(), cfg.APIKey())
	}
	if !cfg.Offline() {
		t.Error("expected Offline true")
	}
	if cfg.CheckTimeout() != time.Second || cfg.SummarizeTimeout() != 5*time.Second || cfg.LanguageTimeout() != 500*time.Millisecond {
		t.Error("unexpected timeouts")
	}
	if cfg.DataDir() != "/tmp/docuprism" || cfg.MaxAnalyses() != 20 || cfg.PreviewLength() != 200 || cfg.MaxFileSize() != 1024 {
		t.Error("unexpected storage settings")
	}
	if cfg.LogLevel() != "debug" || cfg.LogFile() != "/tmp/docuprism.log" || cfg.MetricsFile() != "/tmp/docuprism.prom" {
		t.Error("unexpected observability settings")
	}

	param := cfg.RetryParam()
	if param.MaxAttempts != 5 || param.BaseDelay != 10*time.Millisecond || param.Jitter != time.Millisecond || param.RandomSeed != 42 {
		t.Errorf("unexpected RetryParam %+v", param)
	}
	if param.BackoffParam.InitialDuration() != 100*time.Millisecond ||
		param.BackoffParam.Multiplier() != 3 ||
		param.BackoffParam.MaxDuration() != time.Second {
		t.Errorf("unexpected BackoffParam %+v", param.BackoffParam)
	}

	rl := cfg.RateLimiter()
	if rl.BaseDelay() != 10*time.Millisecond || rl.Jitter() != time.Millisecond {
		t.Errorf("unexpected rate limiter delay %v jitter %v", rl.BaseDelay(), rl.Jitter())
	}
}

func TestBuild_ReturnsValue(t *testing.T) {
	original := config.WithDefault()
	built, err := original.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	original.WithMaxAttempt(9)

	if built.MaxAttempt() != 3 {
		t.Error("Build() appears to return reference, not value")
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"relative base url", config.WithDefault().WithAPIBaseURL("/v1")},
		{"non http scheme", config.WithDefault().WithAPIBaseURL("ftp://example.com")},
		{"empty model", config.WithDefault().WithModel("")},
		{"zero timeout", config.WithDefault().WithSummarizeTimeout(0)},
		{"zero attempts", config.WithDefault().WithMaxAttempt(0)},
		{"shrinking backoff", config.WithDefault().WithBackoffMultiplier(0.5)},
		{"empty data dir", config.WithDefault().WithDataDir("")},
		{"zero max analyses", config.WithDefault().WithMaxAnalyses(0)},
		{"unknown log level", config.WithDefault().WithLogLevel("loud")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

func TestBuild_OfflineSkipsEndpointValidation(t *testing.T) {
	_, err := config.WithDefault().WithOffline(true).WithAPIBaseURL("").Build()
	if err != nil {
		t.Errorf("offline config should not need an endpoint, got %v", err)
	}
}

func TestWithConfigFile_FileDoesNotExist(t *testing.T) {
	_, err := config.WithConfigFile("/nonexistent/path/config.json")

	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got: %v", err)
	}
}

func TestWithConfigFile_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "invalid.json", "{invalid json content}")

	_, err := config.WithConfigFile(path)

	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid.yaml", "maxAttempt: [1, 2")

	_, err := config.WithConfigFile(path)

	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "bad.json", `{"summarizeTimeout": "soon"}`)

	_, err := config.WithConfigFile(path)

	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "apiBaseUrl": "https://llm.example.com/v1",
  "model": "summarizer-large",
  "apiKey": "sk-file",
  "summarizeTimeout": "45s",
  "languageTimeout": 2000000000,
  "maxAttempt": 4,
  "backoffInitialDuration": "200ms",
  "backoffMultiplier": 2.5,
  "dataDir": "/var/lib/docuprism",
  "maxAnalyses": 25,
  "logLevel": "warn"
}`)

	cfg, err := config.WithConfigFile(path)

	if err != nil {
		t.Fatalf("unexpected error loading valid config: %v", err)
	}
	if cfg.APIBaseURL() != "https://llm.example.com/v1" {
		t.Errorf("unexpected APIBaseURL %q", cfg.APIBaseURL())
	}
	if cfg.Model() != "summarizer-large" || cfg.APIKey() != "sk-file" {
		t.Errorf("unexpected model or key: %q %q", cfg.Model(), cfg.APIKey())
	}
	if cfg.SummarizeTimeout() != 45*time.Second {
		t.Errorf("expected SummarizeTimeout 45s, got %v", cfg.SummarizeTimeout())
	}
	if cfg.LanguageTimeout() != 2*time.Second {
		t.Errorf("expected LanguageTimeout 2s, got %v", cfg.LanguageTimeout())
	}
	if cfg.MaxAttempt() != 4 || cfg.BackoffInitialDuration() != 200*time.Millisecond || cfg.BackoffMultiplier() != 2.5 {
		t.Error("unexpected retry settings")
	}
	if cfg.DataDir() != "/var/lib/docuprism" || cfg.MaxAnalyses() != 25 {
		t.Error("unexpected storage settings")
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected LogLevel warn, got %q", cfg.LogLevel())
	}

	// untouched fields keep their defaults
	if cfg.CheckTimeout() != 10*time.Second || cfg.PreviewLength() != 1000 {
		t.Error("expected defaults for fields absent from the file")
	}
}

func TestWithConfigFile_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", `
apiBaseUrl: https://llm.example.com/v1
offline: true
checkTimeout: 5s
maxFileSize: 2048
metricsFile: /tmp/docuprism.prom
`)

	cfg, err := config.WithConfigFile(path)

	if err != nil {
		t.Fatalf("unexpected error loading valid config: %v", err)
	}
	if !cfg.Offline() {
		t.Error("expected Offline true")
	}
	if cfg.CheckTimeout() != 5*time.Second {
		t.Errorf("expected CheckTimeout 5s, got %v", cfg.CheckTimeout())
	}
	if cfg.MaxFileSize() != 2048 {
		t.Errorf("expected MaxFileSize 2048, got %d", cfg.MaxFileSize())
	}
	if cfg.MetricsFile() != "/tmp/docuprism.prom" {
		t.Errorf("unexpected MetricsFile %q", cfg.MetricsFile())
	}
}

func TestWithConfigFile_EmptyJSON(t *testing.T) {
	path := writeConfig(t, "empty.json", "{}")

	cfg, err := config.WithConfigFile(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxAttempt() != 3 {
		t.Errorf("expected default MaxAttempt 3, got %d", cfg.MaxAttempt())
	}
}

func TestWithConfigFile_InvalidValues(t *testing.T) {
	path := writeConfig(t, "invalid-values.json", `{"logLevel": "chatty"}`)

	_, err := config.WithConfigFile(path)

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got: %v", err)
	}
}

func TestBuild_CanonicalizesAPIBaseURL(t *testing.T) {
	cfg, err := config.WithDefault().
		WithAPIBaseURL("HTTPS://API.Example.com:443/v1/#chat").
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIBaseURL() != "https://api.example.com/v1" {
		t.Errorf("unexpected APIBaseURL %q", cfg.APIBaseURL())
	}
}
