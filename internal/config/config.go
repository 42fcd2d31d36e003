package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohmanhakim/docuprism/pkg/limiter"
	"github.com/rohmanhakim/docuprism/pkg/retry"
	"github.com/rohmanhakim/docuprism/pkg/timeutil"
	"github.com/rohmanhakim/docuprism/pkg/urlutil"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv names the environment variable that supplies the API key.
const APIKeyEnv = "DOCUPRISM_API_KEY"

type Config struct {
	//===============
	//  Summarization endpoint
	//===============
	// Base URL of an OpenAI-compatible API, e.g. http://localhost:11434/v1
	apiBaseURL string
	// Model name sent with every chat completion request
	model string
	// Bearer token. Empty means no Authorization header is sent
	apiKey string
	// Skip the remote language detector and use the offline heuristic
	offline bool

	//===============
	// Timeouts
	//===============
	// Maximum time for the availability probe
	checkTimeout time.Duration
	// Maximum time of a single summarize attempt
	summarizeTimeout time.Duration
	// Maximum time for remote language detection before falling back to English
	languageTimeout time.Duration

	//===============
	// Retry
	//===============
	// maximum attempt during retry
	maxAttempt int
	// Fixed delay added before each retry
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Storage
	//===============
	// Directory holding the history file and, by default, metrics output
	dataDir string
	// Number of analyses kept in history
	maxAnalyses int
	// Number of characters of the input stored with each analysis
	previewLength int
	// Largest file the loader accepts, in bytes
	maxFileSize int64

	//===============
	// Observability
	//===============
	// zerolog level name
	logLevel string
	// Log destination. Empty means stderr
	logFile string
	// Prometheus textfile written after each command. Empty disables it
	metricsFile string
}

// duration accepts Go duration strings ("30s") as well as integer
// nanoseconds in config files.
type duration time.Duration

func (d *duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = duration(time.Duration(v))
		return nil
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
}

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var asInt int64
	if err := node.Decode(&asInt); err == nil {
		*d = duration(time.Duration(asInt))
		return nil
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

type configDTO struct {
	APIBaseURL             string   `json:"apiBaseUrl,omitempty" yaml:"apiBaseUrl,omitempty"`
	Model                  string   `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey                 string   `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Offline                bool     `json:"offline,omitempty" yaml:"offline,omitempty"`
	CheckTimeout           duration `json:"checkTimeout,omitempty" yaml:"checkTimeout,omitempty"`
	SummarizeTimeout       duration `json:"summarizeTimeout,omitempty" yaml:"summarizeTimeout,omitempty"`
	LanguageTimeout        duration `json:"languageTimeout,omitempty" yaml:"languageTimeout,omitempty"`
	MaxAttempt             int      `json:"maxAttempt,omitempty" yaml:"maxAttempt,omitempty"`
	BaseDelay              duration `json:"baseDelay,omitempty" yaml:"baseDelay,omitempty"`
	Jitter                 duration `json:"jitter,omitempty" yaml:"jitter,omitempty"`
	RandomSeed             int64    `json:"randomSeed,omitempty" yaml:"randomSeed,omitempty"`
	BackoffInitialDuration duration `json:"backoffInitialDuration,omitempty" yaml:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64  `json:"backoffMultiplier,omitempty" yaml:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     duration `json:"backoffMaxDuration,omitempty" yaml:"backoffMaxDuration,omitempty"`
	DataDir                string   `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`
	MaxAnalyses            int      `json:"maxAnalyses,omitempty" yaml:"maxAnalyses,omitempty"`
	PreviewLength          int      `json:"previewLength,omitempty" yaml:"previewLength,omitempty"`
	MaxFileSize            int64    `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"`
	LogLevel               string   `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFile                string   `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	MetricsFile            string   `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// only override if non-zero value is provided
	if dto.APIBaseURL != "" {
		cfg.apiBaseURL = dto.APIBaseURL
	}
	if dto.Model != "" {
		cfg.model = dto.Model
	}
	if dto.APIKey != "" {
		cfg.apiKey = dto.APIKey
	}
	cfg.offline = dto.Offline

	if dto.CheckTimeout != 0 {
		cfg.checkTimeout = time.Duration(dto.CheckTimeout)
	}
	if dto.SummarizeTimeout != 0 {
		cfg.summarizeTimeout = time.Duration(dto.SummarizeTimeout)
	}
	if dto.LanguageTimeout != 0 {
		cfg.languageTimeout = time.Duration(dto.LanguageTimeout)
	}

	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = time.Duration(dto.BaseDelay)
	}
	if dto.Jitter != 0 {
		cfg.jitter = time.Duration(dto.Jitter)
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = time.Duration(dto.BackoffInitialDuration)
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = time.Duration(dto.BackoffMaxDuration)
	}

	if dto.DataDir != "" {
		cfg.dataDir = dto.DataDir
	}
	if dto.MaxAnalyses != 0 {
		cfg.maxAnalyses = dto.MaxAnalyses
	}
	if dto.PreviewLength != 0 {
		cfg.previewLength = dto.PreviewLength
	}
	if dto.MaxFileSize != 0 {
		cfg.maxFileSize = dto.MaxFileSize
	}

	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFile != "" {
		cfg.logFile = dto.LogFile
	}
	if dto.MetricsFile != "" {
		cfg.metricsFile = dto.MetricsFile
	}

	return cfg.Build()
}

// WithConfigFile loads a JSON or YAML (.yaml, .yml) config file on top of
// the defaults.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		err = json.Unmarshal(configContent, &cfgDTO)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with default values for all fields.
// The API key is read from DOCUPRISM_API_KEY.
func WithDefault() *Config {
	defaultConfig := Config{
		apiBaseURL:             "http://localhost:11434/v1",
		model:                  "llama3.2",
		apiKey:                 os.Getenv(APIKeyEnv),
		offline:                false,
		checkTimeout:           10 * time.Second,
		summarizeTimeout:       30 * time.Second,
		languageTimeout:        3 * time.Second,
		maxAttempt:             3,
		baseDelay:              0,
		jitter:                 250 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		backoffInitialDuration: time.Second,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		dataDir:                defaultDataDir(),
		maxAnalyses:            10,
		previewLength:          1000,
		maxFileSize:            10 * 1024 * 1024,
		logLevel:               "info",
		logFile:                "",
		metricsFile:            "",
	}
	return &defaultConfig
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "docuprism")
	}
	return ".docuprism"
}

func (c *Config) WithAPIBaseURL(baseURL string) *Config {
	c.apiBaseURL = baseURL
	return c
}

func (c *Config) WithModel(model string) *Config {
	c.model = model
	return c
}

func (c *Config) WithAPIKey(apiKey string) *Config {
	c.apiKey = apiKey
	return c
}

func (c *Config) WithOffline(offline bool) *Config {
	c.offline = offline
	return c
}

func (c *Config) WithCheckTimeout(timeout time.Duration) *Config {
	c.checkTimeout = timeout
	return c
}

func (c *Config) WithSummarizeTimeout(timeout time.Duration) *Config {
	c.summarizeTimeout = timeout
	return c
}

func (c *Config) WithLanguageTimeout(timeout time.Duration) *Config {
	c.languageTimeout = timeout
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithDataDir(dataDir string) *Config {
	c.dataDir = dataDir
	return c
}

func (c *Config) WithMaxAnalyses(maxAnalyses int) *Config {
	c.maxAnalyses = maxAnalyses
	return c
}

func (c *Config) WithPreviewLength(length int) *Config {
	c.previewLength = length
	return c
}

func (c *Config) WithMaxFileSize(size int64) *Config {
	c.maxFileSize = size
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFile(file string) *Config {
	c.logFile = file
	return c
}

func (c *Config) WithMetricsFile(file string) *Config {
	c.metricsFile = file
	return c
}

func (c *Config) Build() (Config, error) {
	built := *c
	if !c.offline {
		endpoint, ok := urlutil.ParseEndpoint(c.apiBaseURL)
		if !ok {
			return Config{}, fmt.Errorf("%w: apiBaseUrl must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.apiBaseURL)
		}
		built.apiBaseURL = endpoint.String()
		if c.model == "" {
			return Config{}, fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
		}
	}
	if c.checkTimeout <= 0 || c.summarizeTimeout <= 0 || c.languageTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempt must be at least 1", ErrInvalidConfig)
	}
	if c.backoffMultiplier < 1 {
		return Config{}, fmt.Errorf("%w: backoffMultiplier must be at least 1", ErrInvalidConfig)
	}
	if c.dataDir == "" {
		return Config{}, fmt.Errorf("%w: dataDir cannot be empty", ErrInvalidConfig)
	}
	if c.maxAnalyses < 1 || c.previewLength < 1 || c.maxFileSize < 1 {
		return Config{}, fmt.Errorf("%w: maxAnalyses, previewLength and maxFileSize must be positive", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	return built, nil
}

func (c Config) APIBaseURL() string {
	return c.apiBaseURL
}

func (c Config) Model() string {
	return c.model
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) Offline() bool {
	return c.offline
}

func (c Config) CheckTimeout() time.Duration {
	return c.checkTimeout
}

func (c Config) SummarizeTimeout() time.Duration {
	return c.summarizeTimeout
}

func (c Config) LanguageTimeout() time.Duration {
	return c.languageTimeout
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

// RateLimiter builds the per-host request pacer from the same delay, jitter
// and backoff settings the retry loop uses.
func (c Config) RateLimiter() *limiter.ConcurrentRateLimiter {
	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(c.baseDelay)
	rl.SetJitter(c.jitter)
	rl.SetRandomSeed(c.randomSeed)
	rl.SetBackoffParam(timeutil.NewBackoffParam(
		c.backoffInitialDuration,
		c.backoffMultiplier,
		c.backoffMaxDuration,
	))
	return rl
}

// RetryParam assembles the retry settings for pkg/retry.
func (c Config) RetryParam() retry.RetryParam {
	return retry.NewRetryParam(
		c.baseDelay,
		c.jitter,
		c.randomSeed,
		c.maxAttempt,
		timeutil.NewBackoffParam(
			c.backoffInitialDuration,
			c.backoffMultiplier,
			c.backoffMaxDuration,
		),
	)
}

func (c Config) DataDir() string {
	return c.dataDir
}

func (c Config) MaxAnalyses() int {
	return c.maxAnalyses
}

func (c Config) PreviewLength() int {
	return c.previewLength
}

func (c Config) MaxFileSize() int64 {
	return c.maxFileSize
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFile() string {
	return c.logFile
}

func (c Config) MetricsFile() string {
	return c.metricsFile
}
