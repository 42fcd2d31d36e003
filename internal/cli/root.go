package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohmanhakim/docuprism/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	dataDir     string
	logLevel    string
	logFile     string
	offline     bool
	apiBaseURL  string
	model       string
	metricsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docuprism",
	Short: "A local-first document summarizer.",
	Long: `docuprism loads a document, detects its language and produces a summary
through an OpenAI-compatible chat completion endpoint.

Summaries are cached in memory for the duration of a run, keyed by the
document text and the chosen options, so repeated requests never reach the
model twice. Analyses can be kept in a small local history and AI-produced
markdown can be rendered to sanitized HTML.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the context of the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// ExecuteArgs runs the command tree with explicit arguments and streams.
func ExecuteArgs(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., /home/myuser/docuprism.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the analysis history")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "detect language locally instead of asking the model")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "base URL of an OpenAI-compatible API")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model used for summaries and language detection")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(
		summarizeCmd,
		detectCmd,
		renderCmd,
		checkCmd,
		historyCmd,
		versionCmd,
	)
}

// InitConfigWithError builds the configuration from the config file, if
// any, then applies flag overrides. The API key comes from the file or
// from DOCUPRISM_API_KEY.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		fileCfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &fileCfg
	}

	// Override with CLI flag values where provided
	if dataDir != "" {
		configBuilder = configBuilder.WithDataDir(dataDir)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFile != "" {
		configBuilder = configBuilder.WithLogFile(logFile)
	}

	if offline {
		configBuilder = configBuilder.WithOffline(offline)
	}

	if apiBaseURL != "" {
		configBuilder = configBuilder.WithAPIBaseURL(apiBaseURL)
	}

	if model != "" {
		configBuilder = configBuilder.WithModel(model)
	}

	if metricsFile != "" {
		configBuilder = configBuilder.WithMetricsFile(metricsFile)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	dataDir = ""
	logLevel = ""
	logFile = ""
	offline = false
	apiBaseURL = ""
	model = ""
	metricsFile = ""

	summaryType = ""
	summaryFormat = ""
	summaryLength = ""
	userContext = ""
	saveAnalysis = false
	asHTML = false
	showStats = false
	outputDir = ""

	renderInline = false
	renderPlain = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetDataDirForTest(dir string) {
	dataDir = dir
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetOfflineForTest(off bool) {
	offline = off
}

func SetAPIBaseURLForTest(baseURL string) {
	apiBaseURL = baseURL
}

func SetModelForTest(m string) {
	model = m
}

func SetMetricsFileForTest(path string) {
	metricsFile = path
}
