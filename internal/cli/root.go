package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/newsguard/internal/config"
)

var (
	cfgFile      string
	apiURL       string
	cacheDir     string
	cacheTTL     time.Duration
	userAgent    string
	timeout      time.Duration
	baseDelay    time.Duration
	jitter       time.Duration
	randomSeed   int64
	logLevel     string
	logFormat    string
	outputFormat string
	noCache      bool
	listenAddr   string
)

// errScanFailed makes the process exit non-zero after every URL was tried.
var errScanFailed = errors.New("one or more scans failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "newsguard",
	Short: "Analyse news articles for bias, topic and sentiment.",
	Long: `newsguard submits news article URLs to an analysis service and shows
the returned title, summary, bias and topic classification, sentiment and
named people.

Results are cached on disk per article URL for 24 hours by default, so
scanning the same article again is served without calling the service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScanFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., /home/myuser/newsguard.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of the analysis service (default "+config.DefaultAPIBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory holding cached analyses (default $XDG_CACHE_HOME/newsguard)")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long a cached analysis is served (default 24h)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for analysis requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for a single analysis request (0 for none)")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "minimum delay between two analysis requests")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (default console)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "output format: text, html, markdown, json (default text)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "always ask the analysis service, still storing the result")

	rootCmd.AddCommand(scanCmd, cacheCmd, serveCmd, versionCmd)
}

// InitConfigWithError builds the Config from the config file when one is
// given, otherwise from defaults overridden by the flags that were set.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault()

	if apiURL != "" {
		configBuilder = configBuilder.WithAPIBaseURL(apiURL)
	}

	if cacheDir != "" {
		configBuilder = configBuilder.WithCacheDir(cacheDir)
	}

	if cacheTTL != 0 {
		configBuilder = configBuilder.WithCacheTTL(cacheTTL)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout != 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if baseDelay != 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}

	if jitter != 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if outputFormat != "" {
		configBuilder = configBuilder.WithOutputFormat(outputFormat)
	}

	if noCache {
		configBuilder = configBuilder.WithNoCache(noCache)
	}

	if listenAddr != "" {
		configBuilder = configBuilder.WithListenAddr(listenAddr)
	}

	return configBuilder.Build()
}

// ExecuteForTest runs the root command with args, writing to the given
// streams instead of the process's.
func ExecuteForTest(args []string, stdout io.Writer, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.Execute()
}

func ResetFlags() {
	cfgFile = ""
	apiURL = ""
	cacheDir = ""
	cacheTTL = 0
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	logLevel = ""
	logFormat = ""
	outputFormat = ""
	noCache = false
	listenAddr = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetAPIURLForTest(u string) {
	apiURL = u
}

func SetCacheDirForTest(dir string) {
	cacheDir = dir
}

func SetCacheTTLForTest(ttl time.Duration) {
	cacheTTL = ttl
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func SetJitterForTest(j time.Duration) {
	jitter = j
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetOutputFormatForTest(format string) {
	outputFormat = format
}

func SetNoCacheForTest(bypass bool) {
	noCache = bypass
}

func SetListenAddrForTest(addr string) {
	listenAddr = addr
}
