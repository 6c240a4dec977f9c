package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rohmanhakim/newsguard/internal/cache"
	"github.com/rohmanhakim/newsguard/internal/render"
)

const (
	DefaultAPIBaseURL         = "http://localhost:8000"
	DefaultUserAgent          = "newsguard/1.0"
	DefaultCacheCapacityBytes = 5 * 1024 * 1024
	DefaultListenAddr         = ":8080"
	fallbackCacheDir          = ".newsguard-cache"
)

type Config struct {
	//===============
	// Analysis service
	//===============
	// Base URL of the analysis service; requests go to {apiBaseURL}/analyse/
	apiBaseURL string
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum time of a single analysis request. Zero leaves it to the transport
	timeout time.Duration

	//===============
	// Cache
	//===============
	// Directory holding one file per cached analysis
	cacheDir string
	// Namespace prepended to every cache key
	cachePrefix string
	// Age after which a cached analysis is no longer served
	cacheTTL time.Duration
	// Upper bound on the bytes the cache directory may hold. Zero means unbounded
	cacheCapacityBytes int64
	// Bypass cache reads for scans; successful results are still stored
	noCache bool

	//===============
	// Politeness
	//===============
	// Minimum, fixed waiting time enforced between two requests to the analysis service.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64

	//===============
	// Output
	//===============
	// Address the web client listens on
	listenAddr string
	// One of text, html, markdown, json
	outputFormat render.Format
	// zerolog level name
	logLevel string
	// console or json
	logFormat string
}

type configDTO struct {
	APIBaseURL         string   `json:"apiBaseUrl,omitempty" yaml:"apiBaseUrl,omitempty"`
	UserAgent          string   `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Timeout            Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	CacheDir           string   `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty"`
	CachePrefix        string   `json:"cachePrefix,omitempty" yaml:"cachePrefix,omitempty"`
	CacheTTL           Duration `json:"cacheTtl,omitempty" yaml:"cacheTtl,omitempty"`
	CacheCapacityBytes int64    `json:"cacheCapacityBytes,omitempty" yaml:"cacheCapacityBytes,omitempty"`
	NoCache            bool     `json:"noCache,omitempty" yaml:"noCache,omitempty"`
	BaseDelay          Duration `json:"baseDelay,omitempty" yaml:"baseDelay,omitempty"`
	Jitter             Duration `json:"jitter,omitempty" yaml:"jitter,omitempty"`
	RandomSeed         int64    `json:"randomSeed,omitempty" yaml:"randomSeed,omitempty"`
	ListenAddr         string   `json:"listenAddr,omitempty" yaml:"listenAddr,omitempty"`
	OutputFormat       string   `json:"outputFormat,omitempty" yaml:"outputFormat,omitempty"`
	LogLevel           string   `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat          string   `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// only override if non-zero value is provided
	if dto.APIBaseURL != "" {
		cfg.apiBaseURL = dto.APIBaseURL
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.Timeout != 0 {
		cfg.timeout = time.Duration(dto.Timeout)
	}
	if dto.CacheDir != "" {
		cfg.cacheDir = dto.CacheDir
	}
	if dto.CachePrefix != "" {
		cfg.cachePrefix = dto.CachePrefix
	}
	if dto.CacheTTL != 0 {
		cfg.cacheTTL = time.Duration(dto.CacheTTL)
	}
	if dto.CacheCapacityBytes != 0 {
		cfg.cacheCapacityBytes = dto.CacheCapacityBytes
	}
	cfg.noCache = dto.NoCache
	if dto.BaseDelay != 0 {
		cfg.baseDelay = time.Duration(dto.BaseDelay)
	}
	if dto.Jitter != 0 {
		cfg.jitter = time.Duration(dto.Jitter)
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.ListenAddr != "" {
		cfg.listenAddr = dto.ListenAddr
	}
	if dto.OutputFormat != "" {
		cfg.outputFormat = render.Format(dto.OutputFormat)
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		cfg.logFormat = dto.LogFormat
	}

	return cfg.Build()
}

// WithConfigFile loads a config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. Fields left out keep their
// defaults.
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
func WithDefault() *Config {
	defaultConfig := Config{
		apiBaseURL:         DefaultAPIBaseURL,
		userAgent:          DefaultUserAgent,
		timeout:            0,
		cacheDir:           DefaultCacheDir(),
		cachePrefix:        cache.DefaultPrefix,
		cacheTTL:           cache.DefaultTTL,
		cacheCapacityBytes: DefaultCacheCapacityBytes,
		noCache:            false,
		baseDelay:          0,
		jitter:             0,
		randomSeed:         time.Now().UnixNano(),
		listenAddr:         DefaultListenAddr,
		outputFormat:       render.FormatText,
		logLevel:           "info",
		logFormat:          "console",
	}
	return &defaultConfig
}

// DefaultCacheDir is $XDG_CACHE_HOME/newsguard, or the user cache
// directory, or .newsguard-cache in the working directory.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "newsguard")
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "newsguard")
	}
	return fallbackCacheDir
}

func (c *Config) WithAPIBaseURL(baseURL string) *Config {
	c.apiBaseURL = baseURL
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithCacheDir(dir string) *Config {
	c.cacheDir = dir
	return c
}

func (c *Config) WithCachePrefix(prefix string) *Config {
	c.cachePrefix = prefix
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithCacheCapacityBytes(capacity int64) *Config {
	c.cacheCapacityBytes = capacity
	return c
}

func (c *Config) WithNoCache(noCache bool) *Config {
	c.noCache = noCache
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

func (c *Config) WithListenAddr(addr string) *Config {
	c.listenAddr = addr
	return c
}

func (c *Config) WithOutputFormat(format string) *Config {
	c.outputFormat = render.Format(format)
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	parsed, err := url.Parse(c.apiBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Config{}, fmt.Errorf("%w: apiBaseUrl must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.apiBaseURL)
	}
	if c.cacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: cacheTtl must be positive", ErrInvalidConfig)
	}
	if c.cachePrefix == "" {
		return Config{}, fmt.Errorf("%w: cachePrefix cannot be empty", ErrInvalidConfig)
	}
	if c.cacheDir == "" {
		c.cacheDir = fallbackCacheDir
	}
	if c.timeout < 0 || c.baseDelay < 0 || c.jitter < 0 {
		return Config{}, fmt.Errorf("%w: durations cannot be negative", ErrInvalidConfig)
	}
	format, err := render.ParseFormat(string(c.outputFormat))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	c.outputFormat = format
	switch strings.ToLower(c.logFormat) {
	case "console", "json":
		c.logFormat = strings.ToLower(c.logFormat)
	default:
		return Config{}, fmt.Errorf("%w: logFormat must be console or json, got %q", ErrInvalidConfig, c.logFormat)
	}

	return *c, nil
}

func (c Config) APIBaseURL() string {
	return c.apiBaseURL
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) CacheDir() string {
	return c.cacheDir
}

func (c Config) CachePrefix() string {
	return c.cachePrefix
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) CacheCapacityBytes() int64 {
	return c.cacheCapacityBytes
}

func (c Config) NoCache() bool {
	return c.noCache
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

func (c Config) ListenAddr() string {
	return c.listenAddr
}

func (c Config) OutputFormat() render.Format {
	return c.outputFormat
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}
