package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/layermerge/pkg/cache"
	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/server"
)

// Cache backends.
const (
	backendNone   = "none"
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

var backends = []string{backendNone, backendFile, backendMemory, backendRedis, backendMongo}

// Config is the contents of config.toml. Command-line flags override it.
type Config struct {
	Merge  MergeConfig  `toml:"merge"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// MergeConfig holds pass defaults.
type MergeConfig struct {
	Flags     string `toml:"flags"`
	Threshold *int   `toml:"threshold"` // nil: pipeline default; 0: never abort
	Force     bool   `toml:"force"`
	WrapRoot  bool   `toml:"wrap_root"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
	Size     int    `toml:"size"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
	Cache           string   `toml:"cache"` // backend override for serve
}

// duration decodes TOML strings such as "15s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Merge.Flags == "" {
		c.Merge.Flags = pipeline.DefaultFlags
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = cache.DefaultMemoryEntries
	}
	if c.Server.Addr == "" {
		c.Server.Addr = server.DefaultAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = server.DefaultMaxBodyBytes
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = server.DefaultShutdownTimeout
	}
	if c.Server.Cache == "" {
		c.Server.Cache = backendMemory
	}
}

func (c *Config) validate() error {
	for _, b := range []string{c.Cache.Backend, c.Server.Cache} {
		if !slices.Contains(backends, b) {
			return apperr.New(apperr.ErrCodeInvalidInput, "unknown cache backend %q (must be one of %s)", b, strings.Join(backends, ", "))
		}
	}
	if t := c.Merge.Threshold; t != nil {
		if err := apperr.ValidateThreshold(*t); err != nil {
			return err
		}
	}
	if c.Cache.Size < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "cache size must be >= 0, got %d", c.Cache.Size)
	}
	return nil
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file yields [DefaultConfig]; a missing explicit file is
// an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return DefaultConfig(), nil
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnv loads envFile (if present) and overlays LAYERMERGE_* variables.
// Variables already set in the process take precedence over the file.
func (c *Config) applyEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v := os.Getenv(envPrefix + "ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envPrefix + "CACHE"); v != "" {
		c.Server.Cache = v
	}
	if v := os.Getenv(envPrefix + "REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(envPrefix + "MONGO_URI"); v != "" {
		c.Cache.MongoURI = v
	}
	if v := os.Getenv(envPrefix + "MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%sMAX_BODY_BYTES", envPrefix)
		}
		c.Server.MaxBodyBytes = n
	}
	return c.validate()
}

// newCache opens the configured backend.
func newCache(ctx context.Context, cfg CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		return cache.NewMemoryCache(cfg.Size)
	case backendRedis:
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, results will not be cached until it recovers", "err", err)
		}
		return rc, nil
	case backendMongo:
		mc, err := cache.NewMongoCache(ctx, cfg.MongoURI, cfg.Database, "")
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo ttl index not created", "err", err)
		}
		return mc, nil
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				logger.Debug("no cache directory, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}
