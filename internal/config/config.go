// Package config loads the qctl configuration file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "qbench.yaml"

type Config struct {
	// OutputDir receives generated files unless the viewer directory is
	// available.
	OutputDir string `yaml:"output_dir"`

	// ViewerDir is the benchmark viewer's template directory. When set and
	// present on disk it becomes the default output directory.
	ViewerDir string `yaml:"viewer_dir"`

	Jobs               int               `yaml:"jobs"`
	RigettiCalibration string            `yaml:"rigetti_calibration"`
	CompilerVersions   map[string]string `yaml:"compiler_versions"`

	Registry RegistryConfig `yaml:"registry"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
}

type RegistryConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres, derived from DSN when empty
	DSN    string `yaml:"dsn"`    // empty disables the registry
}

type CacheConfig struct {
	Size      int           `yaml:"size"`
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"` // empty selects the in-process cache
	RedisDB   int           `yaml:"redis_db"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

func Default() Config {
	return Config{
		OutputDir: ".",
		Cache: CacheConfig{
			Size:    1024,
			TTL:     time.Hour,
			RedisDB: 1,
		},
		Server: ServerConfig{Listen: "localhost:50061"},
	}
}

// Load reads path over the defaults. With an empty path DefaultFile is used
// if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config file %s", path)
	}
	log.WithField("file", path).Debug("loaded config")
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Cache.Size <= 0 {
		return errors.Errorf("cache size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.TTL < 0 {
		return errors.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	switch c.Registry.Driver {
	case "", "sqlite", "postgres":
	default:
		return errors.Errorf("unknown registry driver %q", c.Registry.Driver)
	}
	return nil
}

// ViewerAvailable reports whether the viewer directory exists.
func (c Config) ViewerAvailable() bool {
	if c.ViewerDir == "" {
		return false
	}
	st, err := os.Stat(c.ViewerDir)
	return err == nil && st.IsDir()
}

// DefaultOutputDir is the viewer directory when available, OutputDir
// otherwise.
func (c Config) DefaultOutputDir() string {
	if c.ViewerAvailable() {
		return c.ViewerDir
	}
	return c.OutputDir
}
