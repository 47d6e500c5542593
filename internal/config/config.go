// Package config loads molframe CLI settings from defaults, an optional
// config file, MOLFRAME_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/codec"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "molframe"
	// EnvPrefix prefixes environment overrides, e.g. MOLFRAME_MORGAN_RADIUS.
	EnvPrefix = "MOLFRAME"
)

// Config is the full CLI configuration.
type Config struct {
	Log        LogConfig     `mapstructure:"log"`
	Progress   string        `mapstructure:"progress"`
	DropNulls  bool          `mapstructure:"drop_nulls"`
	ParseCache int           `mapstructure:"parse_cache"`
	Morgan     MorganConfig  `mapstructure:"morgan"`
	Store      StoreConfig   `mapstructure:"store"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json or logfmt
}

// MorganConfig holds fingerprint defaults.
type MorganConfig struct {
	Radius int    `mapstructure:"radius"`
	NBits  int    `mapstructure:"nbits"`
	Kind   string `mapstructure:"kind"`
}

// StoreConfig selects where featurize saves frames.
type StoreConfig struct {
	Backend     string `mapstructure:"backend"` // none, local, s3 or minio
	Path        string `mapstructure:"path"`
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Secure      bool   `mapstructure:"secure"`
	CacheDir    string `mapstructure:"cache_dir"`
	Codec       string `mapstructure:"codec"`
	Compression string `mapstructure:"compression"`
}

// MetricsConfig controls the Prometheus text file written after a run.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// Default returns the defaults, which mirror the library defaults.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Progress:  string(molframe.ProgressNone),
		DropNulls: true,
		Morgan: MorganConfig{
			Radius: molframe.DefaultRadius,
			NBits:  molframe.DefaultNBits,
			Kind:   string(molframe.KindCounts),
		},
		Store: StoreConfig{
			Backend:     "none",
			Secure:      true,
			Codec:       codec.Default.Name(),
			Compression: codec.CompressionZSTD.String(),
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"progress":     "progress",
	"drop-nulls":   "drop_nulls",
	"parse-cache":  "parse_cache",
	"radius":       "morgan.radius",
	"nbits":        "morgan.nbits",
	"kind":         "morgan.kind",
	"store":        "store.backend",
	"store-path":   "store.path",
	"bucket":       "store.bucket",
	"prefix":       "store.prefix",
	"region":       "store.region",
	"endpoint":     "store.endpoint",
	"cache-dir":    "store.cache_dir",
	"codec":        "store.codec",
	"compression":  "store.compression",
	"metrics-file": "metrics.file",
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("progress", d.Progress)
	v.SetDefault("drop_nulls", d.DropNulls)
	v.SetDefault("parse_cache", d.ParseCache)
	v.SetDefault("morgan.radius", d.Morgan.Radius)
	v.SetDefault("morgan.nbits", d.Morgan.NBits)
	v.SetDefault("morgan.kind", d.Morgan.Kind)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.bucket", d.Store.Bucket)
	v.SetDefault("store.prefix", d.Store.Prefix)
	v.SetDefault("store.region", d.Store.Region)
	v.SetDefault("store.endpoint", d.Store.Endpoint)
	v.SetDefault("store.access_key", d.Store.AccessKey)
	v.SetDefault("store.secret_key", d.Store.SecretKey)
	v.SetDefault("store.secure", d.Store.Secure)
	v.SetDefault("store.cache_dir", d.Store.CacheDir)
	v.SetDefault("store.codec", d.Store.Codec)
	v.SetDefault("store.compression", d.Store.Compression)
	v.SetDefault("metrics.file", d.Metrics.File)
}

// Load builds the configuration. path names a config file (any format
// viper reads); when empty, molframe.{yaml,json,toml} in the working
// directory is used if present. Flags in fs that were set explicitly
// override everything else; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the library would otherwise reject later.
func (c *Config) Validate() error {
	if _, err := molframe.ParseProgressMode(c.Progress); err != nil {
		return err
	}
	if c.ParseCache < 0 {
		return errors.Newf("parse_cache must be >= 0, got %d", c.ParseCache)
	}
	if c.Morgan.Radius < 0 {
		return errors.Newf("morgan.radius must be >= 0, got %d", c.Morgan.Radius)
	}
	if c.Morgan.NBits <= 0 {
		return errors.Newf("morgan.nbits must be > 0, got %d", c.Morgan.NBits)
	}
	switch molframe.FingerprintKind(c.Morgan.Kind) {
	case molframe.KindCounts, molframe.KindBits:
	default:
		return errors.Newf("morgan.kind must be %q or %q, got %q", molframe.KindCounts, molframe.KindBits, c.Morgan.Kind)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return errors.Newf("log.format must be text, json or logfmt, got %q", c.Log.Format)
	}
	switch c.Store.Backend {
	case "none", "":
	case "local":
		if c.Store.Path == "" {
			return errors.New("store.path is required for the local backend")
		}
	case "s3", "minio":
		if c.Store.Bucket == "" {
			return errors.Newf("store.bucket is required for the %s backend", c.Store.Backend)
		}
		if c.Store.Backend == "minio" && c.Store.Endpoint == "" {
			return errors.New("store.endpoint is required for the minio backend")
		}
	default:
		return errors.Newf("unknown store.backend %q", c.Store.Backend)
	}
	if _, ok := codec.ByName(c.Store.Codec); !ok {
		return errors.Newf("unknown store.codec %q", c.Store.Codec)
	}
	if _, err := codec.ParseCompression(c.Store.Compression); err != nil {
		return err
	}
	return nil
}

// Options converts the configuration into transformer options.
func (c *Config) Options() []molframe.Option {
	mode, _ := molframe.ParseProgressMode(c.Progress)
	return []molframe.Option{
		molframe.WithProgress(mode),
		molframe.WithDropNulls(c.DropNulls),
		molframe.WithParseCache(c.ParseCache),
		molframe.WithRadius(c.Morgan.Radius),
		molframe.WithNBits(c.Morgan.NBits),
		molframe.WithKind(molframe.FingerprintKind(c.Morgan.Kind)),
	}
}
