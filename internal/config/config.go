// Package config loads goistanbul settings from .goistanbul.yaml, the
// environment and command line flags.
package config

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GOISTANBUL_LOG_LEVEL.
const EnvPrefix = "GOISTANBUL"

// FileName is the base name of the config file looked up in the working
// directory.
const FileName = ".goistanbul"

// Thresholds are minimum percentages; zero disables a check.
type Thresholds struct {
	Statements float64 `mapstructure:"statements"`
	Branches   float64 `mapstructure:"branches"`
	Functions  float64 `mapstructure:"functions"`
	Lines      float64 `mapstructure:"lines"`
}

// Config holds every setting.
type Config struct {
	LogLevel         string     `mapstructure:"log_level"`
	ReportLogic      bool       `mapstructure:"report_logic"`
	CoverageVariable string     `mapstructure:"coverage_variable"`
	Exclude          []string   `mapstructure:"exclude"`
	Include          []string   `mapstructure:"include"`
	OutputDir        string     `mapstructure:"output_dir"`
	TempDir          string     `mapstructure:"temp_dir"`
	Reporters        []string   `mapstructure:"reporters"`
	ReportDir        string     `mapstructure:"report_dir"`
	Parallel         int        `mapstructure:"parallel"`
	FlushMain        bool       `mapstructure:"flush_main"`
	RuntimeReplace   string     `mapstructure:"runtime_replace"`
	Thresholds       Thresholds `mapstructure:"thresholds"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("report_logic", false)
	v.SetDefault("coverage_variable", "__coverage__")
	v.SetDefault("exclude", []string{})
	v.SetDefault("include", []string{})
	v.SetDefault("output_dir", ".goistanbul_output")
	v.SetDefault("temp_dir", "")
	v.SetDefault("reporters", []string{"text"})
	v.SetDefault("report_dir", "coverage")
	v.SetDefault("parallel", runtime.GOMAXPROCS(0))
	v.SetDefault("flush_main", true)
	v.SetDefault("runtime_replace", "")
	v.SetDefault("thresholds.statements", 0)
	v.SetDefault("thresholds.branches", 0)
	v.SetDefault("thresholds.functions", 0)
	v.SetDefault("thresholds.lines", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds each flag whose name, with dashes as underscores, is a
// config key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err != nil || !v.IsSet(key) {
			return
		}

		err = errors.Wrapf(v.BindPFlag(key, f), "bind flag %s", f.Name)
	})

	return err
}

// Load reads file, or .goistanbul.yaml from the working directory when file
// is empty, and decodes the merged settings. A missing default file is not
// an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config data")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and that every filter compiles.
func (c Config) Validate() error {
	if c.Parallel < 1 {
		return errors.Newf("parallel must be at least 1, got %d", c.Parallel)
	}

	for name, pct := range map[string]float64{
		"statements": c.Thresholds.Statements,
		"branches":   c.Thresholds.Branches,
		"functions":  c.Thresholds.Functions,
		"lines":      c.Thresholds.Lines,
	} {
		if pct < 0 || pct > 100 {
			return errors.Newf("thresholds.%s must be within 0..100, got %v", name, pct)
		}
	}

	if _, err := CompilePatterns(c.Include); err != nil {
		return errors.Wrap(err, "include")
	}

	if _, err := CompilePatterns(c.Exclude); err != nil {
		return errors.Wrap(err, "exclude")
	}

	return nil
}

// CompilePatterns compiles each regular expression.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}

		out = append(out, re)
	}

	return out, nil
}
