// Package config loads prima settings from defaults, an optional YAML file,
// and PRIMA_* environment variables, and validates them against an embedded
// CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"

	"github.com/roach88/prima/internal/inspector"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix prefixes environment overrides, e.g. PRIMA_REPORT_FORMAT.
const EnvPrefix = "PRIMA"

// FileName is the config file looked up in the working directory.
const FileName = ".prima"

// Config holds every setting of the prima command.
type Config struct {
	// Tolerance is the relative tolerance of the raw floating point
	// comparison in exact checks.
	Tolerance      float64  `json:"tolerance" mapstructure:"tolerance"`
	OpaqueTypes    []string `json:"opaque_types" mapstructure:"opaque_types"`
	OpaquePackages []string `json:"opaque_packages" mapstructure:"opaque_packages"`

	Report  ReportConfig  `json:"report" mapstructure:"report"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	History HistoryConfig `json:"history" mapstructure:"history"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Full     bool   `json:"full" mapstructure:"full"`
	PrintAll bool   `json:"print_all" mapstructure:"print_all"`
	Format   string `json:"format" mapstructure:"format"`
}

// LoggingConfig controls diagnostics logging.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// HistoryConfig locates the run history database. An empty path disables
// history.
type HistoryConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tolerance:      inspector.DefaultTolerance,
		OpaqueTypes:    []string{},
		OpaquePackages: []string{},
		Report:         ReportConfig{Format: "text"},
		Logging:        LoggingConfig{Level: "warn"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("opaque_types", d.OpaqueTypes)
	v.SetDefault("opaque_packages", d.OpaquePackages)
	v.SetDefault("report.full", d.Report.Full)
	v.SetDefault("report.print_all", d.Report.PrintAll)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("history.path", d.History.Path)
}

// Load reads the configuration. With an empty path, .prima.yaml in the
// working directory is used when present; a named file must exist.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	// nil slices encode as null.
	norm := *c
	if norm.OpaqueTypes == nil {
		norm.OpaqueTypes = []string{}
	}
	if norm.OpaquePackages == nil {
		norm.OpaquePackages = []string{}
	}

	v := schema.Unify(ctx.Encode(norm))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return newConfigError(err)
	}
	return nil
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func newConfigError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Field: "config", Message: err.Error()}
	}
	first := errs[0]
	path := first.Path()
	if len(path) > 0 && path[0] == "#Config" {
		path = path[1:]
	}
	field := strings.Join(path, ".")
	if field == "" {
		field = "config"
	}
	format, args := first.Msg()
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}
