// Package am ("as mentioned") holds shapegen's configuration: built-in
// defaults, a project shapegen.toml found by walking up from the working
// directory, and SHAPEGEN_* environment variables, in that precedence.
// CLI flags are applied on top by the command layer.
package am

// Config represents the shapegen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" json:"generate" yaml:"generate"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Source   SourceConfig   `mapstructure:"source" toml:"source" json:"source" yaml:"source"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// GenerateConfig configures inference and the target language
type GenerateConfig struct {
	// Language is python, typescript or go
	Language     string `mapstructure:"language" toml:"language" json:"language" yaml:"language"`
	// RootName names the root record; empty = derived from the input file name
	RootName     string `mapstructure:"root_name" toml:"root_name" json:"root_name" yaml:"root_name"`
	// FallbackName is used when a key yields no type name
	FallbackName string `mapstructure:"fallback_name" toml:"fallback_name" json:"fallback_name" yaml:"fallback_name"`
	MaxDepth     int    `mapstructure:"max_depth" toml:"max_depth" json:"max_depth" yaml:"max_depth"`
	// Format is auto, json, yaml or toml
	Format       string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`
}

// OutputConfig configures where the artifact is written
type OutputConfig struct {
	// Path defaults to generated_class.<ext>; "-" writes to stdout
	Path      string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
	GoPackage string `mapstructure:"go_package" toml:"go_package" json:"go_package" yaml:"go_package"`
}

// SourceConfig configures the input document
type SourceConfig struct {
	// DefaultPath is used when no input argument is given
	DefaultPath string `mapstructure:"default_path" toml:"default_path" json:"default_path" yaml:"default_path"`
}

// WatchConfig configures `shapegen watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// LogConfig configures logger output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// ConfigFileName is the project configuration file searched for upwards
// from the working directory.
const ConfigFileName = "shapegen.toml"

// EnvPrefix prefixes environment overrides, e.g. SHAPEGEN_GENERATE_LANGUAGE.
const EnvPrefix = "SHAPEGEN"

// Default values
const (
	DefaultLanguage     = "python"
	DefaultFallbackName = "GeneratedClass"
	DefaultMaxDepth     = 512
	DefaultFormat       = "auto"
	DefaultGoPackage    = "models"
	DefaultSourcePath   = "default.json"
	DefaultDebounceMS   = 300
)
