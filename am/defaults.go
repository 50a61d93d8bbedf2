package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.language", DefaultLanguage)
	v.SetDefault("generate.root_name", "")
	v.SetDefault("generate.fallback_name", DefaultFallbackName)
	v.SetDefault("generate.max_depth", DefaultMaxDepth)
	v.SetDefault("generate.format", DefaultFormat)

	v.SetDefault("output.path", "")
	v.SetDefault("output.go_package", DefaultGoPackage)

	v.SetDefault("source.default_path", DefaultSourcePath)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)

	v.SetDefault("log.json", false)
}

// Default returns the configuration produced by SetDefaults alone.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			Language:     DefaultLanguage,
			FallbackName: DefaultFallbackName,
			MaxDepth:     DefaultMaxDepth,
			Format:       DefaultFormat,
		},
		Output: OutputConfig{GoPackage: DefaultGoPackage},
		Source: SourceConfig{DefaultPath: DefaultSourcePath},
		Watch:  WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}
