package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceProject     ConfigSource = "project"     // shapegen.toml
	SourceEnvironment ConfigSource = "environment" // SHAPEGEN_* env vars
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFile string        `json:"config_file"` // Path to active config file
	Settings   []SettingInfo `json:"settings"`    // All settings with sources
}

// GetConfigIntrospection returns every effective setting of the global
// configuration with the source it came from.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	v, err := GetViper()
	if err != nil {
		return nil, err
	}
	return Introspect(v), nil
}

// Introspect reports the settings of v, sorted by key. Environment
// variables take precedence over the config file, which takes precedence
// over defaults.
func Introspect(v *viper.Viper) *ConfigIntrospection {
	configFile := v.ConfigFileUsed()
	introspection := &ConfigIntrospection{
		ConfigFile: configFile,
		Settings:   make([]SettingInfo, 0),
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		info := SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     SourceDefault,
			SourcePath: "built-in default",
		}

		if configFile != "" && v.InConfig(key) {
			info.Source = SourceProject
			info.SourcePath = configFile
		}

		envKey := EnvVarName(key)
		if _, ok := os.LookupEnv(envKey); ok {
			info.Source = SourceEnvironment
			info.SourcePath = envKey
		}

		introspection.Settings = append(introspection.Settings, info)
	}

	return introspection
}

// EnvVarName returns the environment variable overriding key,
// e.g. "generate.language" -> "SHAPEGEN_GENERATE_LANGUAGE".
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
