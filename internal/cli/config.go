package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options are the settings of a conversion. Each field may come from a
// flag, a TREEJSON_* environment variable or the config file, in that order
// of precedence.
type options struct {
	Format   string `mapstructure:"format"`
	Indent   int    `mapstructure:"indent"`
	Escape   bool   `mapstructure:"escape"`
	MaxDepth int    `mapstructure:"max-depth"`
	Select   string `mapstructure:"select"`
	Output   string `mapstructure:"output"`
}

// configDir returns the config directory using XDG standard (~/.config/treejson/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadOptions merges flags with the config file at path, or with
// treejson.yaml in configDir when path is empty. A missing default config
// file is not an error.
func loadOptions(flags *pflag.FlagSet, path string) (*options, string, error) {
	v := viper.New()

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, "", err
	}

	var opts options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	if opts.Indent < 0 {
		return nil, "", fmt.Errorf("indent must not be negative (got %d)", opts.Indent)
	}
	if opts.MaxDepth < 0 {
		return nil, "", fmt.Errorf("max-depth must not be negative (got %d)", opts.MaxDepth)
	}
	return &opts, v.ConfigFileUsed(), nil
}
