package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	// feeds are optional; if present validate each
	for _, f := range cfg.Feeds {
		if err := v.Struct(f); err != nil {
			return err
		}
	}
	if err := v.Struct(cfg.Warnings); err != nil {
		return err
	}
	Config = cfg
	return nil
}

// SelectFeed chooses a feed by name, falling back to the first one.
func SelectFeed(name string) (FeedConfig, bool) {
	if name != "" {
		for _, f := range Config.Feeds {
			if f.Name == name {
				return f, true
			}
		}
		return FeedConfig{}, false
	}
	if len(Config.Feeds) > 0 {
		return Config.Feeds[0], true
	}
	return FeedConfig{}, false
}
