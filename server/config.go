//go:build !js
// +build !js

package main

import (
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig is loaded from defaults, an optional config file and
// SPAWNFIELD_* environment variables.
type ServerConfig struct {
	Port   int               `mapstructure:"port"`
	Static string            `mapstructure:"static"` // Directory served as the site root
	Sets   map[string]string `mapstructure:"sets"`   // Manifest set name to asset directory
	// Sets whose manifests may carry # comments
	CommentSets []string `mapstructure:"comment_sets"`
}

var defaultSets = map[string]string{
	"welcome":  "assets/visual/welcome/",
	"movie":    "assets/visual/welcome/movie/",
	"directed": "assets/visual/biebl/",
}

// loadConfig reads path when set. Flags passed on the command line win over
// every other source.
func loadConfig(path string) (ServerConfig, error) {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("static", ".")
	v.SetDefault("sets", defaultSets)
	v.SetDefault("comment_sets", []string{"directed"})

	v.SetEnvPrefix("spawnfield")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ServerConfig{}, err
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c ServerConfig) skipComments(set string) bool {
	for _, s := range c.CommentSets {
		if s == set {
			return true
		}
	}
	return false
}
