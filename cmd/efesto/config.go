package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// settings holds everything needed to reach one device. Values come from an
// optional efesto.{yaml,json,toml} config file in the working directory or
// the home directory, overridden by EFESTO_* environment variables (a .env
// file is autoloaded), overridden by command line flags.
type settings struct {
	URL      string
	Username string
	Password string
	Device   string
}

func loadSettings() (*settings, error) {
	v := viper.New()
	v.SetConfigName("efesto")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("efesto")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; environment variables or flags may
		// carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &settings{
		URL:      v.GetString("url"),
		Username: v.GetString("username"),
		Password: v.GetString("password"),
		Device:   v.GetString("device"),
	}, nil
}
