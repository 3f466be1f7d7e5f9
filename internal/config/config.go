// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// BotToken is the Telegram bot token. Required.
	BotToken string

	// Port defines the health server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the optional Postgres connection string for
	// the user store. When empty the JSON file store is used instead.
	DatabaseDSN string

	// DataFile is the path of the JSON file store.
	DataFile string

	// EnkaBase is the base URL of the inspection API.
	EnkaBase string

	// PurgeOnRelink clears the other credential shapes when a user
	// re-links with one shape. When false, shapes accumulate and are
	// all forwarded upstream.
	PurgeOnRelink bool

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BotToken, "t", "", "telegram bot token")
	flag.StringVar(&options.Port, "a", "0.0.0.0:8000", "run health server on ip:port")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.DataFile, "f", "users.json", "path to users file")
	flag.StringVar(&options.EnkaBase, "e", "https://enka.network", "inspection API base URL")
	flag.BoolVar(&options.PurgeOnRelink, "purge-on-relink", false, "drop alternate credential shapes on re-link")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		options.BotToken = token
	}

	if port := os.Getenv("PORT"); port != "" {
		options.Port = "0.0.0.0:" + port
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if file := os.Getenv("DATA_FILE"); file != "" {
		options.DataFile = file
	}

	if base := os.Getenv("ENKA_BASE"); base != "" {
		options.EnkaBase = base
	}

	if purge := os.Getenv("PURGE_ON_RELINK"); purge == "1" || purge == "true" {
		options.PurgeOnRelink = true
	}

	return options
}
