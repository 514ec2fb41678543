package config

import (
	"fmt"

	"github.com/rpattn/indexjoin/internal/db"
	"github.com/spf13/viper"
)

// Config is the full server configuration: HTTP listener, the search engine
// the joins fetch from, the metadata database and the engine's caps.
type Config struct {
	ServerAddr     string
	AllowedOrigins []string
	SearchBaseURL  string
	MigrationsPath string

	Database db.Config

	DefaultFetchLimit int
	PreviewFetchLimit int
	PreviewSampleSize int
	PreviewTopKeys    int
}

// Default returns the built-in configuration used when no config file or
// environment overrides are present.
func Default() Config {
	return Config{
		ServerAddr:        ":8080",
		AllowedOrigins:    []string{"http://localhost:3000"},
		SearchBaseURL:     "http://localhost:9200",
		MigrationsPath:    "./migrations",
		Database:          db.DefaultConfig(),
		DefaultFetchLimit: 1000,
		PreviewFetchLimit: 1000,
		PreviewSampleSize: 20,
		PreviewTopKeys:    10,
	}
}

// Load reads config.yaml from configPath and applies environment overrides
// with the IDXJOIN prefix (e.g. IDXJOIN_SEARCH_URL, IDXJOIN_DATABASE_HOST).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("IDXJOIN")

	// Optional: Map nested keys to flat env vars
	v.BindEnv("server.addr")
	v.BindEnv("search.url")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.ServerAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("search.url") {
		cfg.SearchBaseURL = v.GetString("search.url")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("join.default_fetch_limit") {
		cfg.DefaultFetchLimit = v.GetInt("join.default_fetch_limit")
	}
	if v.IsSet("join.preview_fetch_limit") {
		cfg.PreviewFetchLimit = v.GetInt("join.preview_fetch_limit")
	}
	if v.IsSet("join.preview_sample_size") {
		cfg.PreviewSampleSize = v.GetInt("join.preview_sample_size")
	}
	if v.IsSet("join.preview_top_keys") {
		cfg.PreviewTopKeys = v.GetInt("join.preview_top_keys")
	}

	return cfg, nil
}
