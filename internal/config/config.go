// Package config loads gqlsql settings from .gqlsql.yaml, GQLSQL_* environment
// variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem configuration, schemas and .env files are read from.
var AppFs = afero.NewOsFs()

// FileName is the base name of the config file.
const FileName = ".gqlsql"

// Config represents application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Schema   SchemaConfig   `mapstructure:"schema"`
	Compiler CompilerConfig `mapstructure:"compiler"`
	Server   ServerConfig   `mapstructure:"server"`
	Debug    bool           `mapstructure:"debug"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdleTime    int    `mapstructure:"max_idle_time"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	// Serial funnels every statement through one connection.
	Serial bool `mapstructure:"serial"`
}

// SchemaConfig locates the table metadata.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// CompilerConfig tunes SQL generation.
type CompilerConfig struct {
	// Dialect defaults to the database provider.
	Dialect       string `mapstructure:"dialect"`
	Minify        bool   `mapstructure:"minify"`
	StrictFilters bool   `mapstructure:"strict_filters"`
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	BlobsPath   string `mapstructure:"blobs_path"`
	Concurrency int    `mapstructure:"concurrency"`
	// DocumentCache is the number of validated query documents kept between
	// requests. Zero disables the cache.
	DocumentCache int `mapstructure:"document_cache"`
}

// DialectName returns the configured dialect, falling back to the provider.
func (c *Config) DialectName() string {
	if c.Compiler.Dialect != "" {
		return c.Compiler.Dialect
	}
	return c.Database.Provider
}

var defaults = map[string]interface{}{
	"database.provider":        "firebird",
	"database.url":             "",
	"database.max_connections": 10,
	"database.max_idle_time":   300,
	"database.connect_timeout": 10,
	"database.serial":          false,
	"schema.path":              "schema.gqlsql",
	"compiler.dialect":         "",
	"compiler.minify":          false,
	"compiler.strict_filters":  false,
	"server.addr":              ":8080",
	"server.blobs_path":        "/blobs",
	"server.concurrency":       4,
	"server.document_cache":    256,
	"debug":                    false,
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GQLSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads the configuration. An explicit path must exist; otherwise
// .gqlsql.yaml is looked up in the working directory, the home directory and
// ~/.config/gqlsql, and a missing file is not an error.
func Load(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "gqlsql"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	v := newViper()
	v.Set("database.provider", cfg.Database.Provider)
	v.Set("database.url", cfg.Database.URL)
	v.Set("database.max_connections", cfg.Database.MaxConnections)
	v.Set("database.max_idle_time", cfg.Database.MaxIdleTime)
	v.Set("database.connect_timeout", cfg.Database.ConnectTimeout)
	v.Set("database.serial", cfg.Database.Serial)
	v.Set("schema.path", cfg.Schema.Path)
	v.Set("compiler.dialect", cfg.Compiler.Dialect)
	v.Set("compiler.minify", cfg.Compiler.Minify)
	v.Set("compiler.strict_filters", cfg.Compiler.StrictFilters)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.blobs_path", cfg.Server.BlobsPath)
	v.Set("server.concurrency", cfg.Server.Concurrency)
	v.Set("server.document_cache", cfg.Server.DocumentCache)
	v.Set("debug", cfg.Debug)

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}

// loadDotEnv applies .env and then .env.local. Variables already set in the
// process environment win over .env; .env.local overrides both.
func loadDotEnv() {
	applyEnvFile(".env", false)
	applyEnvFile(".env.local", true)
}

func applyEnvFile(name string, override bool) {
	f, err := AppFs.Open(name)
	if err != nil {
		return
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return
	}
	for key, value := range values {
		if _, set := os.LookupEnv(key); set && !override {
			continue
		}
		os.Setenv(key, value)
	}
}
