// Package config loads clauseql settings from config files, .env files and
// the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/clauseql/query/sqlgen"
)

// AppFs is the filesystem config and query files are read from.
var AppFs = afero.NewOsFs()

// FileName is the name of the config file searched for.
const FileName = ".clauseql.yaml"

// Config holds the application configuration
type Config struct {
	Dialect          string
	Parameterize     bool
	Placeholder      string
	Pretty           bool
	QuoteIdentifiers bool
	KeywordCase      string
	TablePrefix      string
	Debug            bool
	CacheSize        int
	MinVersion       string
	DatabaseURL      string
}

// LoadConfig loads configuration from various sources. An explicit
// configFile must exist; otherwise .clauseql.yaml is searched for in the
// working directory, $HOME and $HOME/.config/clauseql.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".clauseql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "clauseql"))
	}

	v.SetEnvPrefix("CLAUSEQL")
	v.AutomaticEnv()

	v.SetDefault("dialect", string(sqlgen.Postgres))
	v.SetDefault("parameterize", true)
	v.SetDefault("placeholder", "auto")
	v.SetDefault("pretty", false)
	v.SetDefault("quote_identifiers", false)
	v.SetDefault("keyword_case", "upper")
	v.SetDefault("table_prefix", "")
	v.SetDefault("debug", false)
	v.SetDefault("cache_size", 128)
	v.SetDefault("min_version", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env.local has the higher priority.
	if err := loadEnvFile(".env", false); err != nil {
		return nil, err
	}
	if err := loadEnvFile(".env.local", true); err != nil {
		return nil, err
	}

	return &Config{
		Dialect:          v.GetString("dialect"),
		Parameterize:     v.GetBool("parameterize"),
		Placeholder:      v.GetString("placeholder"),
		Pretty:           v.GetBool("pretty"),
		QuoteIdentifiers: v.GetBool("quote_identifiers"),
		KeywordCase:      v.GetString("keyword_case"),
		TablePrefix:      v.GetString("table_prefix"),
		Debug:            v.GetBool("debug"),
		CacheSize:        v.GetInt("cache_size"),
		MinVersion:       v.GetString("min_version"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
	}, nil
}

// loadEnvFile exports the variables of a dotenv file. Without override,
// variables that already have a value are kept.
func loadEnvFile(name string, override bool) error {
	data, err := afero.ReadFile(AppFs, name)
	if err != nil {
		// Missing env files are fine.
		return nil
	}
	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range vars {
		if !override && os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// Profile converts the configuration into a generator profile.
func (c *Config) Profile() (sqlgen.Profile, error) {
	dialect, err := sqlgen.ParseDialect(c.Dialect)
	if err != nil {
		return sqlgen.Profile{}, err
	}
	placeholder, err := sqlgen.ParsePlaceholderStyle(c.Placeholder)
	if err != nil {
		return sqlgen.Profile{}, err
	}
	kwCase, err := sqlgen.ParseKeywordCase(c.KeywordCase)
	if err != nil {
		return sqlgen.Profile{}, err
	}
	return sqlgen.Profile{
		Dialect:          dialect,
		Inline:           !c.Parameterize,
		Placeholder:      placeholder,
		Pretty:           c.Pretty,
		QuoteIdentifiers: c.QuoteIdentifiers,
		KeywordCase:      kwCase,
		TablePrefix:      c.TablePrefix,
	}, nil
}

// SaveConfig writes cfg as YAML to path. The database URL is never saved.
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	v.Set("dialect", cfg.Dialect)
	v.Set("parameterize", cfg.Parameterize)
	v.Set("placeholder", cfg.Placeholder)
	v.Set("pretty", cfg.Pretty)
	v.Set("quote_identifiers", cfg.QuoteIdentifiers)
	v.Set("keyword_case", cfg.KeywordCase)
	v.Set("table_prefix", cfg.TablePrefix)
	v.Set("debug", cfg.Debug)
	v.Set("cache_size", cfg.CacheSize)
	if cfg.MinVersion != "" {
		v.Set("min_version", cfg.MinVersion)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}

// DefaultPath returns the per-user config file path.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clauseql", FileName), nil
}
