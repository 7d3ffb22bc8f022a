package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flarebyte/baldrick-casetrail/internal/paths"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerPort   = 53071
	DefaultPostgresPort = 5432
	DefaultDBName       = "casetrail"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RoleCredentials struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type PostgresConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DBName  string `yaml:"dbname"`
	SSLMode string `yaml:"sslmode"`
	// App is the role used for regular reads/writes; Admin is used only by
	// `db init` to create the database and the app role.
	App   RoleCredentials `yaml:"app"`
	Admin RoleCredentials `yaml:"admin"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Log      LogConfig      `yaml:"log"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: DefaultServerPort},
		Postgres: PostgresConfig{
			Host:    "127.0.0.1",
			Port:    DefaultPostgresPort,
			DBName:  DefaultDBName,
			SSLMode: "disable",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path returns the expected path to the config.yaml file.
func Path() string {
	return filepath.Join(paths.Home(), "config.yaml")
}

// Load reads configuration from config.yaml if it exists.
// Missing file is not an error; defaults are returned.
func Load() (Config, error) {
	cfg := defaults()
	p := Path()
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Merge: override defaults with provided values if non-zero
	if fileCfg.Server.Port != 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Postgres.Host != "" {
		cfg.Postgres.Host = fileCfg.Postgres.Host
	}
	if fileCfg.Postgres.Port != 0 {
		cfg.Postgres.Port = fileCfg.Postgres.Port
	}
	if fileCfg.Postgres.DBName != "" {
		cfg.Postgres.DBName = fileCfg.Postgres.DBName
	}
	if fileCfg.Postgres.SSLMode != "" {
		cfg.Postgres.SSLMode = fileCfg.Postgres.SSLMode
	}
	if fileCfg.Postgres.App.User != "" {
		cfg.Postgres.App = fileCfg.Postgres.App
	}
	if fileCfg.Postgres.Admin.User != "" {
		cfg.Postgres.Admin = fileCfg.Postgres.Admin
	}
	if fileCfg.Log.Level != "" {
		cfg.Log.Level = fileCfg.Log.Level
	}
	if fileCfg.Log.Pretty {
		cfg.Log.Pretty = true
	}
	return cfg, nil
}

// Save writes the config to config.yaml, creating the home directory if needed.
func Save(cfg Config) error {
	if _, err := paths.EnsureHome(); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(Path(), b, 0o600)
}

// Validate reports configuration problems that would prevent the app role
// from connecting.
func Validate(cfg Config) []string {
	var problems []string
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", cfg.Server.Port))
	}
	if cfg.Postgres.Host == "" {
		problems = append(problems, "postgres.host is empty")
	}
	if cfg.Postgres.Port <= 0 || cfg.Postgres.Port > 65535 {
		problems = append(problems, fmt.Sprintf("postgres.port out of range: %d", cfg.Postgres.Port))
	}
	if cfg.Postgres.DBName == "" {
		problems = append(problems, "postgres.dbname is empty")
	}
	if cfg.Postgres.App.User == "" {
		problems = append(problems, "postgres.app.user is empty")
	}
	return problems
}
