package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	DefaultAffiliateTag       string        `koanf:"default_affiliate_tag"`
	Environment               string        `koanf:"environment"`
	FrontendURL               string        `koanf:"frontend_url"`
	GoogleBooksBaseURL        string        `koanf:"google_books_base_url"`
	Hostname                  string        `koanf:"hostname"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	MetadataCacheTTL          time.Duration `koanf:"metadata_cache_ttl"`
	OpenBDBaseURL             string        `koanf:"openbd_base_url"`
	RevalidateSecret          string        `koanf:"revalidate_secret"`
	RevalidateURL             string        `koanf:"revalidate_url"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	WorkerProcesses           int           `koanf:"worker_processes"`
}

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "./config.yaml"
)

// required lists the koanf keys that must be set through the config file or
// the environment for the process to come up at all.
var required = []string{
	"database_file_path",
	"jwt_secret",
}

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaults(hostname)

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	// Environment variables override the config file. DATABASE_FILE_PATH
	// maps to database_file_path and so on.
	err = k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, key := range required {
		if isZero(cfg, key) {
			return nil, errors.Errorf("missing required config: set %s in the config file or the %s environment variable", key, strcase.ToScreamingSnake(key))
		}
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests. It never touches
// the filesystem or the environment.
func NewForTest() *Config {
	cfg := defaults("test")
	cfg.Environment = "test"
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func defaults(hostname string) *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		DefaultAffiliateTag:       "sasaki-22",
		Environment:               "development",
		FrontendURL:               "http://localhost:3000",
		GoogleBooksBaseURL:        "https://www.googleapis.com/books/v1",
		Hostname:                  hostname,
		MetadataCacheTTL:          24 * time.Hour,
		OpenBDBaseURL:             "https://api.openbd.jp/v1",
		ServerHost:                "0.0.0.0",
		ServerPort:                3689,
		WorkerProcesses:           2,
	}
}

func isZero(cfg *Config, key string) bool {
	switch key {
	case "database_file_path":
		return cfg.DatabaseFilePath == ""
	case "jwt_secret":
		return cfg.JWTSecret == ""
	default:
		panic(fmt.Sprintf("unknown required config key %q", key))
	}
}
