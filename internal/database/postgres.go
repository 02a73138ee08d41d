package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// buildPostgresDSN produces a keyword/value DSN with deterministic option
// ordering so the same config always yields the same string.
func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	kv := map[string]string{
		"host":    cfg.Host,
		"port":    fmt.Sprintf("%d", cfg.Port),
		"user":    cfg.User,
		"dbname":  cfg.Name,
		"sslmode": "disable",
	}
	if cfg.Host == "" {
		kv["host"] = "localhost"
	}
	if cfg.Port == 0 {
		kv["port"] = "5432"
	}
	if cfg.Password != "" {
		kv["password"] = cfg.Password
	}
	for key, value := range cfg.Options {
		kv[key] = value
	}

	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+kv[key])
	}
	return strings.Join(parts, " "), nil
}
