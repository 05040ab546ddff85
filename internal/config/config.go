// Package config loads the SCOUTLENS_* environment group. The database path
// is the one hard requirement; everything else has serviceable defaults.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	DBPath         string
	Addr           string
	SessionTTL     time.Duration
	CookieSecure   bool
	TrustedProxies []string
}

// Load reads configuration from the environment. A missing SCOUTLENS_DB is a
// startup error so the operator sees one clear message instead of a failed
// query later.
func Load() (Config, error) {
	dbPath := strings.TrimSpace(os.Getenv("SCOUTLENS_DB"))
	if dbPath == "" {
		return Config{}, errors.New("SCOUTLENS_DB is not set; point it at the sqlite database file")
	}

	cfg := Config{
		DBPath:       dbPath,
		Addr:         env("SCOUTLENS_ADDR", ":8080"),
		SessionTTL:   30 * 24 * time.Hour,
		CookieSecure: true,
	}

	if v := os.Getenv("SCOUTLENS_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := strings.ToLower(os.Getenv("SCOUTLENS_COOKIE_SECURE")); v != "" {
		cfg.CookieSecure = v == "1" || v == "true" || v == "yes"
	}
	for _, p := range strings.Split(env("SCOUTLENS_TRUSTED_PROXIES", "127.0.0.1,::1"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}
	return cfg, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
