// Package config reads the server settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	ParamsDir     string
	ParamsXLSX    string // optional workbook of reference fits
	ReferenceFit  string
	DatabaseURL   string // empty disables the Postgres parameter source
	SignalDataDir string

	RateLimitRPS   float64 // <= 0 disables rate limiting
	RateLimitBurst int

	MaxBins int // largest frequency grid one request may ask for

	TLSCert string
	TLSKey  string

	ShutdownTimeout time.Duration
}

// TLS reports whether both a certificate and a key are configured.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// Load reads the .env files (default ".env"), keeping variables that are
// already set, then the environment. A missing file is not an error.
func Load(getenv func(string) string, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(getenv)
}

// FromEnv builds a Config from getenv, which is usually os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	str := func(name, def string) string {
		if v := getenv(name); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Addr:          str("ADDR", ":8000"),
		ParamsDir:     str("PARAMS_DIR", "middle_ear/parameters"),
		ParamsXLSX:    getenv("PARAMS_XLSX"),
		ReferenceFit:  str("REFERENCE_FIT", "Example4DOF"),
		DatabaseURL:   getenv("DATABASE_URL"),
		SignalDataDir: str("SIGNAL_DATA_DIR", "app/database"),
		TLSCert:       getenv("TLS_CERT"),
		TLSKey:        getenv("TLS_KEY"),
	}

	var err error
	if c.RateLimitRPS, err = strconv.ParseFloat(str("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if c.RateLimitBurst, err = strconv.Atoi(str("RATE_LIMIT_BURST", "20")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	if c.MaxBins, err = strconv.Atoi(str("MAX_BINS", "4096")); err != nil {
		return Config{}, fmt.Errorf("MAX_BINS: %w", err)
	}
	if c.MaxBins < 2 {
		return Config{}, fmt.Errorf("MAX_BINS: %d is below the 2 bins a grid needs", c.MaxBins)
	}
	if c.ShutdownTimeout, err = time.ParseDuration(str("SHUTDOWN_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}
