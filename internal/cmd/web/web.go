// Package web parses web command configuration and launches the server.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"time"

	entrypoint "github.com/louisbranch/schoolfinder/internal/platform/cmd"
	"github.com/louisbranch/schoolfinder/internal/services/web"
)

// Config holds the web command configuration. Environment variables carry
// the SCHOOLFINDER_ prefix.
type Config struct {
	HTTPAddr          string        `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	LookupURL         string        `env:"LOOKUP_URL" envDefault:"http://localhost:5000/find-schools"`
	LookupTimeout     time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"10s"`
	DefaultNumSchools int           `env:"DEFAULT_NUM_SCHOOLS" envDefault:"3"`
	MaxNumSchools     int           `env:"MAX_NUM_SCHOOLS" envDefault:"50"`
	BreakerFailures   uint          `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown   time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s"`
	HTMXScriptURL     string        `env:"HTMX_SCRIPT_URL"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.LookupURL, "lookup-url", cfg.LookupURL, "School lookup endpoint URL")
	fs.DurationVar(&cfg.LookupTimeout, "lookup-timeout", cfg.LookupTimeout, "Timeout for one lookup call")
	fs.IntVar(&cfg.DefaultNumSchools, "default-num-schools", cfg.DefaultNumSchools, "Number of schools pre-filled in the form")
	fs.IntVar(&cfg.MaxNumSchools, "max-num-schools", cfg.MaxNumSchools, "Maximum offered by the number of schools input")
	fs.UintVar(&cfg.BreakerFailures, "breaker-failures", cfg.BreakerFailures, "Consecutive lookup failures that open the circuit breaker (0 disables)")
	fs.DurationVar(&cfg.BreakerCooldown, "breaker-cooldown", cfg.BreakerCooldown, "How long an open circuit breaker rejects lookups")
	fs.StringVar(&cfg.HTMXScriptURL, "htmx-script-url", cfg.HTMXScriptURL, "Override for the htmx script source")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.MaxNumSchools <= 0 {
		return Config{}, fmt.Errorf("max number of schools must be positive, got %d", cfg.MaxNumSchools)
	}
	if cfg.DefaultNumSchools <= 0 || cfg.DefaultNumSchools > cfg.MaxNumSchools {
		return Config{}, fmt.Errorf("default number of schools must be between 1 and %d, got %d", cfg.MaxNumSchools, cfg.DefaultNumSchools)
	}
	if cfg.BreakerFailures > math.MaxUint32 {
		return Config{}, fmt.Errorf("breaker failures must be at most %d, got %d", uint64(math.MaxUint32), cfg.BreakerFailures)
	}
	return cfg, nil
}

// Run starts the school finder web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:          cfg.HTTPAddr,
			LookupURL:         cfg.LookupURL,
			LookupTimeout:     cfg.LookupTimeout,
			DefaultNumSchools: cfg.DefaultNumSchools,
			MaxNumSchools:     cfg.MaxNumSchools,
			BreakerFailures:   uint32(cfg.BreakerFailures),
			BreakerCooldown:   cfg.BreakerCooldown,
			HTMXScriptURL:     cfg.HTMXScriptURL,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
