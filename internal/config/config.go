// Package config reads server settings from flags, falling back to
// STOREKEEPER_* environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
)

type Config struct {
	GRPCAddr       string
	HTTPAddr       string
	Store          string
	DSN            string
	RedisAddr      string
	JournalQueue   int
	IdempotencyTTL time.Duration
	LogDev         bool
}

func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (Config, error) {
	env := func(key, def string) string {
		if v, ok := lookup("STOREKEEPER_" + key); ok {
			return v
		}
		return def
	}

	queueDefault, err := strconv.Atoi(env("JOURNAL_QUEUE", "1024"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREKEEPER_JOURNAL_QUEUE: %w", err)
	}
	ttlDefault, err := time.ParseDuration(env("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREKEEPER_IDEMPOTENCY_TTL: %w", err)
	}
	devDefault, err := strconv.ParseBool(env("LOG_DEV", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREKEEPER_LOG_DEV: %w", err)
	}

	var cfg Config
	fs := flag.NewFlagSet("storekeeper", flag.ContinueOnError)
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", env("GRPC_ADDR", ":50051"), "gRPC listen address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", env("HTTP_ADDR", ":8080"), "HTTP listen address (empty disables HTTP)")
	fs.StringVar(&cfg.Store, "store", env("STORE", StoreMemory), "snapshot store: memory, mysql or sqlite")
	fs.StringVar(&cfg.DSN, "dsn", env("DSN", ""), "MySQL DSN or SQLite file path")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", env("REDIS_ADDR", ""), "Redis address for request de-duplication and stock mirror (empty disables Redis)")
	fs.IntVar(&cfg.JournalQueue, "journal-queue", queueDefault, "pending changes before the journal logs a backlog warning")
	fs.DurationVar(&cfg.IdempotencyTTL, "idempotency-ttl", ttlDefault, "how long a sale request id is remembered")
	fs.BoolVar(&cfg.LogDev, "log-dev", devDefault, "human-readable development logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreMySQL, StoreSQLite:
		if c.DSN == "" {
			return fmt.Errorf("store %q requires -dsn", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.GRPCAddr == "" {
		return errors.New("grpc address must not be empty")
	}
	if c.JournalQueue <= 0 {
		return fmt.Errorf("journal queue must be positive, got %d", c.JournalQueue)
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency ttl must be positive, got %s", c.IdempotencyTTL)
	}
	return nil
}
