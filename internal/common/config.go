package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Storage   StorageConfig
	Transform TransformConfig
	Worker    WorkerConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	MaxUploadBytes int64
}

// StorageConfig holds upload/result storage configuration
type StorageConfig struct {
	UploadDir string
	ResultDir string
	MaxAge    time.Duration
}

// TransformConfig holds the coordinate-transform settings shared by all jobs.
type TransformConfig struct {
	// FixedMax is the process-wide normalization maximum. Changing it changes
	// the interpretation of all future normalized coordinates; already-produced
	// results are untouched.
	FixedMax   float64
	SchemaPath string
	PlotKinds  []string
}

// WorkerConfig holds the async queue settings
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", "file:soundmap.db?_pragma=busy_timeout(5000)"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			ResultDir: getEnv("RESULT_DIR", "./results"),
			MaxAge:    getEnvAsDuration("MAX_AGE", 7*24*time.Hour),
		},
		Transform: TransformConfig{
			FixedMax:   getEnvAsFloat64("FIXED_MAX", 7.0),
			SchemaPath: getEnv("TABLE_SCHEMA_PATH", ""),
			PlotKinds:  splitList(getEnv("PLOTS", "scatter,profile")),
		},
		Worker: WorkerConfig{
			Workers:        getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 3*time.Minute),
		},
	}
}

// Validate validates the loaded configuration. A non-positive FIXED_MAX would
// make every normalization undefined, so it is rejected here, not per job.
func (c *Config) Validate() error {
	if c.Transform.FixedMax <= 0 {
		return NewAppError("CONFIG_ERROR",
			fmt.Sprintf("FIXED_MAX must be positive, got %v", c.Transform.FixedMax),
			ErrConfiguration)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrConfiguration)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrConfiguration)
	}
	if c.Storage.MaxAge <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_AGE must be positive", ErrConfiguration)
	}
	if len(c.Transform.PlotKinds) == 0 {
		return NewAppError("CONFIG_ERROR", "PLOTS must name at least one plot kind", ErrConfiguration)
	}
	return nil
}

// EnsureDirs creates the upload and result directories if absent.
func (c *Config) EnsureDirs() error {
	for _, d := range []string{c.Storage.UploadDir, c.Storage.ResultDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return NewAppError("CONFIG_ERROR", "creating directory "+d, err)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
