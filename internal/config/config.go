package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Global
		Database
		Log
		MainLoop
		Tasks
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path   string
		Driver string // "sqlite" or "memory"
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
	MainLoop struct {
		Buffer int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("store_driver", StoreDriverSQLite)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("main_loop_buffer", 64)

	// Task queue defaults
	v.SetDefault("tasks_enabled", false)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:   v.GetString("DATABASE_PATH"),
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		MainLoop: MainLoop{
			Buffer: v.GetInt("MAIN_LOOP_BUFFER"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StoreDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH must be set for the %s driver", StoreDriverSQLite)
		}
	case StoreDriverMemory:
		if c.Tasks.Enabled {
			return fmt.Errorf("TASKS_ENABLED requires the %s driver", StoreDriverSQLite)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}

	if c.Tasks.Enabled && c.Tasks.Workers < 1 {
		return fmt.Errorf("TASK_WORKERS must be at least 1, got %d", c.Tasks.Workers)
	}
	if c.MainLoop.Buffer < 0 {
		return fmt.Errorf("MAIN_LOOP_BUFFER must not be negative, got %d", c.MainLoop.Buffer)
	}
	return nil
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Global.ShutdownTimeoutInSeconds) * time.Second
}
