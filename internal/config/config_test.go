package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, StoreDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 64, cfg.MainLoop.Buffer)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout())
	assert.False(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/inventory.db")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("MAIN_LOOP_BUFFER", "8")
	t.Setenv("TASK_WORKERS", "3")
	t.Setenv("TASK_RELEASE_AFTER", "30s")

	cfg := NewConfig()

	assert.Equal(t, "/tmp/inventory.db", cfg.Database.Path)
	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.MainLoop.Buffer)
	assert.Equal(t, 3, cfg.Tasks.Workers)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: Database{Path: "test.db", Driver: StoreDriverSQLite},
			MainLoop: MainLoop{Buffer: 1},
			Tasks:    Tasks{Workers: 1},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "memory ignores path", modify: func(c *Config) {
			c.Database.Driver = StoreDriverMemory
			c.Database.Path = ""
		}},
		{name: "sqlite needs path", modify: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "unknown driver", modify: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: true},
		{name: "tasks need sqlite", modify: func(c *Config) {
			c.Database.Driver = StoreDriverMemory
			c.Tasks.Enabled = true
		}, wantErr: true},
		{name: "tasks need workers", modify: func(c *Config) {
			c.Tasks.Enabled = true
			c.Tasks.Workers = 0
		}, wantErr: true},
		{name: "negative buffer", modify: func(c *Config) { c.MainLoop.Buffer = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
