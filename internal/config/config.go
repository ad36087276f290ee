package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Events
		Statistics
		Greeting
		Tasks
		Logging
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Events struct {
		RetentionDays   int    // Days to keep history events (default: 365)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Statistics struct {
		RefreshSchedule string // Cron format: "0 * * * *" = hourly
		TopGenres       int    // Favourite genres kept on the dashboard (default: 3)
	}
	Greeting struct {
		Endpoint string // Empty disables the remote provider
		Model    string
		Timeout  time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Logging struct {
		Level string // debug, info, warn, error
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("events_retention_days", 365)
	v.SetDefault("events_cleanup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("stats_refresh_schedule", "0 * * * *")  // Hourly at :00
	v.SetDefault("stats_top_genres", 3)
	v.SetDefault("log_level", "info")

	// Greeting provider defaults
	v.SetDefault("greeting_endpoint", "")
	v.SetDefault("greeting_model", "gemma3:4b")
	v.SetDefault("greeting_timeout", "10s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Events: Events{
			RetentionDays:   v.GetInt("EVENTS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("EVENTS_CLEANUP_SCHEDULE"),
		},
		Statistics: Statistics{
			RefreshSchedule: v.GetString("STATS_REFRESH_SCHEDULE"),
			TopGenres:       v.GetInt("STATS_TOP_GENRES"),
		},
		Greeting: Greeting{
			Endpoint: v.GetString("GREETING_ENDPOINT"),
			Model:    v.GetString("GREETING_MODEL"),
			Timeout:  v.GetDuration("GREETING_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
