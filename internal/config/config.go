// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Session  SessionConfig  `koanf:"session"`
	Upload   UploadConfig   `koanf:"upload"`
	Presence PresenceConfig `koanf:"presence"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	StaticDir       string        `koanf:"static_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig controls group membership and fan-out behavior.
type SessionConfig struct {
	PageChangeEcho     bool `koanf:"page_change_echo"`
	RequireMembership  bool `koanf:"require_membership"`
	AnnounceJoins      bool `koanf:"announce_joins"`
	AnnounceDepartures bool `koanf:"announce_departures"`
	QueueSize          int  `koanf:"queue_size"`

	// Per-connection websocket limits
	SendBuffer int     `koanf:"send_buffer"`
	RateLimit  float64 `koanf:"rate_limit"` // frames per second, 0 = unlimited
	RateBurst  int     `koanf:"rate_burst"`
}

// Upload backends
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// UploadConfig holds document intake settings.
type UploadConfig struct {
	Backend      string   `koanf:"backend"`
	Dir          string   `koanf:"dir"`
	MaxSize      int64    `koanf:"max_size"`
	FormField    string   `koanf:"form_field"`
	AllowedTypes []string `koanf:"allowed_types"`
	S3           S3Config `koanf:"s3"`

	// Circuit breaker around the backend
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRate float64       `koanf:"breaker_failure_rate"`
}

// S3Config holds S3 backend settings. Credentials come from the default AWS chain.
type S3Config struct {
	Bucket       string `koanf:"bucket"`
	Region       string `koanf:"region"`
	Prefix       string `koanf:"prefix"`
	Endpoint     string `koanf:"endpoint"`
	UsePathStyle bool   `koanf:"use_path_style"`
	PublicURL    string `koanf:"public_url"` // base for returned refs; defaults to the object path
}

// PresenceConfig controls the in-process lifecycle event bus.
type PresenceConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// SecurityConfig holds CORS and HTTP rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
