// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks that configuration values are present and within bounds.
// All problems are reported together.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateSession(),
		c.validateUpload(),
		c.validateSecurity(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.QueueSize < 1 {
		return fmt.Errorf("SESSION_QUEUE_SIZE must be at least 1")
	}
	if c.Session.SendBuffer < 1 {
		return fmt.Errorf("WS_SEND_BUFFER must be at least 1")
	}
	if c.Session.RateLimit < 0 {
		return fmt.Errorf("WS_RATE_LIMIT must not be negative")
	}
	if c.Session.RateLimit > 0 && c.Session.RateBurst < 1 {
		return fmt.Errorf("WS_RATE_BURST must be at least 1 when WS_RATE_LIMIT is set")
	}
	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	if strings.TrimSpace(c.Upload.FormField) == "" {
		return fmt.Errorf("UPLOAD_FORM_FIELD must not be empty")
	}
	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("UPLOAD_ALLOWED_TYPES must list at least one MIME type")
	}
	if c.Upload.BreakerFailureRate <= 0 || c.Upload.BreakerFailureRate > 1 {
		return fmt.Errorf("UPLOAD_BREAKER_FAILURE_RATE must be in (0, 1]")
	}

	switch c.Upload.Backend {
	case BackendDisk:
		if c.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the disk backend")
		}
	case BackendS3:
		if c.Upload.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND must be one of: %s, %s", BackendDisk, BackendS3)
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
