package models

import (
	"time"
)

// Log is one persisted request or custom event
type Log struct {
	ID           int       `json:"id" db:"id"`
	RequestID    *string   `json:"requestId" db:"request_id"`
	Method       string    `json:"method" db:"method"`
	Path         string    `json:"path" db:"path"`
	StatusCode   int       `json:"statusCode" db:"status_code"`
	ResponseTime *int      `json:"responseTime" db:"response_time"`
	UserAgent    *string   `json:"userAgent" db:"user_agent"`
	IP           string    `json:"ip" db:"ip"`
	Body         *string   `json:"body" db:"body"`
	Query        *string   `json:"query" db:"query"`
	Email        *string   `json:"email" db:"email"`
	LogLevel     string    `json:"logLevel" db:"log_level"`
	Environment  string    `json:"environment" db:"environment"`
	PID          *int      `json:"pid" db:"pid"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// LogFilter narrows a log listing; zero values are ignored. Email matches
// a substring, Owner matches exactly.
type LogFilter struct {
	LogLevel string
	Method   string
	Email    string
	Owner    string
	Since    time.Time
	Limit    int
}

// Log levels
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelDebug   = "debug"
	LogLevelSuccess = "success"
)

// Environments
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)
