package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/models"
)

// LogSink persists log rows; *database.Store satisfies it.
type LogSink interface {
	InsertLog(ctx context.Context, l *models.Log) error
}

// RequestLogger writes one log row per request and per custom event.
// Inserts run in the background so they never delay the response.
type RequestLogger struct {
	sink        LogSink
	environment string
	pid         int
}

// NewRequestLogger returns a logger writing to sink. A nil sink disables persistence.
func NewRequestLogger(sink LogSink, environment string) *RequestLogger {
	if environment == "" {
		environment = models.EnvironmentDevelopment
	}
	return &RequestLogger{sink: sink, environment: environment, pid: os.Getpid()}
}

// Middleware captures every request once the handler chain returns
func (l *RequestLogger) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		responseTime := int(time.Since(start).Milliseconds())
		entry := l.createLogEntry(c, responseStatus(c, err), responseTime)

		go l.save(entry)

		return err
	}
}

// responseStatus is the code the client will get. A returned error is only
// written by the app ErrorHandler after the middleware chain unwinds.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var e *fiber.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fiber.StatusInternalServerError
}

// createLogEntry copies what it needs out of c; fiber reuses the context after the handler returns.
func (l *RequestLogger) createLogEntry(c *fiber.Ctx, status, responseTime int) *models.Log {
	var email *string
	if userEmail := UserEmail(c); userEmail != "" {
		email = &userEmail
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}
	ip = strings.Clone(ip)

	var userAgentPtr *string
	if userAgent := c.Get("User-Agent"); userAgent != "" {
		userAgent = strings.Clone(userAgent)
		userAgentPtr = &userAgent
	}

	var requestID *string
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		requestID = &rid
	}

	var bodyPtr *string
	method := strings.Clone(c.Method())
	if method == fiber.MethodPost || method == fiber.MethodPut || method == fiber.MethodPatch {
		if body := string(c.Body()); body != "" {
			body = filterSensitiveData(body, string(c.Request().Header.ContentType()))
			bodyPtr = &body
		}
	}

	var queryPtr *string
	if queryStr := string(c.Request().URI().QueryString()); queryStr != "" {
		queryPtr = &queryStr
	}

	pid := l.pid

	return &models.Log{
		RequestID:    requestID,
		Method:       method,
		Path:         strings.Clone(c.Path()),
		StatusCode:   status,
		ResponseTime: &responseTime,
		UserAgent:    userAgentPtr,
		IP:           ip,
		Body:         bodyPtr,
		Query:        queryPtr,
		Email:        email,
		LogLevel:     determineLogLevel(status),
		Environment:  l.environment,
		PID:          &pid,
		Timestamp:    time.Now().UTC(),
	}
}

var sensitiveFields = []string{"password", "mfaCode", "mfa_code", "code", "secret", "token"}

// omittedBody replaces bodies whose fields cannot be inspected
const omittedBody = "[non-JSON body omitted]"

// filterSensitiveData masks credential fields and truncates long bodies.
// JSON objects and url-encoded forms are filtered; any other body is dropped.
func filterSensitiveData(body, contentType string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		for _, field := range sensitiveFields {
			if _, exists := data[field]; exists {
				data[field] = "[FILTERED]"
			}
		}
		filteredJSON, _ := json.Marshal(data)
		return truncate(string(filteredJSON))
	}

	if strings.HasPrefix(strings.ToLower(contentType), fiber.MIMEApplicationForm) {
		values, err := url.ParseQuery(body)
		if err != nil {
			return omittedBody
		}
		for _, field := range sensitiveFields {
			if values.Has(field) {
				values.Set(field, "[FILTERED]")
			}
		}
		return truncate(values.Encode())
	}
	return omittedBody
}

func truncate(s string) string {
	if len(s) > 1000 {
		return s[:1000] + "...[truncated]"
	}
	return s
}

// determineLogLevel maps a status code to a log level
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return models.LogLevelSuccess
	case statusCode >= 300 && statusCode < 400:
		return models.LogLevelInfo
	case statusCode >= 400 && statusCode < 500:
		return models.LogLevelWarning
	case statusCode >= 500:
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

func (l *RequestLogger) save(entry *models.Log) {
	if l.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.sink.InsertLog(ctx, entry); err != nil {
		log.Printf("Error saving log: %v", err)
	}
}

// LogCustomEvent records an application event (signup, MFA change, ...).
func (l *RequestLogger) LogCustomEvent(level, message, userEmail string, additionalData map[string]interface{}) {
	entry := &models.Log{
		Method:      "CUSTOM",
		Path:        "/custom-event",
		StatusCode:  fiber.StatusOK,
		IP:          "127.0.0.1",
		LogLevel:    level,
		Environment: l.environment,
		Timestamp:   time.Now().UTC(),
	}

	if userEmail != "" {
		entry.Email = &userEmail
	}

	data := map[string]interface{}{"message": message}
	for k, v := range additionalData {
		data[k] = v
	}
	bodyJSON, _ := json.Marshal(data)
	body := string(bodyJSON)
	entry.Body = &body

	go l.save(entry)
}
