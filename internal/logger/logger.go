package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// Logger levels
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Context keys
type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	CorrelationIDKey contextKey = "correlation_id"
	ComponentKey     contextKey = "component"
	StageKey         contextKey = "stage"
)

// Global logger instance
var Logger *slog.Logger

// Service configuration
var (
	ServiceName = "worklist-extractor"
	Environment = "development"
)

// Config for logger
type Config struct {
	Level       slog.Level
	Format      string // "json" or "text"
	Output      string // "stdout", "stderr", or file path
	TimeFormat  string
	ServiceName string
	Environment string
}

// DefaultConfig is used when the logger is touched before Init
var DefaultConfig = Config{
	Level:       LevelInfo,
	Format:      "json",
	Output:      "stdout",
	TimeFormat:  time.RFC3339,
	ServiceName: "worklist-extractor",
	Environment: "development",
}

// StructuredLogEntry is the JSON shape written for every record
type StructuredLogEntry struct {
	Timestamp   string                 `json:"timestamp"`
	Level       string                 `json:"level"`
	Message     string                 `json:"message"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment"`
	Component   string                 `json:"component,omitempty"`
	Stage       string                 `json:"stage,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Request     map[string]interface{} `json:"request,omitempty"`
	Response    map[string]interface{} `json:"response,omitempty"`
	Error       map[string]interface{} `json:"error,omitempty"`
}

// Init initializes the global logger
func Init(config Config) error {
	var output io.Writer

	ServiceName = config.ServiceName
	Environment = config.Environment

	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", config.Output, err)
		}
		output = f
	}

	timeFormat := config.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	var handler slog.Handler
	switch config.Format {
	case "json", "":
		handler = NewStructuredJSONHandler(output, config.Level, config.ServiceName, config.Environment)
	default:
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: config.Level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("timestamp", a.Value.Time().Format(timeFormat))
				}
				return a
			},
		})
	}

	Logger = slog.New(handler)
	return nil
}

// StructuredJSONHandler implements a slog.Handler writing StructuredLogEntry lines
type StructuredJSONHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	level       slog.Leveler
	serviceName string
	environment string
	attrs       []slog.Attr
}

// NewStructuredJSONHandler creates a handler writing to w
func NewStructuredJSONHandler(w io.Writer, level slog.Leveler, serviceName, environment string) *StructuredJSONHandler {
	return &StructuredJSONHandler{
		mu:          &sync.Mutex{},
		writer:      w,
		level:       level,
		serviceName: serviceName,
		environment: environment,
	}
}

func (h *StructuredJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *StructuredJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is a no-op; the entry layout already groups by prefix
func (h *StructuredJSONHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *StructuredJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := StructuredLogEntry{
		Timestamp:   r.Time.UTC().Format(time.RFC3339),
		Level:       r.Level.String(),
		Message:     r.Message,
		Service:     h.serviceName,
		Environment: h.environment,
	}

	if ctx != nil {
		if requestID := ctx.Value(RequestIDKey); requestID != nil {
			setSection(&entry.Request, "request_id", requestID)
		}
		if correlationID := ctx.Value(CorrelationIDKey); correlationID != nil {
			setSection(&entry.Request, "correlation_id", correlationID)
		}
		if component, ok := ctx.Value(ComponentKey).(string); ok {
			entry.Component = component
		}
		if stage, ok := ctx.Value(StageKey).(string); ok {
			entry.Stage = stage
		}
	}

	route := func(a slog.Attr) bool {
		key := a.Key
		value := a.Value.Any()

		switch {
		case key == "component":
			entry.Component = fmt.Sprintf("%v", value)
		case key == "stage":
			entry.Stage = fmt.Sprintf("%v", value)
		case key == "request" || key == "response":
			if m, ok := value.(map[string]interface{}); ok {
				for k, v := range m {
					if key == "request" {
						setSection(&entry.Request, k, v)
					} else {
						setSection(&entry.Response, k, v)
					}
				}
				return true
			}
			setSection(&entry.Attributes, key, value)
		case strings.HasPrefix(key, "request_"):
			setSection(&entry.Request, strings.TrimPrefix(key, "request_"), value)
		case strings.HasPrefix(key, "response_"):
			setSection(&entry.Response, strings.TrimPrefix(key, "response_"), value)
		case strings.HasPrefix(key, "error_"):
			setSection(&entry.Error, strings.TrimPrefix(key, "error_"), value)
		case key == "error":
			if err, ok := value.(error); ok {
				setSection(&entry.Error, "message", utils.MaskAPIKey(err.Error()))
				setSection(&entry.Error, "type", fmt.Sprintf("%T", err))
			} else {
				setSection(&entry.Error, "message", fmt.Sprintf("%v", value))
			}
		default:
			setSection(&entry.Attributes, key, value)
		}
		return true
	}

	for _, a := range h.attrs {
		route(a)
	}
	r.Attrs(route)

	// image payloads must never reach the log stream in full
	if entry.Attributes != nil {
		entry.Attributes = utils.TruncateBase64InData(entry.Attributes).(map[string]interface{})
	}
	if entry.Request != nil {
		entry.Request = utils.TruncateBase64InData(entry.Request).(map[string]interface{})
	}
	if entry.Response != nil {
		entry.Response = utils.TruncateBase64InData(entry.Response).(map[string]interface{})
	}
	if entry.Error != nil {
		entry.Error = utils.TruncateBase64InData(entry.Error).(map[string]interface{})
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = fmt.Fprintln(h.writer, string(data))
	return err
}

func setSection(section *map[string]interface{}, key string, value interface{}) {
	if *section == nil {
		*section = make(map[string]interface{})
	}
	(*section)[key] = SerializeValue(value)
}

// SerializeValue converts values JSON cannot represent well
func SerializeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case time.Duration:
		return v.Milliseconds()
	case error:
		return v.Error()
	default:
		return val
	}
}

// WithComponent returns a context tagged with the component name
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// WithStage returns a context tagged with the processing stage
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// RequestIDFromContext returns the request ID stored by the correlation middleware
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func get() *slog.Logger {
	if Logger == nil {
		if err := Init(DefaultConfig); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize default logger: %v\n", err)
			return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelDebug}))
		}
	}
	return Logger
}

// Convenience functions for different log levels
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Context-aware convenience functions
func DebugCtx(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, args...)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	get().InfoContext(ctx, msg, args...)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	get().WarnContext(ctx, msg, args...)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	get().ErrorContext(ctx, msg, args...)
}

// ParseLevel maps a LOG_LEVEL string to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// InitFromEnv initializes the logger with environment-based configuration
func InitFromEnv() error {
	config := DefaultConfig

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Level = ParseLevel(level)
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Format = format
	}

	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		config.Output = output
	}

	if serviceName := os.Getenv("SERVICE_NAME"); serviceName != "" {
		config.ServiceName = serviceName
	}

	if environment := os.Getenv("ENVIRONMENT"); environment != "" {
		config.Environment = environment
	} else if env := os.Getenv("ENV"); env != "" {
		config.Environment = env
	}

	return Init(config)
}
