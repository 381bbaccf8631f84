// pkg/logging/logging.go - timestamped logging package for WDS Super Menu
//
// This package provides structured logging with one timestamped directory per
// session. Features include:
// - Timestamped subdirectories (YYYY-MM-DD-HHMMss format)
// - A plain text log plus a JSONL stream of structured entries
// - Retention of the most recent session directories

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/sdporres/wdssupermenu/pkg/config"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogEntry is one structured log record.
type LogEntry struct {
	Time       int64                  `json:"time"`
	Timestamp  string                 `json:"timestamp"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component"`
	PID        int64                  `json:"pid"`
	Hostname   string                 `json:"hostname"`
	SessionID  string                 `json:"session_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// LoggerConfig holds configuration for the file logger
type LoggerConfig struct {
	BaseDir       string   // Base logging directory
	Component     string   // Component/module name
	SessionID     string   // Unique session identifier
	Level         LogLevel // Most verbose level written
	KeepSessions  int      // Session directories kept by cleanup
	EnableJSON    bool     // Enable JSONL output
	EnableConsole bool     // Mirror the text log to stdout
}

// Logger writes the text log and the structured stream of one session.
type Logger struct {
	mu       sync.RWMutex
	logger   *log.Logger
	logLevel LogLevel
	logFile  *os.File
	jsonFile *os.File
	config   LoggerConfig
	logDir   string
	hostname string
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the singleton Logger based on the provided configuration.
// It must be called before any logging functions are used.
func Init(cfg *config.Configuration) error {
	level := ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = LevelDebug
	}
	return InitWithConfig(LoggerConfig{
		BaseDir:       cfg.LogDir,
		Component:     "wdsmenu",
		SessionID:     uuid.NewString(),
		Level:         level,
		KeepSessions:  10,
		EnableJSON:    true,
		EnableConsole: cfg.Verbose,
	})
}

// InitWithConfig initializes the logger with explicit LoggerConfig
func InitWithConfig(logCfg LoggerConfig) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLoggerWithConfig(logCfg)
	})
	return initErr
}

// createTimestampedLogDir creates a timestamped log directory
func createTimestampedLogDir(baseDir string, sessionStart time.Time) (string, error) {
	logDir := filepath.Join(baseDir, sessionStart.Format("2006-01-02-150405"))
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create timestamped log directory %s: %w", logDir, err)
	}
	return logDir, nil
}

func newLoggerWithConfig(cfg LoggerConfig) (*Logger, error) {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if err := os.MkdirAll(cfg.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base log directory: %w", err)
	}
	logDir, err := createTimestampedLogDir(cfg.BaseDir, time.Now())
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	l := &Logger{
		config:   cfg,
		logDir:   logDir,
		hostname: hostname,
		logLevel: cfg.Level,
	}

	l.logFile, err = os.OpenFile(filepath.Join(logDir, "wdsmenu.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open main log file: %w", err)
	}
	if cfg.EnableJSON {
		l.jsonFile, err = os.OpenFile(filepath.Join(logDir, "events.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			l.logFile.Close()
			return nil, fmt.Errorf("failed to open JSON log file: %w", err)
		}
	}

	if cfg.EnableConsole {
		l.logger = log.New(io.MultiWriter(os.Stdout, l.logFile), "", 0)
	} else {
		l.logger = log.New(l.logFile, "", 0)
	}

	go l.performCleanup()

	return l, nil
}

// performCleanup removes session directories beyond the retention count.
func (l *Logger) performCleanup() {
	entries, err := os.ReadDir(l.config.BaseDir)
	if err != nil {
		return
	}

	var logDirs []string
	for _, entry := range entries {
		// YYYY-MM-DD-HHMMss
		if entry.IsDir() && len(entry.Name()) == 17 && strings.Count(entry.Name(), "-") == 3 {
			logDirs = append(logDirs, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(logDirs)))

	if l.config.KeepSessions <= 0 || len(logDirs) <= l.config.KeepSessions {
		return
	}
	for _, name := range logDirs[l.config.KeepSessions:] {
		dirPath := filepath.Join(l.config.BaseDir, name)
		if dirPath == l.logDir {
			continue
		}
		os.RemoveAll(dirPath) // best effort
	}
}

// CloseLogger closes all log files if they're open.
func CloseLogger() {
	if instance == nil {
		return
	}
	instance.close()
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
		l.jsonFile = nil
	}
}

// GetCurrentLogDir returns the directory of the running session.
func GetCurrentLogDir() string {
	if instance == nil {
		return ""
	}
	return instance.logDir
}

// SetLevel changes the most verbose level written by the singleton.
func SetLevel(level LogLevel) {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	instance.logLevel = level
	instance.mu.Unlock()
}

// logMessage is the core logging method that writes to all configured outputs
func (l *Logger) logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.logLevel || l.logger == nil {
		return
	}

	properties := make(map[string]interface{})
	for i := 0; i+1 < len(keyValues); i += 2 {
		properties[fmt.Sprintf("%v", keyValues[i])] = propertyValue(keyValues[i+1])
	}

	now := time.Now()
	entry := LogEntry{
		Time:       now.Unix(),
		Timestamp:  now.Format(time.RFC3339),
		Level:      level.String(),
		Message:    message,
		Component:  l.config.Component,
		PID:        int64(os.Getpid()),
		Hostname:   l.hostname,
		SessionID:  l.config.SessionID,
		Properties: properties,
	}

	l.logger.Println(formatLine(entry, keyValues))

	if l.jsonFile != nil {
		if data, err := json.Marshal(entry); err == nil {
			l.jsonFile.Write(append(data, '\n'))
		}
	}
}

// errors do not marshal to JSON on their own
func propertyValue(v interface{}) interface{} {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return v
}

// formatLine renders the traditional "[ts] LEVEL message k=v" line.
func formatLine(entry LogEntry, keyValues []interface{}) string {
	ts := time.Unix(entry.Time, 0).Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %-5s %s", ts, entry.Level, entry.Message)

	if len(keyValues)/2 > 4 {
		for i := 0; i+1 < len(keyValues); i += 2 {
			line += fmt.Sprintf("\n        %v: %v", keyValues[i], keyValues[i+1])
		}
	} else {
		for i := 0; i+1 < len(keyValues); i += 2 {
			line += fmt.Sprintf(" %v=%v", keyValues[i], keyValues[i+1])
		}
	}
	return line
}

// Info logs informational messages.
func Info(message string, keyValues ...interface{}) {
	logPackage(LevelInfo, message, keyValues...)
}

// Debug logs debug messages.
func Debug(message string, keyValues ...interface{}) {
	logPackage(LevelDebug, message, keyValues...)
}

// Warn logs warning messages.
func Warn(message string, keyValues ...interface{}) {
	logPackage(LevelWarn, message, keyValues...)
}

// Error logs error messages.
func Error(message string, keyValues ...interface{}) {
	logPackage(LevelError, message, keyValues...)
}

// Before Init only warnings and errors reach stderr so library callers and
// tests stay quiet.
func logPackage(level LogLevel, message string, keyValues ...interface{}) {
	if instance == nil {
		if level <= LevelWarn {
			fmt.Fprintln(os.Stderr, formatLine(LogEntry{Time: time.Now().Unix(), Level: level.String(), Message: message}, keyValues))
		}
		return
	}
	instance.logMessage(level, message, keyValues...)
}

// New creates a console Logger used by the command line front end.
func New(verbose bool) *Logger {
	output := os.Stdout
	if !verbose {
		output = os.Stderr
	}
	return &Logger{
		logger:   log.New(output, "", 0),
		logLevel: LevelInfo,
	}
}

// SetOutput changes the output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

func (l *Logger) colorPrintf(c *color.Color, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Print(c.Sprintf("[%s] %s", ts, fmt.Sprintf(format, v...)))
}

// Printf prints a regular message.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] %s", ts, fmt.Sprintf(format, v...))
}

// Info prints an informational message (instance method counterpart to the package-level Info).
func (l *Logger) Info(format string, v ...interface{}) {
	l.Printf(format, v...)
}

// Success prints a success message in green.
func (l *Logger) Success(format string, v ...interface{}) {
	l.colorPrintf(color.New(color.FgGreen), format, v...)
}

// Error prints an error message in red.
func (l *Logger) Error(format string, v ...interface{}) {
	l.colorPrintf(color.New(color.FgRed), format, v...)
}

// Warning prints a warning message in yellow.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.colorPrintf(color.New(color.FgYellow), format, v...)
}

// Debug prints a debug message in blue.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.colorPrintf(color.New(color.FgBlue), format, v...)
}

// Fatal prints an error message in red and exits.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.Error(format, v...)
	os.Exit(1)
}
