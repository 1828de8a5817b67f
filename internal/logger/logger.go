// Package logger provides leveled logging with optional per-level file
// output under the data directory, rotated daily.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sharegate/internal/constants"
)

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger writes leveled log lines to stdout and, when a data directory is
// configured, to per-level daily log files.
type Logger struct {
	mu            sync.Mutex
	level         string
	dataDir       string // empty = stdout only
	fileHandles   map[string]*os.File
	currentDay    int // year*1000 + yday, tracks rotation
	writeToStdout bool
}

// Options configures logger behavior.
type Options struct {
	Level         string
	DataDir       string // if set, enables file logging
	WriteToStdout bool
}

// NewLogger creates a stdout-only logger at the given level.
func NewLogger(level string) *Logger {
	return NewLoggerWithOptions(Options{Level: normalizeLevel(level), WriteToStdout: true})
}

// NewLoggerWithOptions creates a logger with full configuration.
func NewLoggerWithOptions(opts Options) *Logger {
	level := normalizeLevel(opts.Level)
	l := &Logger{
		level:         level,
		dataDir:       opts.DataDir,
		writeToStdout: opts.WriteToStdout,
		fileHandles:   make(map[string]*os.File),
	}
	if opts.DataDir != "" {
		l.currentDay = dayKey(time.Now())
	}
	return l
}

// SetDataDir enables or changes file logging. Pass empty string to disable.
func (l *Logger) SetDataDir(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeHandlesLocked()
	l.dataDir = dir
	l.currentDay = 0
	if dir != "" {
		l.currentDay = dayKey(time.Now())
	}
	return nil
}

// SetLevel changes the minimum level. Unknown levels are ignored.
func (l *Logger) SetLevel(level string) {
	level = normalizeLevel(level)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes all open log file handles.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeHandlesLocked()
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelOrder[level] < levelOrder[l.level] {
		return
	}

	timestamp := time.Now().Format(constants.LogTimestampFormat)
	line := fmt.Sprintf("[%s] %s | %s\n", level, timestamp, fmt.Sprintf(format, args...))

	if l.writeToStdout {
		fmt.Print(line)
	}
	if l.dataDir != "" {
		l.rotateLocked()
		l.writeFileLocked(level, line)
	}
}

// rotateLocked closes file handles when the day has changed so the next
// write opens fresh files. Caller must hold the mutex.
func (l *Logger) rotateLocked() {
	day := dayKey(time.Now())
	if day != l.currentDay {
		l.closeHandlesLocked()
		l.currentDay = day
	}
}

func (l *Logger) writeFileLocked(level, line string) {
	handle, err := l.handleLocked(level)
	if err != nil {
		if l.writeToStdout {
			fmt.Printf("[LOGGER_ERROR] Failed to open log file: %v\n", err)
		}
		return
	}
	if _, err := handle.WriteString(line); err != nil && l.writeToStdout {
		fmt.Printf("[LOGGER_ERROR] Failed to write to log file: %v\n", err)
	}
}

// handleLocked returns the open file for the level, creating it if needed.
// Path: dataDir/.internal/logs/<level>/<midnight-unix>.log
func (l *Logger) handleLocked(level string) (*os.File, error) {
	if handle, ok := l.fileHandles[level]; ok {
		return handle, nil
	}

	logDir := filepath.Join(l.dataDir, constants.InternalDir, constants.LogsDir, levelDir(level))
	if err := os.MkdirAll(logDir, constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	path := filepath.Join(logDir, logFilename(time.Now()))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	l.fileHandles[level] = file
	return file, nil
}

func (l *Logger) closeHandlesLocked() error {
	var lastErr error
	for level, handle := range l.fileHandles {
		if err := handle.Close(); err != nil {
			lastErr = err
		}
		delete(l.fileHandles, level)
	}
	return lastErr
}

func normalizeLevel(level string) string {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

func dayKey(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

// logFilename names log files by the Unix timestamp of midnight UTC.
func logFilename(t time.Time) string {
	year, month, day := t.UTC().Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%d%s", startOfDay.Unix(), constants.LogFileExtension)
}

func levelDir(level string) string {
	switch level {
	case LevelInfo:
		return constants.LogsDirInfo
	case LevelWarn:
		return constants.LogsDirWarn
	case LevelError:
		return constants.LogsDirError
	default:
		return constants.LogsDirDebug
	}
}
