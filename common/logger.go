// Package common provides shared constants, types, and utilities
// used across the SusOps tray application.
package common

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level       LogLevel
	EnableFile  bool
	MaxFileSize int64 // in bytes, default 5MB
	MaxBackups  int   // number of rotated files to keep, default 5
}

const (
	defaultMaxFileSize = 5 * 1024 * 1024
	defaultMaxBackups  = 5
)

// Logger writes leveled, caller-annotated records to stdout and,
// optionally, to a size-rotated log file. Rotation is checked on every
// file write, so a long-running tray process never grows the file
// unbounded between restarts.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	out   io.Writer // console sink, normally os.Stdout

	file    *os.File
	path    string
	written int64
	limit   int64
	keep    int
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// GetLogger returns the singleton logger instance.
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		defaultLogger = &Logger{
			level: LevelInfo,
			out:   os.Stdout,
			limit: defaultMaxFileSize,
			keep:  defaultMaxBackups,
		}
	})
	return defaultLogger
}

// InitLogger configures the singleton. Call early in startup, before the
// first log record.
func InitLogger(config LogConfig) error {
	l := GetLogger()
	l.mu.Lock()
	l.level = config.Level
	if config.MaxFileSize > 0 {
		l.limit = config.MaxFileSize
	}
	if config.MaxBackups > 0 {
		l.keep = config.MaxBackups
	}
	l.mu.Unlock()

	if config.EnableFile {
		return l.openLogFile()
	}
	return nil
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the console sink. Used by tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// GetLogDir returns the log directory path.
func GetLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, "logs")
}

// isSymlink reports whether path is a symbolic link. A missing path is not
// a symlink and is safe to create.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// openLogFile attaches the file sink, rotating first when the existing
// file is already over the limit. Symlinked log locations are refused.
func (l *Logger) openLogFile() error {
	dir := GetLogDir()
	if dir == "" {
		return fmt.Errorf("cannot resolve home directory")
	}
	if isSymlink(dir) {
		return fmt.Errorf("security error: log directory is a symlink")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path := filepath.Join(dir, LogFileName)
	if isSymlink(path) {
		return fmt.Errorf("security error: log file is a symlink")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if info, err := os.Stat(path); err == nil && info.Size() >= l.limit {
		l.rotateLocked(path)
	}
	return l.attachLocked(path)
}

// attachLocked opens path for appending and seeds the size counter.
// Caller holds l.mu.
func (l *Logger) attachLocked(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	if l.file != nil {
		l.file.Close()
	}
	l.file = file
	l.path = path
	l.written = 0
	if info, err := file.Stat(); err == nil {
		l.written = info.Size()
	}
	return nil
}

// rotateLocked moves the current file aside as a timestamped gzip backup
// and prunes the oldest backups beyond the keep count. Caller holds l.mu.
func (l *Logger) rotateLocked(path string) {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	backup := fmt.Sprintf("%s.%s.gz", path, time.Now().Format("20060102-150405"))
	if err := gzipFile(path, backup); err != nil {
		// Compression failed; keep the data with a plain rename.
		os.Rename(path, strings.TrimSuffix(backup, ".gz"))
	} else {
		os.Remove(path)
	}

	prefix := filepath.Base(path) + "."
	pruneBackups(filepath.Dir(path), prefix, l.keep)
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	defer zw.Close()

	_, err = io.Copy(zw, in)
	return err
}

// pruneBackups deletes the oldest rotated files so at most keep remain.
func pruneBackups(dir, prefix string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, e.Name()))
		}
	}
	if len(backups) <= keep {
		return
	}

	sort.Slice(backups, func(i, j int) bool {
		infoI, _ := os.Stat(backups[i])
		infoJ, _ := os.Stat(backups[j])
		if infoI == nil || infoJ == nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})
	for _, old := range backups[:len(backups)-keep] {
		os.Remove(old)
	}
}

// log formats one record and writes it to every sink. The file sink is
// rotated in-line once the record pushes it past the limit.
func (l *Logger) log(level LogLevel, msg string, args ...interface{}) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	caller := "???"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	record := fmt.Sprintf("%s [%s] %s: %s\n",
		time.Now().Format("2006/01/02 15:04:05"), level.String(), caller, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out != nil {
		io.WriteString(l.out, record)
	}
	if l.file == nil {
		return
	}
	if n, err := io.WriteString(l.file, record); err == nil {
		l.written += int64(n)
	}
	if l.written >= l.limit {
		path := l.path
		l.rotateLocked(path)
		if err := l.attachLocked(path); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation lost the file sink: %v\n", err)
		}
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// Shorthand functions for the default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().Debug(msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().Info(msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().Error(msg, args...)
}

// Close detaches the file sink. Should be called on application shutdown.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// CloseLogger closes the default logger's file sink.
func CloseLogger() error {
	return GetLogger().Close()
}
