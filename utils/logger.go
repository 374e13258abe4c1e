package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *log.Logger
	// WarnLogger logs recoverable problems
	WarnLogger *log.Logger
	// ErrorLogger logs error messages
	ErrorLogger *log.Logger
	// DebugLogger logs debug messages
	DebugLogger *log.Logger
)

// InitLogger opens one log file per level under dir, named by date.
// When toStdout is set every line is mirrored to stdout as well.
func InitLogger(dir string, toStdout bool) error {
	if dir == "" {
		dir = DefaultLogDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	open := func(level string) (io.Writer, error) {
		f, err := os.OpenFile(
			filepath.Join(dir, fmt.Sprintf("%s-%s.log", level, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", level, err)
		}
		if toStdout {
			return io.MultiWriter(f, os.Stdout), nil
		}
		return f, nil
	}

	infoOut, err := open("info")
	if err != nil {
		return err
	}
	errorOut, err := open("error")
	if err != nil {
		return err
	}
	debugOut, err := open("debug")
	if err != nil {
		return err
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLogger = log.New(infoOut, "INFO: ", flags)
	// Warnings land in the info file so the daily report sees them in order.
	WarnLogger = log.New(infoOut, "WARN: ", flags)
	ErrorLogger = log.New(errorOut, "ERROR: ", flags)
	DebugLogger = log.New(debugOut, "DEBUG: ", flags)

	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogWarn logs a warning
func LogWarn(format string, v ...interface{}) {
	if WarnLogger != nil {
		WarnLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration, requestID string) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v - ID: %s", method, path, ip, status, duration, requestID)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
