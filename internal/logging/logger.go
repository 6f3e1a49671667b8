package logging

import (
	"log"
	"os"
	"sync"
)

// Logger provides level-based logging for the assistant. Debug output is
// suppressed unless enabled at initialization.
type Logger struct {
	mu           sync.Mutex
	debugEnabled bool
	out          *log.Logger
}

var globalLogger = &Logger{out: log.New(os.Stdout, "", log.LstdFlags)}

// Initialize configures the global logger. Safe to call more than once;
// the last call wins.
func Initialize(debugMode bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.debugEnabled = debugMode
}

// Info logs informational messages (always shown)
func Info(format string, args ...interface{}) {
	globalLogger.out.Printf(format, args...)
}

// Debug logs debug messages (only shown when debug mode is enabled)
func Debug(format string, args ...interface{}) {
	if IsDebugEnabled() {
		globalLogger.out.Printf("DEBUG: "+format, args...)
	}
}

// Error logs error messages (always shown)
func Error(format string, args ...interface{}) {
	globalLogger.out.Printf("ERROR: "+format, args...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	return globalLogger.debugEnabled
}
