package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/cactolog/internal/logger"
	"github.com/julianstephens/cactolog/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix.
// Missing records are reported without the storage plumbing around them.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("Error: not found: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
