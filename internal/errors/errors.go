package errors

import (
	"fmt"
	"os"

	"github.com/b2p/b2p-admin/internal/logger"
)

// Format renders err for the terminal with the "Error: " prefix. A missing
// base URL also says how to set one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := "Error: " + Message(err, err.Error())
	if Is(err, ErrMissingBaseURL) {
		msg += "\n  Set B2P_API_BASE_URL in the environment or .env, or pass --api-url."
	}
	return msg
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with code 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

func Fatalf(format string, args ...interface{}) {
	logger.Error("Command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
