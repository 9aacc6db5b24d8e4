package errors

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      goerrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "api error",
			err:      &APIError{Status: 500, Message: "Error al obtener reservas"},
			expected: "Error: Error al obtener reservas",
		},
		{
			name:     "wrapped api error",
			err:      fmt.Errorf("fetch: %w", &APIError{Status: 502, Message: "Error al obtener canchas"}),
			expected: "Error: Error al obtener canchas",
		},
		{
			name:     "missing base url",
			err:      ErrMissingBaseURL,
			expected: "Error: " + ErrMissingBaseURL.Error() + "\n  Set B2P_API_BASE_URL in the environment or .env, or pass --api-url.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "fields")
	if result != "Error: failed to load fields" {
		t.Errorf("Formatf() = %q", result)
	}
}

func TestAPIErrorIsUnauthorized(t *testing.T) {
	wrapped := fmt.Errorf("fetch fields: %w", NewAPIError(http.StatusUnauthorized, "", "token expired"))
	if !goerrors.Is(wrapped, ErrUnauthorized) {
		t.Error("401 APIError should match ErrUnauthorized")
	}

	forbidden := NewAPIError(http.StatusForbidden, "nope", "")
	if goerrors.Is(forbidden, ErrUnauthorized) {
		t.Error("403 APIError should not match ErrUnauthorized")
	}
}

func TestNewAPIErrorFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		fallback string
		want     string
	}{
		{name: "body message wins", message: "Cancha duplicada", fallback: "Error al crear la cancha", want: "Cancha duplicada"},
		{name: "fallback", fallback: "Error al crear la cancha", want: "Error al crear la cancha"},
		{name: "status only", want: "HTTP 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAPIError(502, tt.message, tt.fallback)
			if got.Message != tt.want {
				t.Errorf("Message = %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil, "fallback"); got != "fallback" {
		t.Errorf("Message(nil) = %q", got)
	}
	wrapped := fmt.Errorf("ctx: %w", &APIError{Status: 400, Message: "Nombre requerido"})
	if got := Message(wrapped, "fallback"); got != "Nombre requerido" {
		t.Errorf("Message(api) = %q", got)
	}
	if got := Message(ErrMissingBaseURL, "fallback"); got != ErrMissingBaseURL.Error() {
		t.Errorf("Message(config) = %q", got)
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(goerrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
