package apperr_test

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid columns", inner)

	if err.Error() != "invalid columns: parse failed" {
		t.Errorf("expected 'invalid columns: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestLaunchError_KeepsCommandAndCause(t *testing.T) {
	err := &apperr.LaunchError{Command: "/opt/vm/SOM++ -cp /opt/vm/Smalltalk Loop.som", Err: exec.ErrNotFound}

	if !strings.Contains(err.Error(), "/opt/vm/SOM++ -cp /opt/vm/Smalltalk Loop.som") {
		t.Errorf("expected command line in message, got %q", err.Error())
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Error("expected Unwrap to expose the spawn error")
	}
}

func TestMetricParseError_IncludesOutput(t *testing.T) {
	err := &apperr.MetricParseError{Dir: "/opt/vm", Command: "vm Loop.som", Output: "segfault"}

	for _, want := range []string{"/opt/vm", "vm Loop.som", "segfault"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestTimeoutError_Message(t *testing.T) {
	err := &apperr.TimeoutError{Command: "vm Loop.som", Timeout: 2 * time.Second}

	if !strings.Contains(err.Error(), "2s") {
		t.Errorf("expected timeout in message, got %q", err.Error())
	}
}

func TestShapeMismatch_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewShapeMismatch("b.csv", "has %d rows, expected %d", 6, 5)

	wrapped := fmt.Errorf("merge: %w", original)

	var se *apperr.ShapeMismatchError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find ShapeMismatchError through wrapping")
	}
	if se.Reason != "has 6 rows, expected 5" {
		t.Errorf("unexpected reason %q", se.Reason)
	}
	if se.Error() != "shape mismatch in b.csv: has 6 rows, expected 5" {
		t.Errorf("unexpected message %q", se.Error())
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("connection failed")
	wrapped := fmt.Errorf("sink error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}
