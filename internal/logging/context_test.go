package logging_test

import (
	"context"
	"testing"

	"github.com/yaklabco/gomdscan/internal/logging"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	attached := logging.New("error")
	ctx := logging.WithLogger(context.Background(), attached)

	got := logging.FromContext(ctx)
	if got != attached {
		t.Error("FromContext did not return the attached logger")
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := logging.FromContext(context.Background())
	if got != logging.Default() {
		t.Error("FromContext without an attached logger should return Default")
	}
}

func TestFromContext_NilContext(t *testing.T) {
	t.Parallel()

	got := logging.FromContext(nil) //nolint:staticcheck // Nil context handling is the case under test
	if got != logging.Default() {
		t.Error("FromContext(nil) should return Default")
	}
}

func TestWithLogger_NilContext(t *testing.T) {
	t.Parallel()

	attached := logging.New("debug")
	ctx := logging.WithLogger(nil, attached) //nolint:staticcheck // Nil context handling is the case under test

	if logging.FromContext(ctx) != attached {
		t.Error("WithLogger(nil, ...) should still attach the logger")
	}
}
