package testutil

import (
	"context"
	"fmt"
	"testing"
	"transparencia-backend/lib/telemetry"
)

// Setup initializes telemetry for a test and opens its root span, both
// are released by the returned func.
func Setup(t testing.TB, name string) (context.Context, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))

	ctx, span := telemetry.Tracer(name).Start(context.Background(), t.Name())
	return ctx, func() {
		span.End()
		cleanup()
	}
}
