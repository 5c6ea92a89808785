package transparencia

import (
	"context"
	"os"
	"testing"
	"transparencia-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// hits the real portal, run with TRANSPARENCIA_LIVE=1
func TestLivePortal(t *testing.T) {
	if os.Getenv("TRANSPARENCIA_LIVE") != "1" {
		t.Skip("TRANSPARENCIA_LIVE is not set")
	}

	cleanup := telemetry.SetupForTesting(t, "test:scrapers/transparencia")
	defer cleanup()

	ctx, span := tracer.Start(context.Background(), "TestLivePortal")
	defer span.End()

	client, err := NewClient(ClientOptions{
		BaseUrl: os.Getenv("PORTAL_BASE_URL"),
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := client.Query(ctx, Query{
		PeriodStart: "01/01/2024",
		PeriodEnd:   "31/01/2024",
		FiscalYear:  "2024",
	})
	if err != nil {
		t.Fatal(err)
	}
	require.Greater(t, len(records), 0)
	for _, r := range records {
		require.Equal(t, DataSource, r.DataSource)
	}
}
