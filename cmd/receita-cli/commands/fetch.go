package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"transparencia-backend/lib/restyutil"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/serviceutil"
	"transparencia-backend/lib/timezone"
	"transparencia-backend/services/receita"

	"github.com/spf13/cobra"
)

var (
	fetchStart  string
	fetchEnd    string
	fetchYear   string
	fetchJson   bool
	fetchDump   bool
	fetchSource string
)

func init() {
	now := timezone.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, timezone.Location)

	fetchCmd.Flags().StringVar(&fetchStart, "inicio", monthStart.Format("02/01/2006"), "Period start (DD/MM/YYYY).")
	fetchCmd.Flags().StringVar(&fetchEnd, "fim", now.Format("02/01/2006"), "Period end (DD/MM/YYYY).")
	fetchCmd.Flags().StringVar(&fetchYear, "ano", now.Format("2006"), "Fiscal year (YYYY).")
	fetchCmd.Flags().BoolVar(&fetchJson, "json", false, "Print the response envelope as JSON instead of a table.")
	fetchCmd.Flags().BoolVar(&fetchDump, "dump", false, "Write every exchange with the portal to the dev state directory.")
	fetchCmd.Flags().StringVar(&fetchSource, "portal", "", "Portal base url, overrides the config.")
	rootCmd.AddCommand(fetchCmd)
}

// validatePeriod checks that both dates exist and are in order.
func validatePeriod(start, end string) error {
	startDate, err := timezone.ParseDate(start)
	if err != nil {
		return fmt.Errorf("invalid --inicio %q: %w", start, err)
	}
	endDate, err := timezone.ParseDate(end)
	if err != nil {
		return fmt.Errorf("invalid --fim %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("--fim %s is before --inicio %s", end, start)
	}
	return nil
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--inicio DD/MM/YYYY] [--fim DD/MM/YYYY] [--ano YYYY] [--json]",
	Short: "Queries the portal's revenue records and prints them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validatePeriod(fetchStart, fetchEnd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		cfg, logger, shutdown := loadConfig(ctx)
		defer shutdown()
		if fetchSource != "" {
			cfg.Portal.BaseUrl = fetchSource
		}

		var output restyutil.InstrumentOutput
		if fetchDump {
			fs, err := restyutil.NewFilesystemOutput("<dev_state>/resty/receita-cli")
			if err != nil {
				serviceutil.Fatal("failed to create dump directory", err)
			}
			output = fs
		}

		client, err := transparencia.NewClient(cfg.ClientOptions(logger, output))
		if err != nil {
			return err
		}
		service := receita.NewService(client, logger)

		start := time.Now()
		env := service.Fetch(ctx, fetchStart, fetchEnd, fetchYear)
		logger.Info("fetch finished", "seconds", time.Since(start).Seconds(), "code", env.Code)

		if fetchJson {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			encoder.SetEscapeHTML(false)
			return encoder.Encode(env)
		}
		if env.Code != receita.CodeSuccess {
			return fmt.Errorf("fetch failed: %d %s", env.Code, env.Message)
		}
		renderRecords(os.Stdout, env.Results)
		return nil
	},
}
