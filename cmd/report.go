package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"billing/internal/logger"
	"billing/internal/report"
	"billing/pkg/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Revenue reports over the stored invoices",
	Long: `Read-only reports built from the stored invoice totals. Every report is
printed as JSON.`,
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Invoice count, revenue, average and the most recent invoices",
	Args:  cobra.NoArgs,
	RunE:  runReportSummary,
}

var reportTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Revenue per day, week, month or year",
	Long: `Revenue and invoice count per bucket, by issue date: the last 30 days,
12 weeks, 12 months or 5 years, oldest first. Empty buckets are included.`,
	Example: `  billing report timeline --bucket week`,
	Args:    cobra.NoArgs,
	RunE:    runReportTimeline,
}

var reportTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Revenue per billing type",
	Args:  cobra.NoArgs,
	RunE:  runReportTypes,
}

var reportCustomersCmd = &cobra.Command{
	Use:     "customers",
	Short:   "Top customers by amount or invoice count",
	Example: `  billing report customers --sort count --limit 5`,
	Args:    cobra.NoArgs,
	RunE:    runReportCustomers,
}

var reportHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Monthly history for a date range",
	Long: `Invoices issued within the range, grouped by month and by billing type.

Ranges: last_30_days, last_3_months (default), last_6_months, last_year, all_time.`,
	Args: cobra.NoArgs,
	RunE: runReportHistory,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSummaryCmd, reportTimelineCmd, reportTypesCmd, reportCustomersCmd, reportHistoryCmd)

	for _, c := range reportCmd.Commands() {
		c.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	}
	reportTimelineCmd.Flags().String("bucket", "month", "Bucket size: day, week, month or year")
	reportCustomersCmd.Flags().String("sort", "amount", "Rank by amount or count")
	reportCustomersCmd.Flags().Int("limit", report.DefaultTopCustomers, "Number of customers")
	reportHistoryCmd.Flags().String("range", string(report.DefaultRange), "History range")
}

// loadInvoices opens the store and returns every stored invoice.
func loadInvoices(cmd *cobra.Command) ([]models.Invoice, error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	invoices, err := a.invoices.List()
	if err != nil {
		return nil, handleBillingError(err, logger.WithComponent("report"))
	}
	return invoices, nil
}

func runReportSummary(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	outputPath, _ := cmd.Flags().GetString("output")

	invoices, err := loadInvoices(cmd)
	if err != nil {
		return err
	}
	return writeJSON(report.Summary(invoices), outputPath, log)
}

func runReportTimeline(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	outputPath, _ := cmd.Flags().GetString("output")
	bucketName, _ := cmd.Flags().GetString("bucket")

	bucket, err := report.ParseBucket(bucketName)
	if err != nil {
		return err
	}
	invoices, err := loadInvoices(cmd)
	if err != nil {
		return err
	}

	points, err := report.Timeline(invoices, bucket, time.Now())
	if err != nil {
		return handleBillingError(err, log)
	}
	return writeJSON(points, outputPath, log)
}

func runReportTypes(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	outputPath, _ := cmd.Flags().GetString("output")

	invoices, err := loadInvoices(cmd)
	if err != nil {
		return err
	}
	return writeJSON(report.ByBillingType(invoices), outputPath, log)
}

func runReportCustomers(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	outputPath, _ := cmd.Flags().GetString("output")
	sortName, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")

	sortBy, err := report.ParseSortBy(sortName)
	if err != nil {
		return err
	}
	invoices, err := loadInvoices(cmd)
	if err != nil {
		return err
	}
	return writeJSON(report.TopCustomers(invoices, sortBy, limit), outputPath, log)
}

func runReportHistory(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	outputPath, _ := cmd.Flags().GetString("output")
	rangeName, _ := cmd.Flags().GetString("range")

	rng, err := report.ParseRange(rangeName)
	if err != nil {
		return err
	}
	invoices, err := loadInvoices(cmd)
	if err != nil {
		return err
	}

	history, err := report.History(invoices, rng, time.Now())
	if err != nil {
		return handleBillingError(err, log)
	}
	return writeJSON(history, outputPath, log)
}
