package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"billing/internal/export"
	"billing/internal/invoice"
	"billing/internal/logger"
	"billing/internal/money"
	"billing/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export invoices as CSV, HTML or Google Sheets rows",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export the invoice history as CSV",
	Long: `Write one CSV line per invoice with the columns Invoice Number, Date,
Customer Name, Customer Email, Billing Type, Subtotal, Tax, Discount and
Total. Amounts have two decimals.`,
	Example: `  billing export csv -o invoice_history.csv`,
	Args:    cobra.NoArgs,
	RunE:    runExportCSV,
}

var exportHTMLCmd = &cobra.Command{
	Use:   "html [id-or-number]",
	Short: "Render a printable invoice as HTML",
	Long: `Render one invoice together with the business profile as a standalone
HTML page, ready to print or to convert to PDF.`,
	Example: `  billing export html INV-2403-0001 -o INV-2403-0001.html`,
	Args:    cobra.ExactArgs(1),
	RunE:    runExportHTML,
}

var exportSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Append invoices to a Google Sheet",
	Long: `Append one row per invoice to a worksheet of the Google Sheet named by
GOOGLE_SHEET_URL. The worksheet and its header row are created when
missing; invoices whose number is already in the sheet are skipped.

Required environment variables:
  GOOGLE_SHEET_URL - URL of the target spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Args: cobra.NoArgs,
	RunE: runExportSheets,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd, exportHTMLCmd, exportSheetsCmd)

	exportCSVCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	exportHTMLCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	exportSheetsCmd.Flags().String("worksheet", "", "Worksheet name (default from GOOGLE_SHEET_WORKSHEET)")
	exportSheetsCmd.Flags().Int("timeout", 60, "Timeout in seconds")
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")
	outputPath, _ := cmd.Flags().GetString("output")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	invoices, err := a.invoices.List()
	if err != nil {
		return handleBillingError(err, log)
	}
	if len(invoices) == 0 {
		return fmt.Errorf("no invoices to export")
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, invoices); err != nil {
		return err
	}
	return writeOutput(buf.Bytes(), outputPath, log)
}

func runExportHTML(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")
	outputPath, _ := cmd.Flags().GetString("output")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	inv, err := findInvoice(a, args[0])
	if err != nil {
		return handleBillingError(err, log)
	}
	p, err := a.profiles.Get()
	if err != nil {
		return handleBillingError(err, log)
	}
	if p == nil {
		return fmt.Errorf("no business profile yet; create one with 'billing profile save'")
	}

	renderer := export.NewHTMLRenderer(money.New(a.cfg.CurrencySymbol))
	html, err := renderer.RenderHTML(export.RenderInput{Invoice: inv, Profile: *p})
	if err != nil {
		return err
	}

	log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("suggested_name", export.Filename(inv, "html")).
		Msg("Invoice rendered")
	return writeOutput([]byte(html), outputPath, log)
}

func runExportSheets(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")
	worksheet, _ := cmd.Flags().GetString("worksheet")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.RequireSheets(); err != nil {
		return err
	}
	if worksheet == "" {
		worksheet = a.cfg.GoogleSheetWorksheet
	}

	invoices, err := a.invoices.List()
	if err != nil {
		return handleBillingError(err, log)
	}
	invoice.SortRecent(invoices)
	// Oldest first so the sheet reads chronologically.
	for i, j := 0, len(invoices)-1; i < j; i, j = i+1, j-1 {
		invoices[i], invoices[j] = invoices[j], invoices[i]
	}

	ctx, cancel := createContext(timeoutSecs, log)
	defer cancel()

	svc, err := sheets.NewSheetsService(ctx, a.cfg.GoogleSheetURL)
	if err != nil {
		return handleBillingError(err, log)
	}

	n, err := svc.AppendInvoices(ctx, invoices, worksheet)
	if err != nil {
		return handleBillingError(err, log)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Appended %d invoice(s) to %s\n", n, worksheet)
	return nil
}
