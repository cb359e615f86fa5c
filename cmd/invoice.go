package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"billing/internal/invoice"
	"billing/internal/logger"
	"billing/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create, list, update and delete invoices",
	Long: `Manage the invoice collection.

Invoices are created and updated from a draft file: a JSON document with
the invoice number (optional, assigned automatically when empty), dates,
customer, items, tax and discount percentages, and the details of all
three billing types. "billingType" selects which details go onto the
invoice; the others are kept out of it. Item amounts and totals are
always computed, never read from the draft.

Run 'billing invoice template' for a starting point.`,
}

var invoiceNextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Print the next invoice number for this month",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceNextNumber,
}

var invoiceTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print an empty draft file",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceTemplate,
}

var invoiceCreateCmd = &cobra.Command{
	Use:     "create [draft-file]",
	Short:   "Create an invoice from a draft file",
	Example: `  billing invoice create draft.json`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInvoiceCreate,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	Example: `  billing invoice list --type grocery
  billing invoice list --search asha`,
	Args: cobra.NoArgs,
	RunE: runInvoiceList,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show [id-or-number]",
	Short: "Print one invoice as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShow,
}

var invoiceUpdateCmd = &cobra.Command{
	Use:   "update [id] [draft-file]",
	Short: "Replace a stored invoice with a draft file",
	Long: `Replace the stored invoice with the given id by the contents of a draft
file. The creation time is kept. Fields the draft leaves out fall back to
the stored invoice: an empty invoice number or issue date keeps the stored
value, and items without an id keep the id of the stored item at the same
position. Updating an unknown id fails.`,
	Args: cobra.ExactArgs(2),
	RunE: runInvoiceUpdate,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
	Long:  `Delete the invoice with the given id. Deleting an unknown id does nothing.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceDelete,
}

var invoiceVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check stored amounts against a recomputation",
	Long: `Recompute every item amount and total of every stored invoice and report
the ones that differ from what is stored. With --fix the recomputed amounts
are written back.`,
	Args: cobra.NoArgs,
	RunE: runInvoiceVerify,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(
		invoiceNextNumberCmd,
		invoiceTemplateCmd,
		invoiceCreateCmd,
		invoiceListCmd,
		invoiceShowCmd,
		invoiceUpdateCmd,
		invoiceDeleteCmd,
		invoiceVerifyCmd,
	)

	for _, c := range []*cobra.Command{invoiceTemplateCmd, invoiceCreateCmd, invoiceListCmd, invoiceShowCmd, invoiceUpdateCmd, invoiceVerifyCmd} {
		c.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	}
	invoiceTemplateCmd.Flags().String("type", string(models.BillingHotel), "Billing type to select: hotel, grocery or custom")
	invoiceListCmd.Flags().String("type", "", "Only invoices of this billing type")
	invoiceListCmd.Flags().String("search", "", "Match invoice number, customer name or email")
	invoiceVerifyCmd.Flags().Bool("fix", false, "Write recomputed amounts back")
}

func runInvoiceNextNumber(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	number, err := a.invoices.NextNumber()
	if err != nil {
		return handleBillingError(err, log)
	}
	fmt.Fprintln(cmd.OutOrStdout(), number)
	return nil
}

func runInvoiceTemplate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")
	typeName, _ := cmd.Flags().GetString("type")

	t, err := models.ParseBillingType(typeName)
	if err != nil {
		return err
	}

	now := time.Now()
	today := models.NewDate(now)
	tomorrow := models.Date{Time: today.AddDate(0, 0, 1)}
	mustRaw := func(v interface{}) json.RawMessage {
		data, _ := json.Marshal(v)
		return data
	}

	draft := invoice.DraftFile{
		IssueDate:   today,
		Customer:    models.Customer{Name: "", Email: ""},
		Items:       []invoice.DraftItem{{Name: "", Quantity: 1, UnitPrice: 0}},
		BillingType: string(t),
		Hotel:       mustRaw(models.HotelDetails{CheckIn: today, CheckOut: tomorrow, Nights: 1, Services: []string{}}),
		Grocery:     mustRaw(models.GroceryDetails{}),
		Custom:      mustRaw(models.CustomDetails{CustomFields: []models.CustomField{{Key: "", Value: ""}}}),
	}
	return writeJSON(draft, outputPath, log)
}

func runInvoiceCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")

	draft, err := readDraft(args[0], log)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.invoices.Create(draft.Invoice())
	if err != nil {
		return handleBillingError(err, log)
	}
	return writeJSON(created, outputPath, log)
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")
	typeName, _ := cmd.Flags().GetString("type")
	search, _ := cmd.Flags().GetString("search")

	filter := invoice.Filter{Search: search}
	if typeName != "" {
		t, err := models.ParseBillingType(typeName)
		if err != nil {
			return err
		}
		filter.Type = t
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	invoices, err := a.invoices.List()
	if err != nil {
		return handleBillingError(err, log)
	}
	invoices = filter.Apply(invoices)
	invoice.SortRecent(invoices)
	return writeJSON(invoices, outputPath, log)
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
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
	return writeJSON(inv, outputPath, log)
}

func runInvoiceUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")

	data, err := readDraftData(args[1])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stored, err := a.invoices.Get(args[0])
	if err != nil {
		return handleBillingError(err, log)
	}

	draft, err := invoice.ParseUpdateFile(data, stored, time.Now())
	if err != nil {
		return handleBillingError(err, log)
	}

	updated, err := a.invoices.Update(draft.Invoice())
	if err != nil {
		return handleBillingError(err, log)
	}
	return writeJSON(updated, outputPath, log)
}

func runInvoiceDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.invoices.Delete(args[0]); err != nil {
		return handleBillingError(err, log)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s deleted\n", args[0])
	return nil
}

func runInvoiceVerify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")
	fix, _ := cmd.Flags().GetBool("fix")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.invoices.Verify(fix)
	if err != nil {
		return handleBillingError(err, log)
	}

	discrepancies := 0
	for _, r := range results {
		if r.HasDiscrepancy {
			discrepancies++
		}
	}
	log.Info().
		Int("invoices", len(results)).
		Int("discrepancies", discrepancies).
		Bool("fixed", fix).
		Msg("Verification completed")

	return writeJSON(results, outputPath, log)
}

// readDraft parses a draft file into an editing session.
func readDraft(path string, log zerolog.Logger) (*invoice.Draft, error) {
	data, err := readDraftData(path)
	if err != nil {
		return nil, err
	}

	draft, err := invoice.ParseDraftFile(data, time.Now())
	if err != nil {
		return nil, handleBillingError(err, log)
	}
	return draft, nil
}

func readDraftData(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("draft file not found: %s", path)
		}
		return nil, fmt.Errorf("error reading draft file: %w", err)
	}
	return data, nil
}

// findInvoice looks an invoice up by id, then by invoice number.
func findInvoice(a *app, ref string) (models.Invoice, error) {
	inv, err := a.invoices.Get(ref)
	if err == nil || !errors.Is(err, invoice.ErrNotFound) {
		return inv, err
	}

	invoices, listErr := a.invoices.List()
	if listErr != nil {
		return models.Invoice{}, listErr
	}
	for _, candidate := range invoices {
		if candidate.InvoiceNumber == ref {
			return candidate, nil
		}
	}
	return models.Invoice{}, err
}
