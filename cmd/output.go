package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"billing/internal/invoice"
	"billing/internal/profile"
	"billing/internal/report"
	"billing/internal/store"
)

// writeJSON writes v as indented JSON to outputPath, or to stdout when empty.
func writeJSON(v interface{}, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(append(jsonData, '\n'), outputPath, log)
}

// writeOutput writes data to outputPath, or to stdout when empty.
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Error().Err(err).Msg("Failed to write to stdout")
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(data)).
		Msg("Output written to file")
	return nil
}

// createContext creates a context with timeout and signal handling
func createContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleBillingError provides user-friendly error messages
func handleBillingError(err error, log zerolog.Logger) error {
	log.Debug().Err(err).Msg("Operation failed")

	var invoiceValidation *invoice.ValidationError
	var profileValidation *profile.ValidationError
	var invoiceErr *invoice.InvoiceError

	switch {
	case errors.As(err, &invoiceValidation):
		return fmt.Errorf("invoice is invalid: %s: %s", invoiceValidation.Field, invoiceValidation.Message)
	case errors.As(err, &profileValidation):
		return fmt.Errorf("profile is invalid: %s: %s", profileValidation.Field, profileValidation.Message)
	case errors.Is(err, profile.ErrLogoTooLarge):
		return fmt.Errorf("logo is too large (maximum 2MB)")
	case errors.Is(err, invoice.ErrNotFound):
		if errors.As(err, &invoiceErr) && invoiceErr.InvoiceID != "" {
			return fmt.Errorf("invoice %s not found", invoiceErr.InvoiceID)
		}
		return fmt.Errorf("invoice not found")
	case errors.Is(err, invoice.ErrCorruptCollection), errors.Is(err, profile.ErrCorruptProfile):
		return fmt.Errorf("stored data could not be read; check the data directory: %w", err)
	case errors.Is(err, store.ErrUnknownBackend):
		return fmt.Errorf("unknown record store; use --store file, sqlite or memory")
	case errors.Is(err, store.ErrUnavailable):
		log.Error().Err(err).Msg("Record store unavailable")
		return fmt.Errorf("record store unavailable: %w", err)
	case errors.Is(err, report.ErrUnknownOption):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("operation timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	default:
		return err
	}
}
