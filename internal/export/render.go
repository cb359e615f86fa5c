package export

import (
	"context"

	"billing/pkg/models"
)

// RenderInput is the invoice and business profile a document is rendered from.
type RenderInput struct {
	Invoice models.Invoice
	Profile models.UserProfile
}

// Renderer renders an invoice document. Renderers only read their input.
type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

// Rasterizer turns a rendered HTML document into an image or a PDF. It is
// supplied by the host environment (a headless browser, for instance); the
// filename is the suggested download name.
type Rasterizer interface {
	RenderImage(ctx context.Context, html, filename string) ([]byte, error)
	RenderPDF(ctx context.Context, html, filename string) ([]byte, error)
}

// Filename is the suggested file name for an exported invoice document.
func Filename(inv models.Invoice, ext string) string {
	name := inv.InvoiceNumber
	if name == "" {
		name = "invoice"
	}
	return name + "." + ext
}
