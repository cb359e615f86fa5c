package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"billing/internal/money"
	"billing/pkg/models"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Invoice.InvoiceNumber}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .invoice { max-width: 820px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 24px; }
    .header img { max-height: 64px; margin-bottom: 8px; }
    .meta { text-align: right; font-size: 14px; }
    .section { border-top: 1px solid #e5e7eb; padding: 16px 0; }
    .details p { margin: 2px 0; font-size: 14px; }
    .pre { white-space: pre-line; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px 4px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th.num, td.num { text-align: right; }
    .totals { margin-left: auto; width: 260px; font-size: 14px; }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { border-top: 1px solid #e5e7eb; margin-top: 8px; padding-top: 8px; font-weight: bold; }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div>
        {{if .Logo}}<img src="{{.Logo}}" alt="{{.Profile.BusinessName}}" />{{end}}
        <h1>{{.Profile.BusinessName}}</h1>
        <div>{{.Profile.Name}}</div>
        <div>{{.Profile.Email}}</div>
        {{if .Profile.Phone}}<div>{{.Profile.Phone}}</div>{{end}}
        {{if .Profile.Address}}<div class="pre">{{.Profile.Address}}</div>{{end}}
      </div>
      <div class="meta">
        <h2>Invoice</h2>
        <div><strong>Invoice #:</strong> {{.Invoice.InvoiceNumber}}</div>
        <div><strong>Date:</strong> {{formatDate .Invoice.IssueDate}}</div>
        {{with .Invoice.DueDate}}<div><strong>Due Date:</strong> {{formatDate .}}</div>{{end}}
      </div>
    </div>

    <div class="section">
      <h3>Bill To:</h3>
      <div>{{.Invoice.Customer.Name}}</div>
      {{with .Invoice.Customer.Email}}<div>{{.}}</div>{{end}}
      {{with .Invoice.Customer.Phone}}<div>{{.}}</div>{{end}}
      {{with .Invoice.Customer.Address}}<div class="pre">{{.}}</div>{{end}}
      {{if .Details}}
      <div class="details">
        {{range .Details}}<p><strong>{{.Key}}:</strong> {{.Value}}</p>{{end}}
      </div>
      {{end}}
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Item</th>
            <th class="num">{{.QuantityLabel}}</th>
            <th class="num">Unit Price</th>
            <th class="num">Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Invoice.Items}}
          <tr>
            <td>{{.Name}}</td>
            <td class="num">{{formatQuantity .Quantity}}</td>
            <td class="num">{{formatMoney .UnitPrice}}</td>
            <td class="num">{{formatMoney .Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>

    <div class="totals">
      <div><span>Subtotal:</span><span>{{formatMoney .Invoice.Subtotal}}</span></div>
      {{if gt .Invoice.Tax 0.0}}<div><span>Tax ({{formatQuantity .Invoice.Tax}}%):</span><span>{{formatMoney .Invoice.TaxAmount}}</span></div>{{end}}
      {{if gt .Invoice.Discount 0.0}}<div><span>Discount ({{formatQuantity .Invoice.Discount}}%):</span><span>{{formatDeduction .Invoice.DiscountAmount}}</span></div>{{end}}
      <div class="grand"><span>Total:</span><span>{{formatMoney .Invoice.Total}}</span></div>
    </div>

    {{if .Invoice.Notes}}
    <div class="section">
      <h3>Notes:</h3>
      <p class="pre">{{.Invoice.Notes}}</p>
    </div>
    {{end}}
  </div>
</body>
</html>
`

// detailLine is one labelled line of the billing details block.
type detailLine struct {
	Key   string
	Value string
}

type htmlView struct {
	RenderInput
	Logo          template.URL
	Details       []detailLine
	QuantityLabel string
}

// HTMLRenderer renders a printable invoice with html/template.
type HTMLRenderer struct {
	tpl *template.Template
}

// NewHTMLRenderer creates a renderer that prints amounts in the given currency.
func NewHTMLRenderer(currency money.Currency) *HTMLRenderer {
	funcs := template.FuncMap{
		"formatMoney":     currency.Format,
		"formatDeduction": currency.Deduction,
		"formatDate":      formatDate,
		"formatQuantity":  formatQuantity,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

// RenderHTML implements Renderer.
func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	view := htmlView{
		RenderInput:   input,
		Logo:          logoURL(input.Profile.Logo),
		Details:       detailLines(input.Invoice.BillingDetails),
		QuantityLabel: "Quantity",
	}
	if g, ok := input.Invoice.BillingDetails.(*models.GroceryDetails); ok && g.IsWeightBased {
		view.QuantityLabel = "Weight"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("export.RenderHTML: %w", err)
	}
	return buf.String(), nil
}

func detailLines(details models.BillingDetails) []detailLine {
	switch d := details.(type) {
	case *models.HotelDetails:
		lines := []detailLine{
			{"Room", d.RoomNumber},
			{"Check-in", formatDate(d.CheckIn)},
			{"Check-out", formatDate(d.CheckOut)},
			{"Nights", strconv.Itoa(d.Nights)},
		}
		if len(d.Services) > 0 {
			lines = append(lines, detailLine{"Services", strings.Join(d.Services, ", ")})
		}
		return lines
	case *models.GroceryDetails:
		if d.IsWeightBased {
			return []detailLine{{"Type", "Weight-based billing"}}
		}
		return []detailLine{{"Type", "Unit-based billing"}}
	case *models.CustomDetails:
		var lines []detailLine
		for _, f := range d.CustomFields {
			if f.Key != "" {
				lines = append(lines, detailLine{f.Key, f.Value})
			}
		}
		return lines
	}
	return nil
}

// logoURL passes image data URLs through unescaped; anything else is dropped.
func logoURL(logo string) template.URL {
	if strings.HasPrefix(logo, "data:image/") {
		return template.URL(logo)
	}
	return ""
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

func formatQuantity(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}
