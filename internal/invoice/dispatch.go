package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// Notifier delivers invoice events to an external channel (email, SMS,
// webhook). Delivery is best-effort: a failed notification never rolls
// back the payment.
type Notifier interface {
	InvoicePaid(ctx context.Context, invoice *domain.Invoice) error
}

// Renderer turns an invoice into a downloadable document. Binary
// formats (PDF, xlsx) plug in from outside the module.
type Renderer interface {
	Render(invoice *domain.Invoice) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type nopNotifier struct{}

func (nopNotifier) InvoicePaid(context.Context, *domain.Invoice) error { return nil }

// TextRenderer produces a plain-text receipt.
type TextRenderer struct{}

func (TextRenderer) Render(inv *domain.Invoice) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "RECEIPT %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "Entry:    %s\n", inv.EntryTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Exit:     %s\n", inv.ExitTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration: %.2f h\n", inv.DurationHours)
	fmt.Fprintf(&b, "Amount:   %s\n", inv.Amount.String())
	fmt.Fprintf(&b, "Status:   %s\n", inv.Status)
	if inv.PaymentMethod != "" {
		fmt.Fprintf(&b, "Paid via: %s\n", inv.PaymentMethod)
	}
	return []byte(b.String()), nil
}

func (TextRenderer) ContentType() string   { return "text/plain; charset=utf-8" }
func (TextRenderer) FileExtension() string { return "txt" }
