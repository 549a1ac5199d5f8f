// Package invoice renders an order's price breakdown. Renderers take an
// io.Writer so the same bytes can be delivered to durable storage and an
// outbound response at once (io.MultiWriter at the call site). Checking
// that the requester is the purchaser is the caller's job.
package invoice

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/petrin/storefront/internal/order"
)

// FileName is the stored name for an order's invoice document.
func FileName(orderID string) string {
	return fmt.Sprintf("invoice-%s.pdf", orderID)
}

// WriteText emits the invoice line by line, never holding the whole
// document in memory.
func WriteText(w io.Writer, o *order.Order) error {
	if _, err := fmt.Fprintf(w, "Invoice\n--------------\n"); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := fmt.Fprintf(w, "%s x %d = $%s\n", it.Title, it.Quantity, it.Subtotal()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "-------\nTotal Price: $%s\n", o.Total())
	return err
}

// WritePDF emits the same breakdown as a PDF document.
func WritePDF(w io.Writer, o *order.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "BU", 26)
	pdf.CellFormat(0, 14, "Invoice", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "--------------", "", 1, "L", false, 0, "")
	for _, it := range o.Items {
		line := fmt.Sprintf("%s x %d = $%s", it.Title, it.Quantity, it.Subtotal())
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, "-------", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, fmt.Sprintf("Total Price: $%s", o.Total()), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
