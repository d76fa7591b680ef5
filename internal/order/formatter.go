// Package order turns a confirmed cart into the order transcript sent to the store
// over WhatsApp.
package order

import (
	"fmt"
	"net/url"
	"strings"
)

const separator = "━━━━━━━━━━━━━━━━\n"

// Format builds the transcript and its percent-encoded form. It has no side effects.
func Format(o Order) Message {
	text := Transcript(o)
	return Message{Text: text, Encoded: Encode(text)}
}

func Transcript(o Order) string {
	var b strings.Builder
	c := o.Customer

	fmt.Fprintf(&b, "*PESANAN BARU - %s*\n\n", o.Store)

	b.WriteString("*Data Customer:*\n")
	fmt.Fprintf(&b, "• Nama: %s\n", c.Name)
	fmt.Fprintf(&b, "• No. Telepon: %s\n", c.Phone)
	fmt.Fprintf(&b, "• Alamat: %s\n\n", c.Address)

	fmt.Fprintf(&b, "*Metode Pembayaran:* %s\n\n", o.Method.Label())

	if o.Method == MethodTransfer {
		b.WriteString("*Info Transfer Pengirim:*\n")
		fmt.Fprintf(&b, "• Bank: %s\n", c.SenderBank)
		fmt.Fprintf(&b, "• No. Rekening: %s\n", c.SenderAccount)
		fmt.Fprintf(&b, "• Atas Nama: %s\n\n", c.Name)
	}

	b.WriteString("*Detail Pesanan:*\n")
	b.WriteString(separator)

	for i, it := range o.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		if it.VariantText != "" {
			fmt.Fprintf(&b, "   %s\n", it.VariantText)
		}
		fmt.Fprintf(&b, "   %dx %s = %s\n\n", it.Quantity, FormatRupiah(it.UnitPrice), FormatRupiah(it.LineTotal()))
	}

	b.WriteString(separator)
	fmt.Fprintf(&b, "*TOTAL PEMBAYARAN: %s*\n\n", FormatRupiah(o.Total()))

	if o.Method == MethodTransfer {
		d := o.Destination
		b.WriteString("*Rekening Tujuan Transfer:*\n")
		fmt.Fprintf(&b, "Bank: %s\n", d.Name)
		fmt.Fprintf(&b, "No. Rek: %s\n", d.Account)
		fmt.Fprintf(&b, "A/n: %s\n\n", d.Holder)
		b.WriteString(separator)
		b.WriteString("*KIRIM BUKTI TRANSFER*\n")
		b.WriteString("Mohon kirim foto/screenshot bukti transfer Anda melalui chat ini.\n\n")
		b.WriteString("Terima kasih! ")
	}

	return b.String()
}

// Encode percent-encodes every reserved character so text can be used as a query
// parameter value. Spaces become %20.
func Encode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
