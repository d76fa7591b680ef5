package order

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders whole rupiah the way id-ID currency formatting does,
// e.g. 25000 -> "Rp\u00a025.000".
func FormatRupiah(amount int64) string {
	if amount < 0 {
		return "-Rp\u00a0" + idPrinter.Sprintf("%d", -amount)
	}
	return "Rp\u00a0" + idPrinter.Sprintf("%d", amount)
}
