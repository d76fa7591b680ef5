package payment

import (
	"strings"

	"lezat-lumer/internal/notify"
	"lezat-lumer/internal/order"
)

var InstructionMap = map[order.Method][]string{
	order.MethodCash: {
		"Pesanan akan diantar ke alamat yang Anda isi",
		"Siapkan uang tunai sebesar {{amount}} saat pesanan tiba",
		"Pastikan nominal pembayaran sesuai dengan total pesanan",
		"Lakukan pembayaran langsung kepada kurir",
	},

	order.MethodTransfer: {
		"Transfer sebesar {{amount}} ke rekening {{bank}} {{account}} a/n {{holder}}",
		"Screenshot/foto bukti transfer dari m-banking/ATM",
		"Kirim foto bukti transfer melalui chat WhatsApp",
		"Admin akan memverifikasi pembayaran dan memproses pesanan Anda",
	},
}

// proofSteps are shown in the overlay after a transfer order has been handed off.
var proofSteps = []string{
	"Transfer sesuai total pembayaran ke rekening {{bank}} yang tertera di chat WhatsApp",
	"Screenshot/foto bukti transfer dari m-banking/ATM",
	"Kirim foto bukti transfer melalui chat WhatsApp: klik tombol 📎 (attachment), pilih Gallery/Photo, lalu kirim foto bukti transfer",
	"Admin akan memverifikasi pembayaran dan memproses pesanan Anda",
}

const (
	overlayTitle       = "Langkah Selanjutnya"
	overlayAcknowledge = "Mengerti, Saya Akan Mengirim Bukti Transfer!"
)

func GetInstructions(method order.Method) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Silakan pilih metode pembayaran",
	}
}

type InstructionVars map[string]string

// NewInstructionVars fills the placeholders used by the instruction templates.
func NewInstructionVars(total int64, bank order.Bank) InstructionVars {
	return InstructionVars{
		"amount":  order.FormatRupiah(total),
		"bank":    bank.Name,
		"account": bank.Account,
		"holder":  bank.Holder,
	}
}

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// TransferOverlay is the proof-of-transfer reminder.
func TransferOverlay(vars InstructionVars) notify.Overlay {
	return notify.Overlay{
		Title:       overlayTitle,
		Steps:       InjectVariables(proofSteps, vars),
		Acknowledge: overlayAcknowledge,
	}
}
