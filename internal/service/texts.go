package service

import (
	"fmt"
	"strings"
)

// Guest-facing WhatsApp texts. The hotel serves Indonesian guests; texts stay
// in Indonesian regardless of deployment locale.

func welcomeText(guestName string) string {
	return fmt.Sprintf(
		"Halo %s! \U0001F44B\n\n"+
			"Selamat datang kembali! Kami siap membantu Anda.\n\n"+
			"Pilih Salah 1 Kategori dibawah:\n"+
			"1. General Information\n"+
			"2. Room Service\n"+
			"3. Customer Service\n\n"+
			"Silahkan kirim 1, 2, atau 3 untuk memilih kategori yang Anda inginkan.\n"+
			"Ketik `/end` untuk mengakhiri percakapan.\n\n"+
			"Terima kasih! \U0001F3E8",
		guestName,
	)
}

func confirmationText(category string) string {
	words := strings.Split(strings.ReplaceAll(category, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	title := strings.Join(words, " ")
	return fmt.Sprintf(
		"Terima kasih! \U0001F64F\n\n"+
			"Anda telah memilih kategori: %s\n\n"+
			"Kami siap membantu Anda. Silakan kirim pesan Anda dan "+
			"tim kami akan segera merespons.\n\n"+
			"Ketik `/end` kapan saja untuk mengakhiri percakapan.",
		title,
	)
}

const goodbyeText = "Terima kasih telah menghubungi kami! \U0001F44B\n\n" +
	"Sesi percakapan telah berakhir.\n" +
	"Silakan kirim pesan baru jika Anda membutuhkan bantuan lagi.\n\n" +
	"Sampai jumpa! \U0001F3E8"

const reminderText = "Mohon pilih kategori dengan mengirim:\n" +
	"1. General Information\n" +
	"2. Room Service\n" +
	"3. Customer Service\n\n" +
	"Silakan kirim 1, 2, atau 3."

const agentErrorText = "Maaf, terjadi kesalahan saat memproses permintaan Anda. \U0001F614\n\n" +
	"Silakan coba lagi dengan mengirim nomor kategori (1, 2, atau 3)."

const waitText = "Terima kasih atas pesan Anda. \U0001F64F\n\n" +
	"Tim kami akan segera merespons pertanyaan Anda. " +
	"Mohon menunggu sebentar.\n\n" +
	"Waktu respon normal: 5-10 menit"
