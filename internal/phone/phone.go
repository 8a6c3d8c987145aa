// Package phone converts Indonesian phone numbers between the local storage
// format (leading 0) and the international gateway format (62 prefix).
package phone

import "strings"

// digits strips every non-digit rune from s.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// International converts a phone number to international format with the 62
// country-code prefix: "081234567890" becomes "6281234567890". Inputs already
// in international form (with or without a leading +) pass through unchanged.
func International(number string) string {
	d := digits(number)
	if d == "" {
		return number
	}
	switch {
	case strings.HasPrefix(d, "62"):
		return d
	case strings.HasPrefix(d, "0"):
		return "62" + d[1:]
	default:
		return "62" + d
	}
}

// Local converts a phone number to local format with a leading 0:
// "6281234567890" becomes "081234567890".
func Local(number string) string {
	d := digits(number)
	if d == "" {
		return number
	}
	switch {
	case strings.HasPrefix(d, "62"):
		return "0" + d[2:]
	case strings.HasPrefix(d, "0"):
		return d
	default:
		return "0" + d
	}
}

// ChatID converts a phone number to the WhatsApp chat identifier used by the
// gateway: international format with an "@c.us" suffix.
func ChatID(number string) string {
	return International(number) + "@c.us"
}

// FromChatID extracts the bare phone number from a WhatsApp chat identifier.
func FromChatID(chatID string) string {
	return strings.TrimSuffix(chatID, "@c.us")
}
