package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates an outbound or inbound message body.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > 65536 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidatePhone validates a guest phone number. Separators are accepted;
// the number itself must be 8 to 15 digits.
func ValidatePhone(phoneNumber string) error {
	if phoneNumber == "" {
		return errors.New("phone number cannot be empty")
	}
	digits := 0
	for _, r := range phoneNumber {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return errors.New("phone number contains invalid characters")
		}
	}
	if digits < 8 || digits > 15 {
		return errors.New("phone number must have 8 to 15 digits")
	}
	return nil
}

// ValidateRoomNumber validates a hotel room number.
func ValidateRoomNumber(roomNumber string) error {
	if roomNumber == "" {
		return errors.New("room number cannot be empty")
	}
	if len(roomNumber) > 16 {
		return errors.New("room number exceeds maximum length")
	}
	return nil
}

// ValidateName validates a guest name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > 256 {
		return errors.New("name exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New("name must be valid UTF-8")
	}
	return nil
}
