package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternational(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"081234567890", "6281234567890"},
		{"6281234567890", "6281234567890"},
		{"+6281234567890", "6281234567890"},
		{"0812-3456-7890", "6281234567890"},
		{"812 3456 7890", "6281234567890"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, International(tt.in), "International(%q)", tt.in)
	}
}

func TestLocal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"6281234567890", "081234567890"},
		{"081234567890", "081234567890"},
		{"+6281234567890", "081234567890"},
		{"81234567890", "081234567890"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Local(tt.in), "Local(%q)", tt.in)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{"081234567890", "6281234567890", "+62811111", "0811"}
	for _, in := range inputs {
		assert.Equal(t, Local(in), Local(International(in)), "local round trip for %q", in)
		assert.Equal(t, International(in), International(Local(in)), "international round trip for %q", in)
	}
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "6281234567890@c.us", ChatID("081234567890"))
	assert.Equal(t, "6281234567890", FromChatID("6281234567890@c.us"))
	assert.Equal(t, "6281234567890", FromChatID("6281234567890"))
}
