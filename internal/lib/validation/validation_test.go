package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "no uppercase", input: "abc12345", want: false},
		{name: "valid", input: "Abc12345", want: true},
		{name: "no digit", input: "Abcdefgh", want: false},
		{name: "no lowercase", input: "ABC12345", want: false},
		{name: "too short", input: "Ab1", want: false},
		{name: "exactly eight", input: "Passw0rd", want: true},
		{name: "empty", input: "", want: false},
		{name: "specials allowed", input: "P@ssw0rd!", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Password(tt.input))
		})
	}
}

func TestWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "dashed pakistani number", input: "0300-1234567", want: true},
		{name: "international with plus", input: "+92-300-1234567", want: true},
		{name: "plain ten digits", input: "0300123456", want: true},
		{name: "thirteen digits", input: "9230012345678", want: true},
		{name: "nine digits", input: "030012345", want: false},
		{name: "fourteen digits", input: "92300123456789", want: false},
		{name: "letters only", input: "not-a-number", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WhatsAppNumber(tt.input))
		})
	}
}

func TestPriceAndDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "positive", input: "500", want: true},
		{name: "one", input: "1", want: true},
		{name: "zero", input: "0", want: false},
		{name: "negative", input: "-5", want: false},
		{name: "not a number", input: "five", want: false},
		{name: "float", input: "4.5", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.input))
			assert.Equal(t, tt.want, Duration(tt.input))
		})
	}
}

func TestDevices(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "one", input: "1", want: true},
		{name: "five", input: "5", want: true},
		{name: "zero", input: "0", want: false},
		{name: "six", input: "6", want: false},
		{name: "negative", input: "-1", want: false},
		{name: "not a number", input: "two", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Devices(tt.input))
		})
	}
}
