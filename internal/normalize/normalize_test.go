package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "test2@example.com"},
		{"TEST3@EXAMPLE.COM", "test3@example.com"},
		{"  test4@example.COM ", "test4@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestEmail_UnicodeComposition(t *testing.T) {
	composed := "joão@example.com"
	decomposed := "joão@example.com"
	assert.Equal(t, Email(composed), Email(decomposed))
}

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vegano", "Vegano"},
		{"  Arroz   com\tfeijão ", "Arroz com feijão"},
		{"Camarão", "Camarão"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}
