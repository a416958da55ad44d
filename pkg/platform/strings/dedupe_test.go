package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"12345678000190", " 11222333000181", "12345678000190"},
			expected: []string{"12345678000190", "11222333000181"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo"},
			expected: []string{"Foo", "foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeFold(t *testing.T) {
	result := DedupeFold([]string{"João Silva", "JOAO SILVA", " ", "Ana Souza"})
	assert.Equal(t, []string{"João Silva", "Ana Souza"}, result)
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José  da Silva-Jr.", "jose da silva jr"},
		{"  ÁLVARO Côrtes ", "alvaro cortes"},
		{"Polícia Federal: inquérito", "policia federal inquerito"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", Digits("12.345.678/0001-90"))
	assert.Equal(t, "", Digits("n/a"))
}
