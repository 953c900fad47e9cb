package pix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"bare mobile gains +55", "11999998888", "+5511999998888"},
		{"mobile with spaces", " 11 99999 8888 ", "+5511999998888"},
		{"55-prefixed gains plus", "5511999998888", "+5511999998888"},
		{"55-prefixed landline length", "551133334444", "+551133334444"},
		{"cpf passes through", "12345678901", "12345678901"},
		{"cpf with implausible area code", "09987654321", "09987654321"},
		{"cnpj passes through", "12345678000190", "12345678000190"},
		{"email passes through", "fulano@example.com", "fulano@example.com"},
		{"random key passes through", "123e4567-e89b-12d3-a456-426614174000", "123e4567-e89b-12d3-a456-426614174000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.key))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"drops diacritics", "João dá Silva", 25, "JOAO DA SILVA"},
		{"drops punctuation", "Ltda. & Cia!", 25, "LTDA  CIA"},
		{"truncates", "ABCDEFGHIJ", 5, "ABCDE"},
		{"cedilla", "São João Açaí", 25, "SAO JOAO ACAI"},
		{"already clean", "SAO PAULO", 15, "SAO PAULO"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input, tt.maxLen))
		})
	}
}

func TestDetectKeyType(t *testing.T) {
	tests := []struct {
		key  string
		want KeyType
	}{
		// Phone-likeness wins the CPF tie by classification order
		{"11999998888", KeyTypePhone},
		{"+5511999998888", KeyTypePhone},
		{"5511999998888", KeyTypePhone},
		// 11 digits without the mobile shape falls back to CPF
		{"12345678901", KeyTypeCPF},
		{"09912345678", KeyTypeCPF},
		{"12345678000190", KeyTypeCNPJ},
		{"fulano@example.com", KeyTypeEmail},
		{"123e4567-e89b-12d3-a456-426614174000", KeyTypeRandom},
		{"abc", KeyTypeUnknown},
		{"", KeyTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKeyType(tt.key))
		})
	}
}

func TestFormatForDisplay(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"11999998888", "+55 (11) 99999-8888"},
		{"551133334444", "+55 (11) 3333-4444"},
		{"12345678901", "123.456.789-01"},
		{"12345678000190", "12.345.678/0001-90"},
		{"fulano@example.com", "fulano@example.com"},
		{"123e4567-e89b-12d3-a456-426614174000", "123e4567-e89b-12d3-a456-426614174000"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForDisplay(tt.key))
		})
	}
}
