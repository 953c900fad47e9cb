package pix

import (
	"regexp"
	"strings"
)

// KeyType classifies a PIX key by its shape
type KeyType string

const (
	KeyTypePhone   KeyType = "PHONE"
	KeyTypeCPF     KeyType = "CPF"
	KeyTypeCNPJ    KeyType = "CNPJ"
	KeyTypeEmail   KeyType = "EMAIL"
	KeyTypeRandom  KeyType = "RANDOM"
	KeyTypeUnknown KeyType = "UNKNOWN"
)

// String returns the string representation of KeyType
func (k KeyType) String() string {
	return string(k)
}

var (
	cpfPattern  = regexp.MustCompile(`^\d{11}$`)
	cnpjPattern = regexp.MustCompile(`^\d{14}$`)
	uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// DetectKeyType classifies a PIX key heuristically. An 11-digit numeric key is
// ambiguous between a CPF and a bare mobile number; phone-likeness (plausible
// area code, 9 as third digit) wins the tie. This is a heuristic, not a
// guarantee: a CPF such as 11987654321 classifies as a phone.
func DetectKeyType(key string) KeyType {
	key = strings.Join(strings.Fields(key), "")
	digits := strings.TrimPrefix(key, "+")

	switch {
	case looksLikeMobile(key):
		return KeyTypePhone
	case ccPhonePattern.MatchString(digits):
		return KeyTypePhone
	case cpfPattern.MatchString(key):
		return KeyTypeCPF
	case cnpjPattern.MatchString(key):
		return KeyTypeCNPJ
	case strings.Contains(key, "@"):
		return KeyTypeEmail
	case uuidPattern.MatchString(key):
		return KeyTypeRandom
	default:
		return KeyTypeUnknown
	}
}

// FormatForDisplay renders a PIX key for human consumption according to its
// detected type
func FormatForDisplay(key string) string {
	key = strings.Join(strings.Fields(key), "")
	switch DetectKeyType(key) {
	case KeyTypePhone:
		normalized := NormalizeKey(key)
		digits := strings.TrimPrefix(normalized, "+55")
		if len(digits) == 11 {
			return "+55 (" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
		}
		if len(digits) == 10 {
			return "+55 (" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
		}
		return normalized
	case KeyTypeCPF:
		return key[:3] + "." + key[3:6] + "." + key[6:9] + "-" + key[9:]
	case KeyTypeCNPJ:
		return key[:2] + "." + key[2:5] + "." + key[5:8] + "/" + key[8:12] + "-" + key[12:]
	default:
		return key
	}
}
