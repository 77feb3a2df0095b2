package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func trNormalizer() PhoneNormalizer {
	return PhoneNormalizer{CountryCode: "90", TrunkPrefix: "0"}
}

func TestNormalize_LocalTrunkFormat(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "+905551234567", n.Normalize("05551234567"))
}

func TestNormalize_CountryCodeWithoutPlus(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "+905551234567", n.Normalize("905551234567"))
}

func TestNormalize_AlreadyE164(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "+905551234567", n.Normalize("+905551234567"))
}

func TestNormalize_StripsFormattingCharacters(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "+905551234567", n.Normalize("+90 (555) 123-45-67"))
	assert.Equal(t, "+905551234567", n.Normalize("0 555 123 45 67"))
}

func TestNormalize_BareNumberGetsPlus(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "+5551234567", n.Normalize("5551234567"))
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := trNormalizer()
	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize(" - "))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := trNormalizer()
	inputs := []string{
		"05551234567",
		"905551234567",
		"+905551234567",
		"5551234567",
		"+1 202 555 0173",
		"",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", in)
	}
}
