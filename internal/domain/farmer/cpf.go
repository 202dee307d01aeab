package farmer

import (
	"fmt"
	"strings"
)

const cpfLen = 11

// CPF is a normalized, checksum-valid tax identifier. The zero value is not
// a valid CPF; use NewCPF.
type CPF struct {
	digits string
}

// NewCPF normalizes raw and validates the result.
func NewCPF(raw string) (CPF, error) {
	digits := NormalizeCPF(raw)
	if !IsValidCPF(digits) {
		return CPF{}, fmt.Errorf("%w: %q", ErrInvalidCPF, raw)
	}

	return CPF{digits: digits}, nil
}

// NormalizeCPF strips every non-digit character.
func NormalizeCPF(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// IsValidCPF reports whether digits is an 11-digit CPF with both check digits correct.
func IsValidCPF(digits string) bool {
	if len(digits) != cpfLen {
		return false
	}
	for i := 0; i < cpfLen; i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	if strings.Count(digits, digits[:1]) == cpfLen {
		return false
	}

	if checkDigit(digits[:9], 10) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits[:10], 11) == int(digits[10]-'0')
}

func checkDigit(base string, weight int) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weight
		weight--
	}

	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func (c CPF) String() string { return c.digits }

// IsZero reports whether c was not built by NewCPF.
func (c CPF) IsZero() bool { return c.digits == "" }

// Formatted renders c as 000.000.000-00.
func (c CPF) Formatted() string {
	if c.IsZero() {
		return ""
	}
	d := c.digits
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// RestoreCPF rebuilds a CPF read back from storage. Stored values were
// validated on the way in, so a failure here means corrupted data.
func RestoreCPF(stored string) (CPF, error) {
	if !IsValidCPF(stored) {
		return CPF{}, fmt.Errorf("stored cpf %q is not valid", stored)
	}
	return CPF{digits: stored}, nil
}
