package asm

import "fmt"

const quadDigits = "abcd"

const (
	addrDigits = 4
	wordDigits = 5
)

// FormatAddr renders a non-negative value as 4 base-4 letter digits,
// most significant first.
func FormatAddr(n int) string {
	if n < 0 {
		n = 0
	}
	return formatBase4(n, addrDigits)
}

// FormatWord renders the low 10 bits of a word as 5 base-4 letter
// digits.
func FormatWord(w Word) string {
	return formatBase4(int(w&wordMask), wordDigits)
}

func formatBase4(v, width int) string {
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = quadDigits[v%4]
		v /= 4
	}
	return string(out)
}

// ParseAddr converts a base-4 letter numeral back to its value.
func ParseAddr(s string) (int, error) {
	v := 0
	for i := 0; i < len(s); i++ {
		d := s[i] - 'a'
		if d > 3 {
			return 0, fmt.Errorf("'%c' is not a base-4 digit", s[i])
		}
		v = v*4 + int(d)
	}
	return v, nil
}
