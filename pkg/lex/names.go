package lex

// MaxLabelLen is the longest legal identifier.
const MaxLabelLen = 30

var reservedWords = map[string]bool{
	"mov": true, "cmp": true, "add": true, "sub": true,
	"lea": true, "clr": true, "not": true, "inc": true,
	"dec": true, "jmp": true, "bne": true, "jsr": true,
	"red": true, "prn": true, "rts": true, "stop": true,
	"mcro": true, "mcroend": true,
	"data": true, "string": true, "mat": true,
	"extern": true, "entry": true,
}

// IsReserved reports whether name is an opcode mnemonic, a macro
// keyword, or a directive name (without the leading dot).
func IsReserved(name string) bool {
	return reservedWords[name]
}

// IsRegister reports whether name is exactly one of r0..r7.
func IsRegister(name string) bool {
	_, ok := RegisterIndex(name)
	return ok
}

// RegisterIndex returns the register number of r0..r7.
func RegisterIndex(name string) (int, bool) {
	if len(name) != 2 || name[0] != 'r' || name[1] < '0' || name[1] > '7' {
		return 0, false
	}
	return int(name[1] - '0'), true
}

// IsIdentifier reports whether name obeys the label grammar: a leading
// letter, letters and digits only, and at most MaxLabelLen characters.
// Reserved words and register names are checked separately.
func IsIdentifier(name string) bool {
	if name == "" || len(name) > MaxLabelLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
