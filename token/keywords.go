package token

// categoryMnemonics are the eight instruction category keywords (spec.md
// §4.1 step 3).
var categoryMnemonics = map[string]bool{
	"CF":    true,
	"MEM":   true,
	"MATH":  true,
	"BIT":   true,
	"VEC":   true,
	"ATM":   true,
	"VAR":   true,
	"FRAME": true,
}

// directiveKeywords are the directive keywords recognized after
// classification fails the category test (spec.md §4.1 step 4).
var directiveKeywords = map[string]bool{
	"DIR":       true,
	"SECT":      true,
	"LABEL":     true,
	"HINT":      true,
	"FUNC":      true,
	"ENDFUNC":   true,
	"GLOBAL":    true,
	"LOCAL":     true,
	"WEAK":      true,
	"ALIGN":     true,
	"ABI":       true,
	"TARGET":    true,
	"CONFIG":    true,
	"INST":      true,
	"ZERO":      true,
	"ASCII":     true,
	"UNICODE":   true,
	"PADD":      true,
	"INCLUDE":   true,
	"MACRO":     true,
	"ENDM":      true,
	"STRUCT":    true,
	"ENDSTRUCT": true,
	"CONST":     true,
}

// specialRegisters maps the literal special-register names to their
// virtual register ids (spec.md §3).
var specialRegisters = map[string]byte{
	"PC":    0x30,
	"SP":    0x31,
	"FP":    0x32,
	"FLAGS": 0x33,
	"LR":    0x34,
}

// IsCategory reports whether text is one of the eight category mnemonics.
func IsCategory(text string) bool {
	return categoryMnemonics[text]
}

// IsDirective reports whether text is a recognized directive keyword.
func IsDirective(text string) bool {
	return directiveKeywords[text]
}
