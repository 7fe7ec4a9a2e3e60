// Package instruction implements the COIL instruction codec: opcode
// encode/decode and the fixed category/operation mnemonic tables.
package instruction

// Category is the instruction's top-level grouping, carried in the top
// three bits of the opcode byte.
type Category byte

const (
	CatCF    Category = 0x00
	CatMEM   Category = 0x20
	CatMATH  Category = 0x40
	CatBIT   Category = 0x60
	CatVEC   Category = 0x80
	CatATM   Category = 0xA0
	CatVAR   Category = 0xC0
	CatFRAME Category = 0xE0
)

const categoryMask = 0xE0
const operationMask = 0x1F

var categoryNames = map[Category]string{
	CatCF: "CF", CatMEM: "MEM", CatMATH: "MATH", CatBIT: "BIT",
	CatVEC: "VEC", CatATM: "ATM", CatVAR: "VAR", CatFRAME: "FRAME",
}

var categoryByName = map[string]Category{
	"CF": CatCF, "MEM": CatMEM, "MATH": CatMATH, "BIT": CatBIT,
	"VEC": CatVEC, "ATM": CatATM, "VAR": CatVAR, "FRAME": CatFRAME,
}

// CategoryName returns the mnemonic for a category, or "UNKNOWN".
func CategoryName(c Category) string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// CategoryByName looks up a category by its mnemonic.
func CategoryByName(name string) (Category, bool) {
	c, ok := categoryByName[name]
	return c, ok
}

// Operation is the five-bit operation code within a category.
type Operation byte

// Control flow operations.
const (
	CF_BR Operation = iota
	CF_BRC
	CF_CALL
	CF_RET
	CF_INT
	CF_IRET
	CF_HLT
	CF_SYSC
	CF_TRAP
	CF_WFE
	CF_SEV
	CF_FENCE
	CF_YIELD
	CF_SWITCH
	CF_NOP
)

// Memory operations.
const (
	MEM_MOV Operation = iota
	MEM_PUSH
	MEM_POP
	MEM_LOAD
	MEM_STORE
	MEM_PREFETCH
	MEM_EXCHANGE
	MEM_COMPARE
	MEM_TEST
	MEM_FILL
	MEM_COPY
	MEM_ZERO
	MEM_PUSH_STATE
	MEM_POP_STATE
	MEM_OUT
	MEM_IN
)

// Arithmetic operations.
const (
	MATH_ADD Operation = iota
	MATH_SUB
	MATH_MUL
	MATH_DIV
	MATH_MOD
	MATH_NEG
	MATH_INC
	MATH_DEC
	MATH_ABS
	MATH_SQRT
	MATH_MIN
	MATH_MAX
	MATH_FMA
	MATH_ROUND
	MATH_FLOOR
	MATH_CEIL
	MATH_TRUNC
)

// Bit manipulation operations.
const (
	BIT_AND Operation = iota
	BIT_OR
	BIT_XOR
	BIT_NOT
	BIT_ANDN
	BIT_ORN
	BIT_XNOR
	BIT_SHL
	BIT_SHR
	BIT_SAR
	BIT_ROL
	BIT_ROR
	BIT_RCL
	BIT_RCR
	BIT_BSWAP
	BIT_BITREV
	BIT_CLZ
	BIT_CTZ
	BIT_POPCNT
	BIT_PARITY
	BIT_EXTRACT
	BIT_INSERT
	BIT_SET
	BIT_CLR
	BIT_TST
	BIT_TGL
	BIT_CMP
)

// Vector operations. Neither spec.md nor the reference implementation
// enumerates a full vector opcode table; this is the minimal set a
// SIMD-oriented category needs, numbered in the same bits-4-0 space as
// the other categories.
const (
	VEC_ADD Operation = iota
	VEC_SUB
	VEC_MUL
	VEC_DIV
	VEC_LOAD
	VEC_STORE
	VEC_SPLAT
	VEC_DOT
	VEC_SHUFFLE
	VEC_EXTRACT
	VEC_INSERT
)

// Atomic operations, same grounding note as vector operations above.
const (
	ATM_LOAD Operation = iota
	ATM_STORE
	ATM_ADD
	ATM_SUB
	ATM_AND
	ATM_OR
	ATM_XOR
	ATM_EXCHANGE
	ATM_CAS
	ATM_FENCE
)

// Variable management operations.
const (
	VAR_DECL Operation = iota
	VAR_PMT
	VAR_DMT
	VAR_DLT
	VAR_ALIAS
)

// Frame management operations.
const (
	FRAME_ENTER Operation = iota
	FRAME_LEAVE
	FRAME_SAVE
	FRAME_REST
)

var cfNames = map[Operation]string{
	CF_BR: "BR", CF_BRC: "BRC", CF_CALL: "CALL", CF_RET: "RET", CF_INT: "INT",
	CF_IRET: "IRET", CF_HLT: "HLT", CF_SYSC: "SYSC", CF_TRAP: "TRAP",
	CF_WFE: "WFE", CF_SEV: "SEV", CF_FENCE: "FENCE", CF_YIELD: "YIELD",
	CF_SWITCH: "SWITCH", CF_NOP: "NOP",
}

var memNames = map[Operation]string{
	MEM_MOV: "MOV", MEM_PUSH: "PUSH", MEM_POP: "POP", MEM_LOAD: "LOAD",
	MEM_STORE: "STORE", MEM_PREFETCH: "PREFETCH", MEM_EXCHANGE: "EXCHANGE",
	MEM_COMPARE: "COMPARE", MEM_TEST: "TEST", MEM_FILL: "FILL", MEM_COPY: "COPY",
	MEM_ZERO: "ZERO", MEM_PUSH_STATE: "PUSH_STATE", MEM_POP_STATE: "POP_STATE",
	MEM_OUT: "OUT", MEM_IN: "IN",
}

var mathNames = map[Operation]string{
	MATH_ADD: "ADD", MATH_SUB: "SUB", MATH_MUL: "MUL", MATH_DIV: "DIV",
	MATH_MOD: "MOD", MATH_NEG: "NEG", MATH_INC: "INC", MATH_DEC: "DEC",
	MATH_ABS: "ABS", MATH_SQRT: "SQRT", MATH_MIN: "MIN", MATH_MAX: "MAX",
	MATH_FMA: "FMA", MATH_ROUND: "ROUND", MATH_FLOOR: "FLOOR", MATH_CEIL: "CEIL",
	MATH_TRUNC: "TRUNC",
}

var bitNames = map[Operation]string{
	BIT_AND: "AND", BIT_OR: "OR", BIT_XOR: "XOR", BIT_NOT: "NOT",
	BIT_ANDN: "ANDN", BIT_ORN: "ORN", BIT_XNOR: "XNOR", BIT_SHL: "SHL",
	BIT_SHR: "SHR", BIT_SAR: "SAR", BIT_ROL: "ROL", BIT_ROR: "ROR",
	BIT_RCL: "RCL", BIT_RCR: "RCR", BIT_BSWAP: "BSWAP", BIT_BITREV: "BITREV",
	BIT_CLZ: "CLZ", BIT_CTZ: "CTZ", BIT_POPCNT: "POPCNT", BIT_PARITY: "PARITY",
	BIT_EXTRACT: "EXTRACT", BIT_INSERT: "INSERT", BIT_SET: "SET", BIT_CLR: "CLR",
	BIT_TST: "TST", BIT_TGL: "TGL", BIT_CMP: "CMP",
}

var vecNames = map[Operation]string{
	VEC_ADD: "ADD", VEC_SUB: "SUB", VEC_MUL: "MUL", VEC_DIV: "DIV",
	VEC_LOAD: "LOAD", VEC_STORE: "STORE", VEC_SPLAT: "SPLAT", VEC_DOT: "DOT",
	VEC_SHUFFLE: "SHUFFLE", VEC_EXTRACT: "EXTRACT", VEC_INSERT: "INSERT",
}

var atmNames = map[Operation]string{
	ATM_LOAD: "LOAD", ATM_STORE: "STORE", ATM_ADD: "ADD", ATM_SUB: "SUB",
	ATM_AND: "AND", ATM_OR: "OR", ATM_XOR: "XOR", ATM_EXCHANGE: "EXCHANGE",
	ATM_CAS: "CAS", ATM_FENCE: "FENCE",
}

var varNames = map[Operation]string{
	VAR_DECL: "DECL", VAR_PMT: "PMT", VAR_DMT: "DMT", VAR_DLT: "DLT", VAR_ALIAS: "ALIAS",
}

var frameNames = map[Operation]string{
	FRAME_ENTER: "ENTER", FRAME_LEAVE: "LEAVE", FRAME_SAVE: "SAVE", FRAME_REST: "REST",
}

var operationTables = map[Category]map[Operation]string{
	CatCF: cfNames, CatMEM: memNames, CatMATH: mathNames, CatBIT: bitNames,
	CatVEC: vecNames, CatATM: atmNames, CatVAR: varNames, CatFRAME: frameNames,
}

// OperationName returns the mnemonic for an operation within a category,
// or "UNKNOWN" if the pair is not recognized.
func OperationName(c Category, op Operation) string {
	if table, ok := operationTables[c]; ok {
		if name, ok := table[op]; ok {
			return name
		}
	}
	return "UNKNOWN"
}

// OperationByName resolves a category+operation mnemonic pair to an
// Operation code.
func OperationByName(c Category, name string) (Operation, bool) {
	table, ok := operationTables[c]
	if !ok {
		return 0, false
	}
	for op, n := range table {
		if n == name {
			return op, true
		}
	}
	return 0, false
}
