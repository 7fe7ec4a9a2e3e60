// Package ir holds the in-memory module representation the parser
// builds and the COF writer consumes: Module, Function, AbiDefinition,
// Section, Symbol, and RelocationEntry.
package ir

// BasicType enumerates the scalar and compound types a variable
// declaration can name.
type BasicType uint16

const (
	TypeVoid BasicType = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeInt128
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUint128
	TypeFP16
	TypeFP32
	TypeFP64
	TypeFP80
	TypeFP128
	TypePtr BasicType = 0x0010
)

const (
	TypeVec128 BasicType = 0x0020 + iota
	TypeVec256
	TypeVec512
)

var basicTypeNames = map[string]BasicType{
	"void": TypeVoid, "int8": TypeInt8, "int16": TypeInt16, "int32": TypeInt32,
	"int64": TypeInt64, "int128": TypeInt128, "uint8": TypeUint8, "uint16": TypeUint16,
	"uint32": TypeUint32, "uint64": TypeUint64, "uint128": TypeUint128,
	"fp16": TypeFP16, "fp32": TypeFP32, "fp64": TypeFP64, "fp80": TypeFP80, "fp128": TypeFP128,
}

// BasicTypeByName resolves a bare (non ptr/vec) type-specifier name.
func BasicTypeByName(name string) (BasicType, bool) {
	t, ok := basicTypeNames[name]
	return t, ok
}

// SectionType classifies a Section's contents.
type SectionType uint32

const (
	SectionNull SectionType = iota
	SectionCode
	SectionData
	SectionBss
	SectionReadonly
	SectionConfig
	SectionSymbol
	SectionString
	SectionReloc
	SectionDebug
	SectionTarget
	SectionAbi
	SectionComment
	SectionNote
	SectionVariable
	SectionTypeInfo
)

// SectionFlags is a bitset of section attributes.
type SectionFlags uint32

const (
	SectionFlagNone       SectionFlags = 0
	SectionFlagWrite      SectionFlags = 1 << 0
	SectionFlagExec       SectionFlags = 1 << 1
	SectionFlagAlloc      SectionFlags = 1 << 2
	SectionFlagLoad       SectionFlags = 1 << 3
	SectionFlagTLS        SectionFlags = 1 << 4
	SectionFlagMerge      SectionFlags = 1 << 5
	SectionFlagStrings    SectionFlags = 1 << 6
	SectionFlagGroup      SectionFlags = 1 << 7
	SectionFlagCompressed SectionFlags = 1 << 8
	SectionFlagEncrypted  SectionFlags = 1 << 9
)

// SymbolType classifies what a Symbol names.
type SymbolType uint16

const (
	SymbolNone SymbolType = iota
	SymbolFunction
	SymbolData
	SymbolSection
	SymbolFile
	SymbolCommon
	SymbolTLS
	SymbolVariable
	SymbolTarget
)

// SymbolFlags is a bitset of symbol attributes.
type SymbolFlags uint16

const (
	SymbolFlagNone        SymbolFlags = 0
	SymbolFlagGlobal      SymbolFlags = 1 << 0
	SymbolFlagLocal       SymbolFlags = 1 << 1
	SymbolFlagWeak        SymbolFlags = 1 << 2
	SymbolFlagHidden      SymbolFlags = 1 << 3
	SymbolFlagProtected   SymbolFlags = 1 << 4
	SymbolFlagUndefined   SymbolFlags = 1 << 5
	SymbolFlagExported    SymbolFlags = 1 << 6
	SymbolFlagEntry       SymbolFlags = 1 << 7
	SymbolFlagConstructor SymbolFlags = 1 << 8
	SymbolFlagDestructor  SymbolFlags = 1 << 9
)

// Has reports whether all bits of other are set in f.
func (f SymbolFlags) Has(other SymbolFlags) bool {
	return f&other == other
}

// ArchType identifies a target's instruction-set architecture.
type ArchType uint8

const (
	ArchX86 ArchType = iota
	ArchX86_64
	ArchARM
	ArchARM64
	ArchRISCV32
	ArchRISCV64
	ArchPowerPC
	ArchPowerPC64
	ArchMIPS
	ArchMIPS64
	ArchSPARC
	ArchSPARC64
	ArchWASM
)

var archNames = map[string]ArchType{
	"x86": ArchX86, "x86-64": ArchX86_64, "arm": ArchARM, "arm64": ArchARM64,
	"riscv32": ArchRISCV32, "riscv64": ArchRISCV64, "powerpc": ArchPowerPC,
	"powerpc64": ArchPowerPC64, "mips": ArchMIPS, "mips64": ArchMIPS64,
	"sparc": ArchSPARC, "sparc64": ArchSPARC64, "wasm": ArchWASM,
}

// ArchByName resolves a CLI/target name (e.g. "x86-64") to an ArchType.
func ArchByName(name string) (ArchType, bool) {
	a, ok := archNames[name]
	return a, ok
}
