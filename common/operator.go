package common

import "xuc/report"

// OpKind identifies an operator.  Every operator is stateless: its kind alone
// determines its canonical name, which doubles as the opcode mnemonic of the
// three-address code evaluating it.
type OpKind int

// The enumeration of operator kinds.
const (
	// Binary arithmetic and bitwise operators.
	OpPlus OpKind = iota
	OpMinus
	OpMul
	OpDiv
	OpMod
	OpBitXor
	OpBitOr
	OpBitAnd
	OpShiftL
	OpShiftR

	// Assignment and compound assignment operators.
	OpAssign
	OpSelfPlus
	OpSelfMinus
	OpSelfMul
	OpSelfDiv
	OpSelfMod
	OpSelfBitXor
	OpSelfBitOr
	OpSelfBitAnd
	OpSelfShiftL
	OpSelfShiftR

	// Logical and comparison operators.
	OpOr
	OpAnd
	OpEq
	OpNe
	OpLe
	OpGe
	OpLt
	OpGt

	// Unary operators.
	OpBitNot
	OpNot
	OpPositive
	OpNegative
	OpDeref
	OpRef

	// Variadic operators.
	OpCall
	OpSubscript

	opKindCount
)

// Enumeration of operator classes.
const (
	OpClassBinary = iota
	OpClassAssign
	OpClassLogic
	OpClassUnary
	OpClassVariadic
)

// operatorInfo is a single entry of the operator catalog.
type operatorInfo struct {
	name      string
	className string
	class     int
}

// opCatalog is the table of all operators indexed by kind.  The class names
// are the names the parser uses for the operator nodes.
var opCatalog = [opKindCount]operatorInfo{
	OpPlus:   {"__plus__", "OpPlus", OpClassBinary},
	OpMinus:  {"__minus__", "OpMinus", OpClassBinary},
	OpMul:    {"__mul__", "OpMul", OpClassBinary},
	OpDiv:    {"__div__", "OpDiv", OpClassBinary},
	OpMod:    {"__mod__", "OpMod", OpClassBinary},
	OpBitXor: {"__bit_xor__", "OpBitXor", OpClassBinary},
	OpBitOr:  {"__bit_or__", "OpBitOr", OpClassBinary},
	OpBitAnd: {"__bit_and__", "OpBitAnd", OpClassBinary},
	OpShiftL: {"__shift_left__", "OpShiftL", OpClassBinary},
	OpShiftR: {"__shift_right__", "OpShiftR", OpClassBinary},

	OpAssign:     {"__assign__", "OpAssign", OpClassAssign},
	OpSelfPlus:   {"__self_plus__", "OpSelfPlus", OpClassAssign},
	OpSelfMinus:  {"__self_minus__", "OpSelfMinus", OpClassAssign},
	OpSelfMul:    {"__self_mul__", "OpSelfMul", OpClassAssign},
	OpSelfDiv:    {"__self_div__", "OpSelfDiv", OpClassAssign},
	OpSelfMod:    {"__self_mod__", "OpSelfMod", OpClassAssign},
	OpSelfBitXor: {"__self_bit_xor__", "OpSelfBitXor", OpClassAssign},
	OpSelfBitOr:  {"__self_bit_or__", "OpSelfBitOr", OpClassAssign},
	OpSelfBitAnd: {"__self_bit_and__", "OpSelfBitAnd", OpClassAssign},
	OpSelfShiftL: {"__self_shift_left__", "OpSelfShiftL", OpClassAssign},
	OpSelfShiftR: {"__self_shift_right__", "OpSelfShiftR", OpClassAssign},

	OpOr:  {"__or__", "OpOr", OpClassLogic},
	OpAnd: {"__and__", "OpAnd", OpClassLogic},
	OpEq:  {"__eq__", "OpEq", OpClassLogic},
	OpNe:  {"__ne__", "OpNe", OpClassLogic},
	OpLe:  {"__le__", "OpLe", OpClassLogic},
	OpGe:  {"__ge__", "OpGe", OpClassLogic},
	OpLt:  {"__lt__", "OpLt", OpClassLogic},
	OpGt:  {"__gt__", "OpGt", OpClassLogic},

	OpBitNot:   {"__bit_not__", "OpBitNot", OpClassUnary},
	OpNot:      {"__not__", "OpNot", OpClassUnary},
	OpPositive: {"__positive__", "OpPositive", OpClassUnary},
	OpNegative: {"__negative__", "OpNegative", OpClassUnary},
	OpDeref:    {"__deref__", "OpDeref", OpClassUnary},
	OpRef:      {"__ref__", "OpRef", OpClassUnary},

	OpCall:      {"__call__", "CallOperator", OpClassVariadic},
	OpSubscript: {"__subscript__", "SubscriptOperator", OpClassVariadic},
}

// Name returns the canonical name of the operator.
func (k OpKind) Name() string {
	if k < 0 || k >= opKindCount {
		return "__unknown__"
	}

	return opCatalog[k].name
}

// Class returns the operator class of the operator.
func (k OpKind) Class() int {
	if k < 0 || k >= opKindCount {
		report.ReportICE("operator kind %d has no class", int(k))
	}

	return opCatalog[k].class
}

// IsShortCircuit returns whether the operator is `or` or `and`.
func (k OpKind) IsShortCircuit() bool {
	return k == OpOr || k == OpAnd
}

func (k OpKind) String() string {
	return k.Name()
}

// opKindsByName maps both canonical names and class names to operator kinds.
var opKindsByName map[string]OpKind

func init() {
	opKindsByName = make(map[string]OpKind, 2*int(opKindCount))

	for kind, info := range opCatalog {
		opKindsByName[info.name] = OpKind(kind)
		opKindsByName[info.className] = OpKind(kind)
	}
}

// OpKindByName looks up an operator by either its canonical name (eg.
// `__plus__`) or its node class name (eg. `OpPlus`).
func OpKindByName(name string) (OpKind, bool) {
	kind, ok := opKindsByName[name]
	return kind, ok
}
