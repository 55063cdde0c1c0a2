package common

import "xuc/report"

// Symbol represents a semantic symbol: a named type, value, or function.  Every
// symbol is stamped with the path of the block it is declared in exactly once:
// when it is inserted into a scope.
type Symbol interface {
	// Name returns the name of the symbol.
	Name() string

	// Type returns the type of the symbol.  The base type has no type and
	// querying it is an internal error.
	Type() *TypeSymbol

	// BlockPath returns the path of the block the symbol is declared in.
	BlockPath() string

	// SetBlockPath stamps the symbol with the path of its declaring block.
	SetBlockPath(path string)

	// Key returns the unique key of the symbol used as an operand in
	// three-address code: `name@blockpath`.
	Key() string
}

// symbolBase is the common base of all symbols.
type symbolBase struct {
	name      string
	blockPath string
	stamped   bool
}

func (sb *symbolBase) Name() string {
	return sb.name
}

func (sb *symbolBase) BlockPath() string {
	return sb.blockPath
}

func (sb *symbolBase) SetBlockPath(path string) {
	if sb.stamped {
		report.ReportICE("symbol `%s` already declared in block `%s`", sb.name, sb.blockPath)
	}

	sb.blockPath = path
	sb.stamped = true
}

func (sb *symbolBase) Key() string {
	return sb.name + "@" + sb.blockPath
}

// -----------------------------------------------------------------------------

// Enumeration of type symbol kinds.
const (
	TypeKindBase = iota
	TypeKindBuiltin
	TypeKindStruct
	TypeKindClass
	TypeKindFunction
)

// TypeSymbol is a symbol naming a type.
type TypeSymbol struct {
	symbolBase

	// The kind of the type: one of the enumerated type kinds.
	Kind int

	typ *TypeSymbol
}

func (ts *TypeSymbol) Type() *TypeSymbol {
	if ts.typ == nil {
		report.ReportICE("cannot query the type of the base type `%s`", ts.name)
	}

	return ts.typ
}

// ObjectSymbol is a symbol naming a value.
type ObjectSymbol struct {
	symbolBase

	typ *TypeSymbol
}

// NewObjectSymbol creates a new object symbol of the given type.
func NewObjectSymbol(name string, typ *TypeSymbol) *ObjectSymbol {
	return &ObjectSymbol{symbolBase: symbolBase{name: name}, typ: typ}
}

func (obj *ObjectSymbol) Type() *TypeSymbol {
	return obj.typ
}

// FunctionSymbol is a symbol naming a function.  Its type is always the
// function meta-type.
type FunctionSymbol struct {
	symbolBase

	typ *TypeSymbol

	// The declared return type of the function.
	ReturnType *TypeSymbol
}

func (fs *FunctionSymbol) Type() *TypeSymbol {
	return fs.typ
}

// -----------------------------------------------------------------------------

// The names of the builtin types.
const (
	BaseTypeName     = "__Base"
	StructTypeName   = "Struct"
	ClassTypeName    = "Class"
	FunctionTypeName = "Function"

	VoidTypeName   = "Void"
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	StringTypeName = "String"
)

// Universe is the set of builtin type symbols of a single analysis run.  The
// symbols are created per run since they are stamped when they are declared.
type Universe struct {
	// The root of the type hierarchy: its type is undefined.
	Base *TypeSymbol

	// The meta-types of user-defined types and functions.
	Struct, Class, Function *TypeSymbol

	// The primitive types declared in every root scope.
	Void, Int, Float, String *TypeSymbol
}

// NewUniverse creates a fresh set of builtin type symbols.
func NewUniverse() *Universe {
	base := &TypeSymbol{symbolBase: symbolBase{name: BaseTypeName}, Kind: TypeKindBase}

	newBuiltin := func(name string, kind int) *TypeSymbol {
		return &TypeSymbol{symbolBase: symbolBase{name: name}, Kind: kind, typ: base}
	}

	return &Universe{
		Base:     base,
		Struct:   newBuiltin(StructTypeName, TypeKindStruct),
		Class:    newBuiltin(ClassTypeName, TypeKindClass),
		Function: newBuiltin(FunctionTypeName, TypeKindFunction),
		Void:     newBuiltin(VoidTypeName, TypeKindBuiltin),
		Int:      newBuiltin(IntTypeName, TypeKindBuiltin),
		Float:    newBuiltin(FloatTypeName, TypeKindBuiltin),
		String:   newBuiltin(StringTypeName, TypeKindBuiltin),
	}
}

// Primitives returns the builtin types declared in every root scope.
func (u *Universe) Primitives() []*TypeSymbol {
	return []*TypeSymbol{u.Void, u.Int, u.Float, u.String}
}

// NewFunctionSymbol creates a new function symbol with the given return type.
func (u *Universe) NewFunctionSymbol(name string, returnType *TypeSymbol) *FunctionSymbol {
	return &FunctionSymbol{
		symbolBase: symbolBase{name: name},
		typ:        u.Function,
		ReturnType: returnType,
	}
}
