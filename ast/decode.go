package ast

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"xuc/common"
	"xuc/report"
)

// Decode reads a module from its JSON interchange form.  Every node is an
// object tagged by a `class` field.  Absent children are encoded as null or
// as the string "NULL", and any node may carry a `span` of four zero-indexed
// integers: start line, start column, end line, end column.
func Decode(data []byte) (mod *Module, err error) {
	defer func() {
		if x := recover(); x != nil {
			if de, ok := x.(decodeError); ok {
				err = de.err
				return
			}

			panic(x)
		}
	}()

	obj := decodeObject(data, "module")
	if class := obj.class(); class != "Module" {
		return nil, fmt.Errorf("expected a Module at the root but got `%s`", class)
	}

	mod = &Module{
		ASTBase:  NewASTBaseOn(obj.span()),
		Filename: obj.str("filename"),
	}

	for _, raw := range obj.list("objs") {
		mod.Objs = append(mod.Objs, decodeStmt(raw))
	}

	return mod, nil
}

// -----------------------------------------------------------------------------

// decodeError wraps an error raised while decoding.  It never escapes Decode.
type decodeError struct {
	err error
}

func fail(msg string, args ...interface{}) {
	panic(decodeError{fmt.Errorf(msg, args...)})
}

// object is a single undecoded node.
type object map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`"NULL"`))
}

// decodeObject decodes a node object.  The what describes the expected node
// for error messages.
func decodeObject(raw json.RawMessage, what string) object {
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		fail("expected %s object: %s", what, err)
	}

	return obj
}

func (obj object) class() string {
	raw, ok := obj["class"]
	if !ok {
		fail("node is missing its `class` tag")
	}

	var class string
	if err := json.Unmarshal(raw, &class); err != nil {
		fail("`class` tag must be a string: %s", err)
	}

	return class
}

func (obj object) str(field string) string {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		fail("%s is missing field `%s`", obj.class(), field)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		fail("field `%s` of %s must be a string: %s", field, obj.class(), err)
	}

	return s
}

// boolean decodes a boolean field given either as a JSON boolean or as one of
// the strings "True" and "False".  A missing field is false.
func (obj object) boolean(field string) bool {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "True", "true":
			return true
		case "False", "false":
			return false
		}
	}

	fail("field `%s` of %s must be a boolean", field, obj.class())
	return false
}

// child returns the raw child in field.  A missing child is null.
func (obj object) child(field string) json.RawMessage {
	return obj[field]
}

func (obj object) list(field string) []json.RawMessage {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		fail("field `%s` of %s must be a list: %s", field, obj.class(), err)
	}

	return items
}

func (obj object) span() *report.TextSpan {
	raw, ok := obj["span"]
	if !ok || isNull(raw) {
		return nil
	}

	var pos []int
	if err := json.Unmarshal(raw, &pos); err != nil || len(pos) != 4 {
		fail("span of %s must be a list of four integers", obj.class())
	}

	return &report.TextSpan{StartLine: pos[0], StartCol: pos[1], EndLine: pos[2], EndCol: pos[3]}
}

// -----------------------------------------------------------------------------

func decodeStmt(raw json.RawMessage) Stmt {
	obj := decodeObject(raw, "statement")
	base := stmtOn(obj.span())

	switch class := obj.class(); class {
	case "Block":
		return decodeBlockObject(obj)
	case "ExprStatement":
		return &ExprStatement{stmtBase: base, Expr: decodeExpr(obj.child("expr"))}
	case "Break":
		return &Break{stmtBase: base}
	case "Continue":
		return &Continue{stmtBase: base}
	case "Return":
		return &Return{stmtBase: base, Expr: decodeOptExpr(obj.child("expr"))}
	case "If":
		ifStmt := &If{
			stmtBase: base,
			Test:     decodeExpr(obj.child("test")),
			Body:     decodeBlock(obj.child("body")),
		}

		if raw := obj.child("orelse"); !isNull(raw) {
			ifStmt.OrElse = decodeStmt(raw)
		}

		return ifStmt
	case "While":
		return &While{
			stmtBase: base,
			Test:     decodeExpr(obj.child("test")),
			Body:     decodeBlock(obj.child("body")),
			OrElse:   decodeOptBlock(obj.child("orelse")),
		}
	case "Raise":
		return &Raise{stmtBase: base, Error: decodeExpr(obj.child("error"))}
	case "Try":
		try := &Try{
			stmtBase: base,
			Body:     decodeBlock(obj.child("body")),
			OrElse:   decodeOptBlock(obj.child("orelse")),
		}

		for _, raw := range obj.list("excepts") {
			exc := decodeObject(raw, "except clause")
			try.Excepts = append(try.Excepts, Except{
				Alias: exc.str("alias"),
				Error: decodeName(exc.child("error")),
				Body:  decodeBlock(exc.child("body")),
			})
		}

		return try
	case "ObjCreate":
		initRaw := obj.child("expr")
		if isNull(initRaw) {
			initRaw = obj.child("call_expr")
		}

		return &ObjCreate{stmtBase: base, ID: obj.str("id"), Init: decodeExpr(initRaw)}
	case "Function":
		return &Function{
			stmtBase: base,
			ID:       obj.str("id"),
			Args:     decodeCallOperator(obj.child("args")),
			Body:     decodeBlock(obj.child("body")),
		}
	case "Assemble":
		return &Assemble{
			stmtBase: base,
			ID:       obj.str("id"),
			Args:     decodeCallOperator(obj.child("args")),
			Body:     decodeBlock(obj.child("body")),
		}
	case "Struct":
		return &Struct{stmtBase: base, ID: obj.str("id"), Body: decodeBlock(obj.child("body"))}
	case "Class":
		return &Class{
			stmtBase: base,
			ID:       obj.str("id"),
			Parents:  decodeOptCallOperator(obj.child("parents")),
			Body:     decodeBlock(obj.child("body")),
		}
	case "Import":
		return &Import{
			stmtBase:   base,
			ID:         obj.str("id"),
			ModuleRoot: decodeOptCallOperator(obj.child("module_root")),
			Files:      decodeOptBlock(obj.child("files")),
		}
	default:
		fail("unknown statement class `%s`", class)
		return nil
	}
}

func decodeBlockObject(obj object) *Block {
	block := &Block{stmtBase: stmtOn(obj.span())}

	for _, raw := range obj.list("statements") {
		block.Statements = append(block.Statements, decodeStmt(raw))
	}

	return block
}

func decodeBlock(raw json.RawMessage) *Block {
	if isNull(raw) {
		fail("missing block")
	}

	obj := decodeObject(raw, "block")
	if class := obj.class(); class != "Block" {
		fail("expected a Block but got `%s`", class)
	}

	return decodeBlockObject(obj)
}

func decodeOptBlock(raw json.RawMessage) *Block {
	if isNull(raw) {
		return nil
	}

	return decodeBlock(raw)
}

// -----------------------------------------------------------------------------

func decodeExpr(raw json.RawMessage) Expr {
	if isNull(raw) {
		fail("missing expression")
	}

	obj := decodeObject(raw, "expression")
	base := exprOn(obj.span())

	switch class := obj.class(); class {
	case "Literal":
		lit := &Literal{exprBase: base, Value: obj.str("val"), Type: obj.str("type")}
		switch lit.Type {
		case LiteralInt, LiteralFloat, LiteralString:
			return lit
		default:
			fail("unknown literal type `%s`", lit.Type)
			return nil
		}
	case "Name":
		return decodeNameObject(obj)
	case "UnaryOpExpr":
		return &UnaryOpExpr{exprBase: base, Op: decodeOper(obj.child("op")), Right: decodeExpr(obj.child("right"))}
	case "BinaryOpExpr":
		return &BinaryOpExpr{
			exprBase: base,
			Left:     decodeExpr(obj.child("left")),
			Op:       decodeOper(obj.child("op")),
			Right:    decodeExpr(obj.child("right")),
		}
	case "AssignOpExpr":
		return &AssignOpExpr{
			exprBase: base,
			Left:     decodeExpr(obj.child("left")),
			Op:       decodeOper(obj.child("op")),
			Right:    decodeExpr(obj.child("right")),
		}
	case "LogicExpr":
		return &LogicExpr{
			exprBase: base,
			Left:     decodeExpr(obj.child("left")),
			Op:       decodeOper(obj.child("op")),
			Right:    decodeExpr(obj.child("right")),
		}
	case "IfElseExpr":
		return &IfElseExpr{
			exprBase: base,
			Left:     decodeExpr(obj.child("left")),
			Test:     decodeExpr(obj.child("test")),
			Right:    decodeExpr(obj.child("right")),
		}
	case "CallExpr":
		return &CallExpr{exprBase: base, Obj: decodeExpr(obj.child("obj")), Op: decodeCallOperator(obj.child("op"))}
	case "SubscriptExpr":
		return &SubscriptExpr{exprBase: base, Obj: decodeExpr(obj.child("obj")), Op: decodeSubscriptOperator(obj.child("op"))}
	default:
		fail("unknown expression class `%s`", class)
		return nil
	}
}

func decodeOptExpr(raw json.RawMessage) Expr {
	if isNull(raw) {
		return nil
	}

	return decodeExpr(raw)
}

func decodeNameObject(obj object) *Name {
	return &Name{
		exprBase: exprOn(obj.span()),
		ID:       obj.str("id"),
		Deref:    obj.boolean("deref"),
		Parent:   decodeOptExpr(obj.child("parent")),
	}
}

func decodeName(raw json.RawMessage) *Name {
	if isNull(raw) {
		fail("missing name")
	}

	obj := decodeObject(raw, "name")
	if class := obj.class(); class != "Name" {
		fail("expected a Name but got `%s`", class)
	}

	return decodeNameObject(obj)
}

// -----------------------------------------------------------------------------

// decodeOper decodes a leaf operator.  Operators are looked up by their
// canonical name, falling back to their class.
func decodeOper(raw json.RawMessage) *Oper {
	if isNull(raw) {
		fail("missing operator")
	}

	obj := decodeObject(raw, "operator")

	class := obj.class()
	if raw, ok := obj["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			if kind, ok := common.OpKindByName(name); ok {
				return &Oper{ASTBase: NewASTBaseOn(obj.span()), Kind: kind}
			}
		}
	}

	if kind, ok := common.OpKindByName(class); ok {
		return &Oper{ASTBase: NewASTBaseOn(obj.span()), Kind: kind}
	}

	fail("unknown operator `%s`", class)
	return nil
}

func decodeCallOperator(raw json.RawMessage) *CallOperator {
	if isNull(raw) {
		fail("missing call operator")
	}

	obj := decodeObject(raw, "call operator")
	if class := obj.class(); class != "CallOperator" {
		fail("expected a CallOperator but got `%s`", class)
	}

	cop := &CallOperator{ASTBase: NewASTBaseOn(obj.span())}

	for _, raw := range obj.list("unamed") {
		cop.Unnamed = append(cop.Unnamed, decodeExpr(raw))
	}

	for _, raw := range obj.list("type_args") {
		arg := decodeObject(raw, "type argument")
		cop.TypeArgs = append(cop.TypeArgs, TypeArg{Name: arg.str("id"), Type: decodeName(arg.child("type"))})
	}

	if raw, ok := obj["keywords"]; ok && !isNull(raw) {
		var keywords map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keywords); err != nil {
			fail("keywords of CallOperator must be an object: %s", err)
		}

		for name, val := range keywords {
			cop.Keywords = append(cop.Keywords, Keyword{Name: name, Value: decodeExpr(val)})
		}

		sort.Slice(cop.Keywords, func(i, j int) bool {
			return cop.Keywords[i].Name < cop.Keywords[j].Name
		})
	}

	return cop
}

func decodeOptCallOperator(raw json.RawMessage) *CallOperator {
	if isNull(raw) {
		return nil
	}

	return decodeCallOperator(raw)
}

func decodeSubscriptOperator(raw json.RawMessage) *SubscriptOperator {
	if isNull(raw) {
		fail("missing subscript operator")
	}

	obj := decodeObject(raw, "subscript operator")
	if class := obj.class(); class != "SubscriptOperator" {
		fail("expected a SubscriptOperator but got `%s`", class)
	}

	sop := &SubscriptOperator{ASTBase: NewASTBaseOn(obj.span())}

	for _, raw := range obj.list("dims") {
		dim := decodeObject(raw, "subscript dimension")
		sop.Dims = append(sop.Dims, SubscriptDim{
			Begin: decodeOptExpr(dim.child("beg")),
			End:   decodeOptExpr(dim.child("end")),
			Step:  decodeOptExpr(dim.child("step")),
		})
	}

	return sop
}
