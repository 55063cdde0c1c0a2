package walk

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"xuc/ast"
	"xuc/common"
	"xuc/report"
	"xuc/tac"
)

func name(id string) *ast.Name {
	return &ast.Name{ID: id}
}

func intLit(val string) *ast.Literal {
	return &ast.Literal{Value: val, Type: ast.LiteralInt}
}

func strLit(val string) *ast.Literal {
	return &ast.Literal{Value: val, Type: ast.LiteralString}
}

func oper(kind common.OpKind) *ast.Oper {
	return &ast.Oper{Kind: kind}
}

func create(id string, init ast.Expr) *ast.ObjCreate {
	return &ast.ObjCreate{ID: id, Init: init}
}

func block(stmts ...ast.Stmt) *ast.Block {
	return &ast.Block{Statements: stmts}
}

func exprStmt(expr ast.Expr) *ast.ExprStatement {
	return &ast.ExprStatement{Expr: expr}
}

func module(stmts ...ast.Stmt) *ast.Module {
	return &ast.Module{Filename: "test.xu", Objs: stmts}
}

func function(id string, ret ast.Expr, params []ast.TypeArg, body ...ast.Stmt) *ast.Function {
	return &ast.Function{
		ID:   id,
		Args: &ast.CallOperator{Unnamed: []ast.Expr{ret}, TypeArgs: params},
		Body: block(body...),
	}
}

func code(id, op, left, right, res string) tac.Code {
	return tac.Code{ID: id, Op: op, Left: left, Right: right, Res: res}
}

// walkOK walks a module which must check and produce a complete stream.
func walkOK(t *testing.T, mod *ast.Module) *Result {
	t.Helper()

	res, err := NewWalker(report.Discard()).WalkModule(mod)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := tac.Validate(res.Codes); err != nil {
		t.Fatalf("invalid stream: %s", err)
	}

	for _, c := range res.Codes {
		if c.Res == tac.Unresolved {
			t.Fatalf("unresolved code %s", c.ID)
		}
	}

	return res
}

// walkErr walks a module which must fail with an error mentioning msg.
func walkErr(t *testing.T, mod *ast.Module, msg string) {
	t.Helper()

	res, err := NewWalker(report.Discard()).WalkModule(mod)
	if err == nil {
		t.Fatalf("expected an error mentioning %q", msg)
	}

	if res != nil {
		t.Error("failed analysis returned a result")
	}

	var lce *report.LocalCompileError
	if !errors.As(err, &lce) {
		t.Fatalf("error is %T, not a compile error", err)
	}

	if !strings.Contains(lce.Message, msg) {
		t.Errorf("error %q does not mention %q", lce.Message, msg)
	}
}

func expectCodes(t *testing.T, got []tac.Code, want []tac.Code) {
	t.Helper()

	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("codes differ:\n%s\ngot:\n%s", strings.Join(diff, "\n"), pretty.Sprint(got))
	}
}

// findLoc returns the id of the n-th location marker with the given label.
func findLoc(t *testing.T, codes []tac.Code, label string, n int) string {
	t.Helper()

	for _, c := range codes {
		if c.Op == tac.OpLoc && c.Res == label {
			if n == 0 {
				return c.ID
			}
			n--
		}
	}

	t.Fatalf("no location `%s`", label)
	return ""
}

// -----------------------------------------------------------------------------

func TestCreateAtModuleScope(t *testing.T) {
	res := walkOK(t, module(create("x", intLit("5"))))

	expectCodes(t, res.Codes, []tac.Code{
		code("#1", tac.OpBeginModule, "", "", "test.xu"),
		code("#2", tac.OpLiteral, "5", "Int", "$1"),
		code("#3", tac.OpCreate, "$1", "", "x@."),
		code("#4", tac.OpEndModule, "", "", "test.xu"),
	})

	want := []SymbolEntry{
		{"Void", common.BaseTypeName, "."},
		{"Int", common.BaseTypeName, "."},
		{"Float", common.BaseTypeName, "."},
		{"String", common.BaseTypeName, "."},
		{"x", "Int", "."},
	}

	if diff := pretty.Diff(res.Symbols, want); len(diff) > 0 {
		t.Errorf("symbols differ:\n%s", strings.Join(diff, "\n"))
	}

	if res.Module != "test.xu" || res.Program().Module != "test.xu" {
		t.Errorf("module name = %q", res.Module)
	}
}

func TestIfElse(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		&ast.If{
			Test:   name("a"),
			Body:   block(create("b", intLit("2"))),
			OrElse: block(create("c", intLit("3"))),
		},
	))

	expectCodes(t, res.Codes, []tac.Code{
		code("#1", tac.OpBeginModule, "", "", "test.xu"),
		code("#2", tac.OpLiteral, "1", "Int", "$1"),
		code("#3", tac.OpCreate, "$1", "", "a@."),
		code("#4", tac.OpLoad, "a@.", "", "$2"),
		code("#5", tac.OpJumpFalse, "$2", "", "#10"),
		code("#6", tac.OpLoc, "", "", "then"),
		code("#7", tac.OpLiteral, "2", "Int", ".1$1"),
		code("#8", tac.OpCreate, ".1$1", "", "b@.1"),
		code("#9", tac.OpJump, "", "", "#14"),
		code("#10", tac.OpLoc, "", "", "else"),
		code("#11", tac.OpLiteral, "3", "Int", ".2$1"),
		code("#12", tac.OpCreate, ".2$1", "", "c@.2"),
		code("#13", tac.OpJump, "", "", "#14"),
		code("#14", tac.OpLoc, "", "", "endif"),
		code("#15", tac.OpEndModule, "", "", "test.xu"),
	})
}

func TestElseIfChain(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		&ast.If{
			Test: name("a"),
			Body: block(),
			OrElse: &ast.If{
				Test:   name("a"),
				Body:   block(),
				OrElse: block(),
			},
		},
	))

	outerEnd := findLoc(t, res.Codes, "endif", 1)
	innerEnd := findLoc(t, res.Codes, "endif", 0)

	// The jump closing the outer body skips the whole chain.
	if res.Codes[6].Op != tac.OpJump || res.Codes[6].Res != outerEnd {
		t.Errorf("outer body jump = %v, want target %s", res.Codes[6], outerEnd)
	}

	if innerEnd == outerEnd {
		t.Error("inner and outer if share an end label")
	}
}

func TestMalformedIfChain(t *testing.T) {
	walkErr(t, module(
		create("a", intLit("1")),
		&ast.If{Test: name("a"), Body: block(), OrElse: exprStmt(name("a"))},
	), "malformed if/else chain")
}

func TestWhileBreak(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		&ast.While{Test: name("a"), Body: block(&ast.Break{})},
	))

	expectCodes(t, res.Codes, []tac.Code{
		code("#1", tac.OpBeginModule, "", "", "test.xu"),
		code("#2", tac.OpLiteral, "1", "Int", "$1"),
		code("#3", tac.OpCreate, "$1", "", "a@."),
		code("#4", tac.OpJump, "", "", "#9"),
		code("#5", tac.OpLoc, "", "", "do"),
		code("#6", tac.OpJump, "", "", "#14"),
		code("#7", tac.OpLoc, "", "", "break"),
		code("#8", tac.OpJump, "", "", "#9"),
		code("#9", tac.OpLoc, "", "", "test"),
		code("#10", tac.OpLoad, "a@.", "", "$2"),
		code("#11", tac.OpJumpTrue, "$2", "", "#5"),
		code("#12", tac.OpLoc, "", "", "else"),
		code("#13", tac.OpJump, "", "", "#14"),
		code("#14", tac.OpLoc, "", "", "endwhile"),
		code("#15", tac.OpEndModule, "", "", "test.xu"),
	})
}

func TestContinueTargetsTest(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		&ast.While{Test: name("a"), Body: block(&ast.If{Test: name("a"), Body: block(&ast.Continue{})})},
	))

	test := findLoc(t, res.Codes, "test", 0)
	for i, c := range res.Codes {
		if c.Op == tac.OpLoc && c.Res == "continue" && res.Codes[i-1].Res != test {
			t.Errorf("continue jumps to %s, want %s", res.Codes[i-1].Res, test)
		}
	}
}

func TestNestedLoops(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		&ast.While{
			Test: name("a"),
			Body: block(
				&ast.Break{},
				&ast.While{Test: name("a"), Body: block(&ast.Break{})},
				&ast.Continue{},
			),
		},
	))

	innerEnd := findLoc(t, res.Codes, "endwhile", 0)
	outerEnd := findLoc(t, res.Codes, "endwhile", 1)
	outerTest := findLoc(t, res.Codes, "test", 1)

	var targets []string
	for i, c := range res.Codes {
		if c.Op == tac.OpLoc && (c.Res == "break" || c.Res == "continue") {
			targets = append(targets, res.Codes[i-1].Res)
		}
	}

	want := []string{outerEnd, innerEnd, outerTest}
	if diff := pretty.Diff(targets, want); len(diff) > 0 {
		t.Errorf("jump targets differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestBreakInLoopElseBelongsToEnclosingLoop(t *testing.T) {
	walkErr(t, module(
		create("a", intLit("1")),
		&ast.While{Test: name("a"), Body: block(), OrElse: block(&ast.Break{})},
	), "control flow statement not allowed here")
}

func TestControlFlowOutsideConsumer(t *testing.T) {
	tests := []struct {
		name string
		mod  *ast.Module
	}{
		{"break in module", module(&ast.Break{})},
		{"continue in block", module(block(&ast.Continue{}))},
		{"return in module", module(&ast.Return{})},
		{"break in function", module(function("f", name("Void"), nil, &ast.Break{}))},
		{
			"break in function in loop",
			module(
				create("a", intLit("1")),
				&ast.While{Test: name("a"), Body: block(function("f", name("Void"), nil, block(&ast.Break{})))},
			),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			walkErr(t, test.mod, "control flow statement not allowed here")
		})
	}
}

func TestShortCircuit(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		create("r", &ast.LogicExpr{Left: name("a"), Op: oper(common.OpOr), Right: name("a")}),
	))

	expectCodes(t, res.Codes[3:13], []tac.Code{
		code("#4", tac.OpLoad, "a@.", "", "$2"),
		code("#5", tac.OpJumpFalse, "$2", "", "#9"),
		code("#6", tac.OpLoc, "", "", "logic_lt"),
		code("#7", tac.OpCopyTmp, "$2", "", "$3"),
		code("#8", tac.OpJump, "", "", "#12"),
		code("#9", tac.OpLoc, "", "", "logic_rt"),
		code("#10", tac.OpLoad, "a@.", "", "$4"),
		code("#11", tac.OpCopyTmp, "$4", "", "$3"),
		code("#12", tac.OpLoc, "", "", "logic_ed"),
		code("#13", tac.OpCreate, "$3", "", "r@."),
	})

	and := walkOK(t, module(
		create("a", intLit("1")),
		exprStmt(&ast.LogicExpr{Left: name("a"), Op: oper(common.OpAnd), Right: name("a")}),
	))

	if op := and.Codes[4].Op; op != tac.OpJumpTrue {
		t.Errorf("`and` jumps with %s, want %s", op, tac.OpJumpTrue)
	}
}

func TestShortCircuitTypeMismatch(t *testing.T) {
	for _, kind := range []common.OpKind{common.OpOr, common.OpAnd} {
		walkErr(t, module(
			create("a", intLit("1")),
			create("s", strLit("x")),
			exprStmt(&ast.LogicExpr{Left: name("a"), Op: oper(kind), Right: name("s")}),
		), "must have the same type")
	}
}

func TestComparison(t *testing.T) {
	res := walkOK(t, module(create("c", &ast.LogicExpr{Left: intLit("1"), Op: oper(common.OpLt), Right: intLit("2")})))

	expectCodes(t, res.Codes[1:5], []tac.Code{
		code("#2", tac.OpLiteral, "1", "Int", "$1"),
		code("#3", tac.OpLiteral, "2", "Int", "$2"),
		code("#4", "__lt__", "$1", "$2", "$3"),
		code("#5", tac.OpCreate, "$3", "", "c@."),
	})

	walkErr(t, module(exprStmt(&ast.LogicExpr{Left: intLit("1"), Op: oper(common.OpEq), Right: strLit("a")})), "must be `Int`")
}

func TestBinaryOp(t *testing.T) {
	res := walkOK(t, module(create("x", &ast.BinaryOpExpr{Left: intLit("1"), Op: oper(common.OpPlus), Right: intLit("2")})))

	if c := res.Codes[3]; c.Op != "__plus__" || c.Left != "$1" || c.Right != "$2" {
		t.Errorf("addition = %v", c)
	}

	walkErr(t, module(exprStmt(&ast.BinaryOpExpr{Left: intLit("1"), Op: oper(common.OpMul), Right: strLit("a")})), "must be `Int`")
	walkErr(t, module(exprStmt(&ast.BinaryOpExpr{Left: intLit("1"), Op: oper(common.OpEq), Right: intLit("2")})), "not a binary operator")
}

func TestAssign(t *testing.T) {
	res := walkOK(t, module(
		create("x", intLit("1")),
		exprStmt(&ast.AssignOpExpr{Left: name("x"), Op: oper(common.OpAssign), Right: intLit("2")}),
		exprStmt(&ast.AssignOpExpr{Left: name("x"), Op: oper(common.OpSelfShiftL), Right: intLit("3")}),
	))

	expectCodes(t, res.Codes[3:7], []tac.Code{
		code("#4", tac.OpLiteral, "2", "Int", "$2"),
		code("#5", tac.OpStore, "$2", "", "x@."),
		code("#6", tac.OpLiteral, "3", "Int", "$4"),
		code("#7", "__self_shift_left__", "x@.", "$4", "x@."),
	})
}

func TestAssignErrors(t *testing.T) {
	tests := []struct {
		name string
		aop  *ast.AssignOpExpr
		msg  string
	}{
		{"type mismatch", &ast.AssignOpExpr{Left: name("x"), Op: oper(common.OpAssign), Right: strLit("s")}, "cannot assign a value of type `String`"},
		{"compound on string", &ast.AssignOpExpr{Left: name("s"), Op: oper(common.OpSelfPlus), Right: intLit("1")}, "must be `Int`"},
		{"assign to type", &ast.AssignOpExpr{Left: name("Int"), Op: oper(common.OpAssign), Right: intLit("1")}, "cannot assign to this expression"},
		{"assign to literal", &ast.AssignOpExpr{Left: intLit("1"), Op: oper(common.OpAssign), Right: intLit("1")}, "cannot assign to this expression"},
		{"assign a type", &ast.AssignOpExpr{Left: name("x"), Op: oper(common.OpAssign), Right: name("Int")}, "`Int` is a type"},
		{"not an assignment", &ast.AssignOpExpr{Left: name("x"), Op: oper(common.OpPlus), Right: intLit("1")}, "not an assignment operator"},
		{"undefined target", &ast.AssignOpExpr{Left: name("y"), Op: oper(common.OpAssign), Right: intLit("1")}, "undefined symbol: `y`"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			walkErr(t, module(create("x", intLit("1")), create("s", strLit("s")), exprStmt(test.aop)), test.msg)
		})
	}
}

func TestUndefinedSymbol(t *testing.T) {
	walkErr(t, module(create("x", intLit("1")), create("z", name("y"))), "undefined symbol: `y`")
}

func TestCreateFromType(t *testing.T) {
	walkErr(t, module(create("x", name("Int"))), "expected a value but `Int` is a type")
}

func TestShadowing(t *testing.T) {
	res := walkOK(t, module(
		create("x", intLit("1")),
		block(create("x", strLit("s")), create("y", name("x"))),
		create("z", name("x")),
	))

	types := make(map[string]string)
	for _, sym := range res.Symbols {
		types[sym.Name+"@"+sym.Block] = sym.Type
	}

	want := map[string]string{"x@.": "Int", "x@.1": "String", "y@.1": "String", "z@.": "Int"}
	for key, typ := range want {
		if types[key] != typ {
			t.Errorf("type of %s = %q, want %q", key, types[key], typ)
		}
	}
}

func TestRedeclarationOverwrites(t *testing.T) {
	res := walkOK(t, module(create("x", intLit("1")), create("x", strLit("s")), create("y", name("x"))))

	last := res.Symbols[len(res.Symbols)-1]
	if last.Name != "y" || last.Type != "String" {
		t.Errorf("y = %+v, want a String", last)
	}
}

func TestFunction(t *testing.T) {
	res := walkOK(t, module(
		function("f", name("Int"), []ast.TypeArg{{Name: "n", Type: name("Int")}}, &ast.Return{Expr: name("n")}),
	))

	expectCodes(t, res.Codes, []tac.Code{
		code("#1", tac.OpBeginModule, "", "", "test.xu"),
		code("#2", tac.OpBeginFunc, "", "", "f@."),
		code("#3", tac.OpType, "Int@.", "", "$1"),
		code("#4", tac.OpType, "Int@.", "", ".1$1"),
		code("#5", tac.OpArg, "", "Int@.", "n@.1"),
		code("#6", tac.OpBeginFuncBody, "", "", "f@."),
		code("#7", tac.OpLoad, "n@.1", "", ".1$2"),
		code("#8", tac.OpRet, ".1$2", "", "#9"),
		code("#9", tac.OpEndFunc, "", "", "f@."),
		code("#10", tac.OpEndModule, "", "", "test.xu"),
	})

	f := res.Symbols[4]
	if f.Name != "f" || f.Type != common.FunctionTypeName || f.Block != "." {
		t.Errorf("function symbol = %+v", f)
	}
}

func TestReturnInsideLoopResolvesToFunctionEnd(t *testing.T) {
	res := walkOK(t, module(
		create("a", intLit("1")),
		function("f", name("Void"), nil,
			&ast.While{Test: name("a"), Body: block(&ast.Return{}, &ast.Break{})},
			&ast.Return{},
		),
		create("g", name("f")),
	))

	var end string
	for _, c := range res.Codes {
		if c.Op == tac.OpEndFunc {
			end = c.ID
		}
	}

	for _, c := range res.Codes {
		if c.Op == tac.OpRet && c.Res != end {
			t.Errorf("return %s jumps to %s, want %s", c.ID, c.Res, end)
		}
	}
}

func TestRecursiveFunction(t *testing.T) {
	walkOK(t, module(function("f", name("Int"), nil, create("g", name("f")), &ast.Return{Expr: intLit("0")})))
}

func TestFunctionErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   *ast.Function
		msg  string
	}{
		{"value from void", function("f", name("Void"), nil, &ast.Return{Expr: intLit("1")}), "cannot return a value"},
		{"missing value", function("f", name("Int"), nil, &ast.Return{}), "missing return value"},
		{"wrong type", function("f", name("Int"), nil, &ast.Return{Expr: strLit("s")}), "expected a return value of type `Int` but got `String`"},
		{"return type not a type", function("f", name("x"), nil), "return type of a function must be a type"},
		{"parameter not a type", function("f", name("Void"), []ast.TypeArg{{Name: "n", Type: name("x")}}), "type of a parameter must be a type"},
		{"no return type", &ast.Function{ID: "f", Args: &ast.CallOperator{}, Body: block()}, "exactly one unnamed argument"},
		{
			"keywords",
			&ast.Function{
				ID:   "f",
				Args: &ast.CallOperator{Unnamed: []ast.Expr{name("Void")}, Keywords: []ast.Keyword{{Name: "k", Value: intLit("1")}}},
				Body: block(),
			},
			"keyword arguments are not implemented",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			walkErr(t, module(create("x", intLit("1")), test.fn), test.msg)
		})
	}
}

func TestParameterScope(t *testing.T) {
	walkErr(t, module(
		function("f", name("Void"), []ast.TypeArg{{Name: "n", Type: name("Int")}}),
		create("m", name("n")),
	), "undefined symbol: `n`")
}

func TestNotImplemented(t *testing.T) {
	tests := []struct {
		name string
		stmt ast.Stmt
	}{
		{"raise", &ast.Raise{Error: name("x")}},
		{"try", &ast.Try{Body: block()}},
		{"assemble", &ast.Assemble{ID: "a", Body: block()}},
		{"struct", &ast.Struct{ID: "S", Body: block()}},
		{"class", &ast.Class{ID: "C", Body: block()}},
		{"import", &ast.Import{ID: "m"}},
		{"unary", exprStmt(&ast.UnaryOpExpr{Op: oper(common.OpNegative), Right: name("x")})},
		{"if-else expression", exprStmt(&ast.IfElseExpr{Left: name("x"), Test: name("x"), Right: name("x")})},
		{"call", exprStmt(&ast.CallExpr{Obj: name("x"), Op: &ast.CallOperator{}})},
		{"subscript", exprStmt(&ast.SubscriptExpr{Obj: name("x"), Op: &ast.SubscriptOperator{}})},
		{"qualified name", exprStmt(&ast.Name{ID: "y", Parent: name("x")})},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			walkErr(t, module(create("x", intLit("1")), test.stmt), "is not implemented")
		})
	}
}

func TestErrorCarriesSpan(t *testing.T) {
	mod, err := ast.Decode([]byte(`{
		"class": "Module",
		"filename": "span.xu",
		"objs": [{
			"class": "ObjCreate",
			"id": "x",
			"expr": {"class": "Name", "id": "y", "span": [2, 5, 2, 6]}
		}]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewWalker(report.Discard()).WalkModule(mod)

	var lce *report.LocalCompileError
	if !errors.As(err, &lce) {
		t.Fatalf("error = %v", err)
	}

	if lce.Span == nil || lce.Span.StartLine != 2 || lce.Span.StartCol != 5 {
		t.Errorf("span = %+v", lce.Span)
	}

	if got := lce.Error(); got != "3:6: undefined symbol: `y`" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWalkerIsReusable(t *testing.T) {
	w := NewWalker(report.Discard())

	if _, err := w.WalkModule(module(&ast.Break{})); err == nil {
		t.Fatal("expected an error")
	}

	res, err := w.WalkModule(module(create("x", intLit("5"))))
	if err != nil {
		t.Fatal(err)
	}

	if res.Codes[1].Res != "$1" || len(res.Codes) != 4 {
		t.Errorf("state leaked between modules: %s", pretty.Sprint(res.Codes))
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer

	w := NewWalker(report.NewReporter(&buf, report.LogLevelDebug))
	if _, err := w.WalkModule(module(create("a", intLit("1")), &ast.If{Test: name("a"), Body: block()})); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "checking if-stmt") {
		t.Errorf("trace missing if-stmt:\n%s", buf.String())
	}
}
