// Package walk implements semantic analysis: a single recursive pass over a
// module's AST which resolves names, checks types, and emits backpatched
// three-address code.
package walk

import (
	"xuc/ast"
	"xuc/common"
	"xuc/report"
	"xuc/scope"
	"xuc/tac"
)

// Walker is responsible for walking modules and performing semantic analysis
// on their statements.  A walker analyzes one module at a time and is not
// safe for concurrent use: concurrent analyses use distinct walkers.
type Walker struct {
	// The reporter used for tracing.
	rep *report.Reporter

	// The scope tree and code stream of the module being walked.
	ctx *scope.Context

	// The control flow jumps waiting for an enclosing loop or function to
	// resolve their targets, in emission order.
	pending []pendingJump

	// The declared return type of the enclosing function.  If this is `nil`,
	// then there is no enclosing function.
	enclosingReturnType *common.TypeSymbol
}

// pendingJump is an unresolved break, continue, or return.
type pendingJump struct {
	stmt ast.Stmt
	code *tac.Code
}

// NewWalker creates a new walker tracing to rep.
func NewWalker(rep *report.Reporter) *Walker {
	return &Walker{rep: rep}
}

// SymbolEntry is a single row of a module's symbol listing.
type SymbolEntry struct {
	Name  string `json:"name" cbor:"1,keyasint"`
	Type  string `json:"type" cbor:"2,keyasint"`
	Block string `json:"block" cbor:"3,keyasint"`
}

// Result is the outcome of successfully analyzing a module.
type Result struct {
	// The file name of the module.
	Module string `json:"module" cbor:"1,keyasint"`

	// The symbols bound in the module in order of declaration.
	Symbols []SymbolEntry `json:"symbols" cbor:"2,keyasint"`

	// The completed three-address code of the module in emission order.
	Codes []tac.Code `json:"codes" cbor:"3,keyasint"`
}

// Program returns the code of the result in its hand-off form.
func (r *Result) Program() *tac.Program {
	return &tac.Program{Module: r.Module, Codes: r.Codes}
}

// WalkModule semantically analyzes a module.  The first semantic error aborts
// analysis and is returned as a *report.LocalCompileError.  Internal errors
// are not recovered.
func (w *Walker) WalkModule(mod *ast.Module) (res *Result, err error) {
	w.ctx = scope.NewContext()
	w.pending = nil
	w.enclosingReturnType = nil

	defer report.CatchErrors(&err)

	w.walkModule(mod)

	res = &Result{Module: mod.Filename, Codes: w.ctx.Stream().Codes()}
	for _, sym := range w.ctx.Symbols() {
		res.Symbols = append(res.Symbols, SymbolEntry{
			Name:  sym.Name(),
			Type:  sym.Type().Name(),
			Block: sym.BlockPath(),
		})
	}

	return res, nil
}

// -----------------------------------------------------------------------------

// pushPending records an unresolved control flow jump.
func (w *Walker) pushPending(stmt ast.Stmt, code *tac.Code) {
	w.pending = append(w.pending, pendingJump{stmt: stmt, code: code})
}

// extractPending removes and returns the pending jumps originating from
// statements of kind T recorded at or after index from.  Jumps recorded
// earlier belong to an enclosing construct.
func extractPending[T ast.Stmt](w *Walker, from int) []*tac.Code {
	var extracted []*tac.Code

	kept := w.pending[:from]
	for _, pj := range w.pending[from:] {
		if _, ok := pj.stmt.(T); ok {
			extracted = append(extracted, pj.code)
		} else {
			kept = append(kept, pj)
		}
	}

	w.pending = kept
	return extracted
}

// checkNoPending reports an error if any control flow jump escaped to a place
// where nothing can resolve it.
func (w *Walker) checkNoPending() {
	if len(w.pending) > 0 {
		w.error(w.pending[0].stmt.Span(), "control flow statement not allowed here")
	}
}

// resolveAll backpatches every code in codes to target.
func (w *Walker) resolveAll(codes []*tac.Code, target string) {
	for _, code := range codes {
		w.ctx.Stream().Resolve(code, target)
	}
}

// -----------------------------------------------------------------------------

// error reports an error on the given span that aborts walking of the module.
func (w *Walker) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}

// notImplemented reports an error for a construct analysis does not support.
func (w *Walker) notImplemented(node ast.Node, kind string) {
	w.error(node.Span(), "%s is not implemented", kind)
}
