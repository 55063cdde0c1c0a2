package walk

import (
	"xuc/ast"
	"xuc/tac"
)

// walkIf walks an if statement and its else-if chain.
func (w *Walker) walkIf(ifStmt *ast.If) {
	w.rep.Tracef("checking if-stmt")

	switch ifStmt.OrElse.(type) {
	case nil, *ast.If, *ast.Block:
	default:
		w.error(ifStmt.OrElse.Span(), "malformed if/else chain")
	}

	test := w.walkExpr(ifStmt.Test)
	w.requireValue(test, ifStmt.Test)

	toElse := w.ctx.EmitOpen(tac.OpJumpFalse, test.code.Res)
	w.ctx.EmitTo(tac.OpLoc, "", "", "then")

	w.walkBlock(ifStmt.Body)

	bodyToEnd := w.ctx.EmitOpen(tac.OpJump, "")
	locElse := w.ctx.EmitTo(tac.OpLoc, "", "", "else")
	w.ctx.Stream().Resolve(toElse, locElse.ID)

	switch orElse := ifStmt.OrElse.(type) {
	case *ast.If:
		w.walkIf(orElse)
	case *ast.Block:
		w.walkBlock(orElse)
	}

	elseToEnd := w.ctx.EmitOpen(tac.OpJump, "")
	locEnd := w.ctx.EmitTo(tac.OpLoc, "", "", "endif")
	w.resolveAll([]*tac.Code{bodyToEnd, elseToEnd}, locEnd.ID)
}

// walkWhile walks a while loop.  The loop resolves the breaks and continues
// of its body: breaks and continues in its else block belong to the
// enclosing loop.
func (w *Walker) walkWhile(loop *ast.While) {
	w.rep.Tracef("checking while-stmt")

	mark := len(w.pending)

	toTest := w.ctx.EmitOpen(tac.OpJump, "")
	locDo := w.ctx.EmitTo(tac.OpLoc, "", "", "do")

	w.walkBlock(loop.Body)

	bodyToTest := w.ctx.EmitOpen(tac.OpJump, "")
	locTest := w.ctx.EmitTo(tac.OpLoc, "", "", "test")
	w.resolveAll([]*tac.Code{toTest, bodyToTest}, locTest.ID)

	test := w.walkExpr(loop.Test)
	w.requireValue(test, loop.Test)

	w.ctx.EmitTo(tac.OpJumpTrue, test.code.Res, "", locDo.ID)
	w.ctx.EmitTo(tac.OpLoc, "", "", "else")

	breaks := extractPending[*ast.Break](w, mark)
	continues := extractPending[*ast.Continue](w, mark)

	if loop.OrElse != nil {
		w.walkBlock(loop.OrElse)
	}

	elseToEnd := w.ctx.EmitOpen(tac.OpJump, "")
	locEnd := w.ctx.EmitTo(tac.OpLoc, "", "", "endwhile")

	w.resolveAll(append(breaks, elseToEnd), locEnd.ID)
	w.resolveAll(continues, locTest.ID)
}
