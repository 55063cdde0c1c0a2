// Package scope implements the lexical scope tree used during semantic
// analysis.  A Context owns the block tree of one module, every symbol declared
// in it, and the three-address code stream generated for it.
package scope

import (
	"strconv"

	"xuc/common"
	"xuc/report"
	"xuc/tac"
)

// block is a single lexical scope.
type block struct {
	// The enclosing block.  This is nil for the root block.
	parent *block

	// The dotted path of the block: `.` for the root, `.1`, `.1.2`, etc.
	path string

	// The symbols bound in the block: name to arena index.
	symbols map[string]int

	// The number of child blocks pushed so far: used to assign the 1-based
	// sibling index of the next child.
	childCount int

	// The number of temporaries minted in this block.
	tempCount int
}

func newBlock(parent *block, path string) *block {
	return &block{parent: parent, path: path, symbols: make(map[string]int)}
}

// tempPrefix returns the prefix of temporaries minted in the block.
func (b *block) tempPrefix() string {
	if b.parent == nil {
		return ""
	}

	return b.path
}

// -----------------------------------------------------------------------------

// Context is the scope tree of a single module under analysis.
type Context struct {
	// The builtin types of this analysis run.
	universe *common.Universe

	root, current *block

	// Every symbol bound in the context in order of first declaration.  Blocks
	// refer to symbols by their index in the arena.
	arena []common.Symbol

	stream *tac.Stream
}

// NewContext creates a new context whose root block binds the primitive types.
func NewContext() *Context {
	root := newBlock(nil, ".")

	ctx := &Context{
		universe: common.NewUniverse(),
		root:     root,
		current:  root,
		stream:   tac.NewStream(),
	}

	for _, prim := range ctx.universe.Primitives() {
		ctx.AddSymbol(prim)
	}

	return ctx
}

// Universe returns the builtin types of the context.
func (ctx *Context) Universe() *common.Universe {
	return ctx.universe
}

// Stream returns the three-address code stream of the context.
func (ctx *Context) Stream() *tac.Stream {
	return ctx.stream
}

// PushBlock opens a new child block of the current block and makes it current.
func (ctx *Context) PushBlock() {
	ctx.current.childCount++

	path := ctx.current.tempPrefix() + "." + strconv.Itoa(ctx.current.childCount)
	ctx.current = newBlock(ctx.current, path)
}

// PopBlock closes the current block.  The root block cannot be popped.
func (ctx *Context) PopBlock() {
	if ctx.current.parent == nil {
		report.ReportICE("popping the root block")
	}

	ctx.current = ctx.current.parent
}

// BlockID returns the path of the current block.
func (ctx *Context) BlockID() string {
	return ctx.current.path
}

// AddSymbol binds a symbol in the current block, stamping it with the block's
// path.  A prior binding of the same name in the same block is replaced.
func (ctx *Context) AddSymbol(sym common.Symbol) common.Symbol {
	if sym == nil {
		report.ReportICE("adding a nil symbol to block `%s`", ctx.current.path)
	}

	sym.SetBlockPath(ctx.current.path)

	if ndx, ok := ctx.current.symbols[sym.Name()]; ok {
		ctx.arena[ndx] = sym
	} else {
		ctx.current.symbols[sym.Name()] = len(ctx.arena)
		ctx.arena = append(ctx.arena, sym)
	}

	return sym
}

// FindSymbol looks up a name starting in the current block and moving outward.
// The nearest binding wins.
func (ctx *Context) FindSymbol(name string) (common.Symbol, bool) {
	for b := ctx.current; b != nil; b = b.parent {
		if ndx, ok := b.symbols[name]; ok {
			return ctx.arena[ndx], true
		}
	}

	return nil, false
}

// Builtin returns the primitive type with the given name.  It is an internal
// error if no such primitive exists.
func (ctx *Context) Builtin(name string) *common.TypeSymbol {
	for _, prim := range ctx.universe.Primitives() {
		if prim.Name() == name {
			return prim
		}
	}

	report.ReportICE("no builtin type named `%s`", name)
	return nil
}

// Symbols returns every bound symbol in order of first declaration.
func (ctx *Context) Symbols() []common.Symbol {
	syms := make([]common.Symbol, len(ctx.arena))
	copy(syms, ctx.arena)
	return syms
}

// -----------------------------------------------------------------------------

// NewTemp mints a fresh temporary name scoped to the current block.
func (ctx *Context) NewTemp() string {
	ctx.current.tempCount++
	return ctx.current.tempPrefix() + "$" + strconv.Itoa(ctx.current.tempCount)
}

// Emit appends a code whose result is a fresh temporary.
func (ctx *Context) Emit(op, left, right string) *tac.Code {
	return ctx.stream.Append(op, left, right, ctx.NewTemp())
}

// EmitTo appends a code with an explicit result.
func (ctx *Context) EmitTo(op, left, right, res string) *tac.Code {
	return ctx.stream.Append(op, left, right, res)
}

// EmitOpen appends a jump or return whose target is not yet known.
func (ctx *Context) EmitOpen(op, left string) *tac.Code {
	return ctx.stream.AppendOpen(op, left)
}
