// Package tac defines the three-address code stream: the linear intermediate
// representation produced by semantic analysis and handed to the backend.
package tac

import (
	"strconv"

	"xuc/report"
)

// Unresolved is the target of a jump whose target is not yet known.  It must
// never appear in a completed stream.
const Unresolved = "?"

// The opcodes emitted by the checker.  Operators emit their canonical names.
const (
	OpBeginModule   = "__begmodule__"
	OpEndModule     = "__endmodule__"
	OpLiteral       = "__literal__"
	OpLoad          = "__load__"
	OpStore         = "__store__"
	OpCreate        = "__create__"
	OpType          = "__type__"
	OpArg           = "__arg__"
	OpCopyTmp       = "__copytmp__"
	OpJump          = "__jp__"
	OpJumpFalse     = "__jf__"
	OpJumpTrue      = "__jt__"
	OpLoc           = "__loc__"
	OpRet           = "__ret__"
	OpBeginFunc     = "__begfunc__"
	OpBeginFuncBody = "__begfunc_body__"
	OpEndFunc       = "__endfunc__"
)

// IsJump returns whether op is one of the jump opcodes.
func IsJump(op string) bool {
	return op == OpJump || op == OpJumpFalse || op == OpJumpTrue
}

// Code is a single three-address code quadruple.  Once emitted, a code only
// changes through its stream: either by resolving its target or by the
// load-to-store rewrite performed for assignments.
type Code struct {
	ID    string `json:"id" cbor:"1,keyasint"`
	Op    string `json:"op" cbor:"2,keyasint"`
	Left  string `json:"left,omitempty" cbor:"3,keyasint,omitempty"`
	Right string `json:"right,omitempty" cbor:"4,keyasint,omitempty"`
	Res   string `json:"res,omitempty" cbor:"5,keyasint,omitempty"`

	// The previously emitted code.
	prev *Code
}

func (c *Code) String() string {
	return c.ID + ": " + c.Op + " " + c.Left + " " + c.Right + " -> " + c.Res
}

// -----------------------------------------------------------------------------

// Stream is an append-only stream of three-address code.  Codes are linked
// newest first so that handles to emitted codes stay valid as the stream grows.
type Stream struct {
	// The most recently emitted code.
	head *Code

	// The number of emitted codes.
	count int

	// The set of emitted codes whose target is still unresolved.
	open map[*Code]struct{}
}

// NewStream creates a new empty stream.
func NewStream() *Stream {
	return &Stream{open: make(map[*Code]struct{})}
}

// Append emits a new code and returns its handle.
func (s *Stream) Append(op, left, right, res string) *Code {
	s.count++

	s.head = &Code{
		ID:    "#" + strconv.Itoa(s.count),
		Op:    op,
		Left:  left,
		Right: right,
		Res:   res,
		prev:  s.head,
	}

	return s.head
}

// AppendOpen emits a new code whose target is unresolved.  The returned handle
// must later be passed to Resolve.
func (s *Stream) AppendOpen(op, left string) *Code {
	code := s.Append(op, left, "", Unresolved)
	s.open[code] = struct{}{}
	return code
}

// Resolve backpatches the target of an open code.
func (s *Stream) Resolve(code *Code, target string) {
	if _, ok := s.open[code]; !ok {
		report.ReportICE("resolving code %s which is not open", code.ID)
	}

	if target == Unresolved || target == "" {
		report.ReportICE("resolving code %s to an invalid target `%s`", code.ID, target)
	}

	code.Res = target
	delete(s.open, code)
}

// Rewrite replaces the operation and operands of an emitted code in place.
// Open codes cannot be rewritten.
func (s *Stream) Rewrite(code *Code, op, left, right, res string) {
	if _, ok := s.open[code]; ok {
		report.ReportICE("rewriting open code %s", code.ID)
	}

	code.Op = op
	code.Left = left
	code.Right = right
	code.Res = res
}

// OpenCount returns the number of codes whose target is unresolved.
func (s *Stream) OpenCount() int {
	return len(s.open)
}

// Len returns the number of emitted codes.
func (s *Stream) Len() int {
	return s.count
}

// Codes returns a copy of the emitted codes in emission order.
func (s *Stream) Codes() []Code {
	codes := make([]Code, s.count)

	i := s.count - 1
	for code := s.head; code != nil; code = code.prev {
		codes[i] = *code
		codes[i].prev = nil
		i--
	}

	return codes
}
