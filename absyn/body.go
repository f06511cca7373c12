package absyn

import "github.com/kittenlang/kitten/program"

// Body adapts a command to the translator's lowering contract. Binding an
// absyn.Body to a code signature is how the resolution phase hands a
// type-checked declaration to the back end.
type Body struct {
	Command Command
}

// Lower lowers the body against the translator's continuation. The
// continuation already ends in a void return, so a body with a
// fall-through path terminates correctly without an explicit return.
func (b Body) Lower(_ *program.CodeSignature, continuation *program.Block) *program.Block {
	return b.Command.Lower(continuation)
}
