// Package absyn holds the abstract syntax of method and constructor bodies
// and lowers it into the basic-block intermediate code of package program.
//
// Lowering is continuation-passing: each command is lowered against the
// block that control reaches when the command finishes. Conditionals share
// their continuation between both branches, loops lower their body against
// the loop head (creating the back-edge), and an explicit return simply
// ignores its continuation.
package absyn

import "github.com/kittenlang/kitten/program"

// Command is a statement of a method or constructor body.
type Command interface {
	// Lower builds the blocks executing this command, continuing into
	// continuation when the command falls through.
	Lower(continuation *program.Block) *program.Block
}

// before wraps straight-line code in a fresh block that continues into
// next.
func before(code []program.Instruction, next *program.Block) *program.Block {
	b := program.NewBlock(code...)
	b.AddFollow(next)
	return b
}

// Skip does nothing.
type Skip struct{}

func (Skip) Lower(continuation *program.Block) *program.Block {
	return continuation
}

// Sequence runs First, then Second.
type Sequence struct {
	First, Second Command
}

func (s Sequence) Lower(continuation *program.Block) *program.Block {
	return s.First.Lower(s.Second.Lower(continuation))
}

// Seq chains commands into nested Sequences, as a convenience for building
// bodies.
func Seq(commands ...Command) Command {
	if len(commands) == 0 {
		return Skip{}
	}
	result := commands[len(commands)-1]
	for i := len(commands) - 2; i >= 0; i-- {
		result = Sequence{First: commands[i], Second: result}
	}
	return result
}

// Assignment stores an expression into a local variable slot.
type Assignment struct {
	Slot  int
	Value Expression
}

func (a Assignment) Lower(continuation *program.Block) *program.Block {
	code := append(a.Value.Lower(), program.Store{Slot: a.Slot})
	return before(code, continuation)
}

// FieldUpdate stores an expression into a field of a receiver.
type FieldUpdate struct {
	Receiver Expression
	Field    *program.FieldSignature
	Value    Expression
}

func (f FieldUpdate) Lower(continuation *program.Block) *program.Block {
	code := f.Receiver.Lower()
	code = append(code, f.Value.Lower()...)
	code = append(code, program.PutField{Field: f.Field})
	return before(code, continuation)
}

// CallCommand invokes a method for its effect, discarding the result.
type CallCommand struct {
	Call CallExpr
}

func (c CallCommand) Lower(continuation *program.Block) *program.Block {
	code := append(c.Call.Lower(), program.Pop{})
	return before(code, continuation)
}

// Return leaves the body. Value is nil for a void return. The continuation
// is deliberately unused: nothing follows a return.
type Return struct {
	Value Expression
	Type  program.Type
}

func (r Return) Lower(_ *program.Block) *program.Block {
	var code []program.Instruction
	if r.Value != nil {
		code = r.Value.Lower()
	}
	return program.NewBlock(append(code, program.Return{Type: r.Type})...)
}

// If branches on a condition. Else may be nil. Both branches lower against
// the same continuation, so straight-line code after the conditional is a
// shared join block, not duplicated.
type If struct {
	Condition Expression
	Then      Command
	Else      Command
}

func (i If) Lower(continuation *program.Block) *program.Block {
	elseEntry := continuation
	if i.Else != nil {
		elseEntry = i.Else.Lower(continuation)
	}
	cond := program.NewBlock(i.Condition.Lower()...)
	cond.AddFollow(i.Then.Lower(continuation))
	cond.AddFollow(elseEntry)
	return cond
}

// While loops over Body while Condition holds. The body lowers against the
// loop head, forming the back-edge; the false branch of the head exits to
// the continuation.
type While struct {
	Condition Expression
	Body      Command
}

func (w While) Lower(continuation *program.Block) *program.Block {
	head := program.NewBlock(w.Condition.Lower()...)
	head.AddFollow(w.Body.Lower(head))
	head.AddFollow(continuation)
	return head
}
