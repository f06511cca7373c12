package absyn

import "github.com/kittenlang/kitten/program"

// Expression is a side-effect-free expression of a body. Expressions lower
// to straight-line code that leaves one value on the stack; they never
// branch, so they yield instruction sequences rather than blocks.
type Expression interface {
	Lower() []program.Instruction
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	Value int64
}

func (e IntLiteral) Lower() []program.Instruction {
	return []program.Instruction{program.Const{Value: e.Value}}
}

// BoolLiteral is a boolean constant.
type BoolLiteral struct {
	Value bool
}

func (e BoolLiteral) Lower() []program.Instruction {
	return []program.Instruction{program.Const{Value: e.Value}}
}

// LocalRef reads a local variable. Slot 0 is the receiver.
type LocalRef struct {
	Slot int
}

func (e LocalRef) Lower() []program.Instruction {
	return []program.Instruction{program.Load{Slot: e.Slot}}
}

// This reads the receiver.
func This() Expression { return LocalRef{Slot: 0} }

// FieldRead reads a field of a receiver.
type FieldRead struct {
	Receiver Expression
	Field    *program.FieldSignature
}

func (e FieldRead) Lower() []program.Instruction {
	return append(e.Receiver.Lower(), program.GetField{Field: e.Field})
}

// Binary applies a binary operator.
type Binary struct {
	Op          program.ArithOp
	Left, Right Expression
}

func (e Binary) Lower() []program.Instruction {
	code := append(e.Left.Lower(), e.Right.Lower()...)
	return append(code, program.Arith{Op: e.Op})
}

// CallExpr invokes a method or constructor and yields its result. Static
// is the declared target; Targets holds the concrete signatures resolved
// upstream, in resolution order.
type CallExpr struct {
	Receiver Expression
	Args     []Expression
	Static   *program.CodeSignature
	Targets  []*program.CodeSignature
}

func (e CallExpr) Lower() []program.Instruction {
	code := e.Receiver.Lower()
	for _, arg := range e.Args {
		code = append(code, arg.Lower()...)
	}
	return append(code, program.Call{Static: e.Static, DynamicTargets: e.Targets})
}
