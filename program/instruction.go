package program

import "fmt"

// Instruction is one intermediate-code instruction. The set is sealed: the
// translator's reachability walk dispatches over these variants, and only
// GetField, PutField and Call carry references to other class members.
// Branching carries no instruction at all; it is expressed purely through
// block follows.
type Instruction interface {
	fmt.Stringer
	isInstruction()
}

// GetField reads a field from the object on top of the stack.
type GetField struct {
	Field *FieldSignature
}

// PutField writes the top of the stack into a field of the object below it.
type PutField struct {
	Field *FieldSignature
}

// Call invokes a method or constructor. Static is the declared target;
// DynamicTargets holds the concrete signatures the call may dispatch to at
// runtime, resolved upstream. A non-virtual call has exactly one dynamic
// target; a virtual call may have one per implementing subclass. Target
// order is the resolution phase's insertion order and must be preserved so
// that compiled output is reproducible.
type Call struct {
	Static         *CodeSignature
	DynamicTargets []*CodeSignature
}

// Return leaves the current code, yielding a value of the given type
// (VoidType for no value).
type Return struct {
	Type Type
}

// Const pushes a literal value.
type Const struct {
	Value any
}

// Load pushes the local variable in the given slot. Slot 0 is the receiver.
type Load struct {
	Slot int
}

// Store pops the stack into the local variable in the given slot.
type Store struct {
	Slot int
}

// ArithOp is a binary arithmetic or comparison operator.
type ArithOp string

const (
	Add ArithOp = "add"
	Sub ArithOp = "sub"
	Mul ArithOp = "mul"
	Div ArithOp = "div"
	Lt  ArithOp = "lt"
	Le  ArithOp = "le"
	Gt  ArithOp = "gt"
	Ge  ArithOp = "ge"
	Eq  ArithOp = "eq"
	Ne  ArithOp = "ne"
)

// Arith applies a binary operator to the two topmost stack values.
type Arith struct {
	Op ArithOp
}

// Pop discards the top of the stack (an ignored call result).
type Pop struct{}

func (GetField) isInstruction() {}
func (PutField) isInstruction() {}
func (Call) isInstruction()     {}
func (Return) isInstruction()   {}
func (Const) isInstruction()    {}
func (Load) isInstruction()     {}
func (Store) isInstruction()    {}
func (Arith) isInstruction()    {}
func (Pop) isInstruction()      {}

func (i GetField) String() string { return "getfield " + i.Field.String() }
func (i PutField) String() string { return "putfield " + i.Field.String() }

func (i Call) String() string {
	return fmt.Sprintf("call %s [%d targets]", i.Static, len(i.DynamicTargets))
}

func (i Return) String() string { return "return " + i.Type.String() }
func (i Const) String() string  { return fmt.Sprintf("const %v", i.Value) }
func (i Load) String() string   { return fmt.Sprintf("load %d", i.Slot) }
func (i Store) String() string  { return fmt.Sprintf("store %d", i.Slot) }
func (i Arith) String() string  { return string(i.Op) }
func (Pop) String() string      { return "pop" }
