package program

import (
	"fmt"
	"strings"
)

// MemberSignature identifies a declared member of a class: a method,
// constructor, fixture, test, or field. Signature objects are created once
// by the resolution phase and compared by identity.
type MemberSignature interface {
	DefiningClass() *Class
	Name() string
	String() string
}

// CodeKind distinguishes the translatable member kinds.
type CodeKind int

const (
	MethodKind CodeKind = iota
	ConstructorKind
	FixtureKind
	TestKind
)

func (k CodeKind) String() string {
	switch k {
	case MethodKind:
		return "method"
	case ConstructorKind:
		return "constructor"
	case FixtureKind:
		return "fixture"
	case TestKind:
		return "test"
	default:
		return fmt.Sprintf("CodeKind(%d)", int(k))
	}
}

// Body lowers a declaration body into a graph of basic blocks. The
// continuation is the block control falls into when the body ends without
// an explicit return; lowering links every fall-through path to it.
//
// Lowering must be callable for any signature that has not been translated
// yet and must produce fresh blocks on every call.
type Body interface {
	Lower(sig *CodeSignature, continuation *Block) *Block
}

// CodeSignature is the signature of a translatable member: a method,
// constructor, fixture, or test. Its entry-block slot is populated exactly
// once, by the translator.
type CodeSignature struct {
	class    *Class
	kind     CodeKind
	name     string
	params   []Type
	returned Type
	body     Body
	code     *Block
}

func (s *CodeSignature) DefiningClass() *Class { return s.class }
func (s *CodeSignature) Kind() CodeKind        { return s.kind }
func (s *CodeSignature) Name() string          { return s.name }
func (s *CodeSignature) ReturnType() Type      { return s.returned }

// Params returns the declared parameter types, not including the receiver.
func (s *CodeSignature) Params() []Type { return s.params }

// Body returns the lowering hook bound to this signature, or nil if the
// declaration has not been bound yet.
func (s *CodeSignature) Body() Body { return s.body }

// Bind attaches the declaration body. The resolution phase calls this once
// type-checking has produced the signature for the declaration.
func (s *CodeSignature) Bind(body Body) { s.body = body }

// Code returns the generated entry block, or nil if this signature has not
// been translated.
func (s *CodeSignature) Code() *Block { return s.code }

// SetCode stores the generated entry block. The slot is write-once: once
// set, later calls are ignored rather than overwriting.
func (s *CodeSignature) SetCode(entry *Block) {
	if s.code == nil {
		s.code = entry
	}
}

func (s *CodeSignature) String() string {
	var b strings.Builder
	b.WriteString(s.class.Name())
	b.WriteByte('.')
	b.WriteString(s.name)
	b.WriteByte('(')
	for i, p := range s.params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if s.returned != nil && s.returned != VoidType {
		b.WriteByte(':')
		b.WriteString(s.returned.String())
	}
	return b.String()
}

// FieldSignature is the signature of a declared field. Fields have no body;
// the translator records them in the ledger so the emitter knows which
// fields the compiled code touches, but they never trigger translation of
// their own.
type FieldSignature struct {
	class *Class
	name  string
	typ   Type
}

func (s *FieldSignature) DefiningClass() *Class { return s.class }
func (s *FieldSignature) Name() string          { return s.name }
func (s *FieldSignature) Type() Type            { return s.typ }

func (s *FieldSignature) String() string {
	return s.class.Name() + "." + s.name
}
