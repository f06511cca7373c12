package program

import "fmt"

// Class is a resolved Kitten class type: its declared fields, methods and
// constructors, and its intrinsic entry points (fixtures and tests, which
// an external harness runs even though no user code ever calls them).
//
// All Add* methods canonicalize: adding a member that already exists
// returns the existing signature object, so signature identity is pointer
// identity across the whole compilation.
type Class struct {
	name       string
	superclass *Class

	fields       map[string]*FieldSignature
	methods      map[string]*CodeSignature
	methodOrder  []*CodeSignature
	constructors []*CodeSignature
	fixtures     []*CodeSignature
	tests        map[string]*CodeSignature
	testOrder    []*CodeSignature
}

// NewClass creates a class with the given name and superclass (nil for the
// root class).
func NewClass(name string, superclass *Class) *Class {
	return &Class{
		name:       name,
		superclass: superclass,
		fields:     make(map[string]*FieldSignature),
		methods:    make(map[string]*CodeSignature),
		tests:      make(map[string]*CodeSignature),
	}
}

func (c *Class) Name() string       { return c.name }
func (c *Class) Superclass() *Class { return c.superclass }
func (c *Class) String() string     { return c.name }

// AddField declares a field. Redeclaring a field with the same name yields
// the original signature.
func (c *Class) AddField(name string, typ Type) *FieldSignature {
	if f, ok := c.fields[name]; ok {
		return f
	}
	f := &FieldSignature{class: c, name: name, typ: typ}
	c.fields[name] = f
	return f
}

// Field looks up a declared field by name, or nil.
func (c *Class) Field(name string) *FieldSignature {
	return c.fields[name]
}

// AddMethod declares a method. Redeclaring a method with the same name
// yields the original signature; the body is bound separately, after
// type-checking, via Bind.
func (c *Class) AddMethod(name string, params []Type, returned Type) *CodeSignature {
	if m, ok := c.methods[name]; ok {
		return m
	}
	m := &CodeSignature{class: c, kind: MethodKind, name: name, params: params, returned: returned}
	c.methods[name] = m
	c.methodOrder = append(c.methodOrder, m)
	return m
}

// Method looks up a declared method by name, or nil.
func (c *Class) Method(name string) *CodeSignature {
	return c.methods[name]
}

// Methods returns the declared methods in declaration order.
func (c *Class) Methods() []*CodeSignature { return c.methodOrder }

// AddConstructor declares a constructor.
func (c *Class) AddConstructor(params []Type) *CodeSignature {
	s := &CodeSignature{
		class:    c,
		kind:     ConstructorKind,
		name:     fmt.Sprintf("<init>%d", len(c.constructors)),
		params:   params,
		returned: VoidType,
	}
	c.constructors = append(c.constructors, s)
	return s
}

// Constructors returns the declared constructors in declaration order.
func (c *Class) Constructors() []*CodeSignature { return c.constructors }

// AddFixture declares a fixture. Fixtures are anonymous in the source, so
// they are numbered in declaration order.
func (c *Class) AddFixture() *CodeSignature {
	s := &CodeSignature{
		class:    c,
		kind:     FixtureKind,
		name:     fmt.Sprintf("fixture%d", len(c.fixtures)),
		returned: VoidType,
	}
	c.fixtures = append(c.fixtures, s)
	return s
}

// Fixtures returns the declared fixtures in declaration order.
func (c *Class) Fixtures() []*CodeSignature { return c.fixtures }

// AddTest declares a test. Redeclaring a test with the same name yields the
// original signature.
func (c *Class) AddTest(name string) *CodeSignature {
	if t, ok := c.tests[name]; ok {
		return t
	}
	t := &CodeSignature{class: c, kind: TestKind, name: name, returned: VoidType}
	c.tests[name] = t
	c.testOrder = append(c.testOrder, t)
	return t
}

// Tests returns the declared tests in declaration order.
func (c *Class) Tests() []*CodeSignature { return c.testOrder }
