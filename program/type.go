package program

// Type is the static type of a value: one of the basic types or a class.
type Type interface {
	String() string
}

// basicType is a primitive Kitten type.
type basicType string

func (t basicType) String() string { return string(t) }

// The basic types. VoidType is the value type of a return that yields
// nothing; the translator uses it for the implicit return appended to
// every body.
var (
	IntType     Type = basicType("int")
	FloatType   Type = basicType("float")
	BooleanType Type = basicType("boolean")
	VoidType    Type = basicType("void")
)
