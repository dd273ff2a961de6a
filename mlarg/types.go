package mlarg

import (
	"reflect"
)

// BaseType is the scalar kind a parameter's tokens are converted to.
type BaseType int

const (
	BaseString BaseType = iota
	BaseInteger
	BaseFloat
	BaseBoolean
)

func (b BaseType) String() string {
	switch b {
	case BaseString:
		return "string"
	case BaseInteger:
		return "integer"
	case BaseFloat:
		return "float"
	case BaseBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// flagType is the short name shown in option usage.
func (b BaseType) flagType() string {
	switch b {
	case BaseInteger:
		return "int"
	case BaseFloat:
		return "float"
	case BaseBoolean:
		return "bool"
	default:
		return "string"
	}
}

// Arity says whether an option takes one value or accumulates many.
type Arity int

const (
	Single Arity = iota
	Multiple
)

func (a Arity) String() string {
	if a == Multiple {
		return "multiple"
	}
	return "single"
}

// Container is the shape multiple values are collected into.
type Container int

const (
	ContainerNone Container = iota
	ContainerList
	ContainerSet
	ContainerTuple
	ContainerDict
)

func (c Container) String() string {
	switch c {
	case ContainerList:
		return "list"
	case ContainerSet:
		return "set"
	case ContainerTuple:
		return "tuple"
	case ContainerDict:
		return "dict"
	default:
		return "none"
	}
}

// TypeDescriptor is the normalized form of a parameter's Go type.
type TypeDescriptor struct {
	Base      BaseType
	Arity     Arity
	Container Container
	// Optional is set for pointer fields; an absent option leaves them nil.
	Optional bool
	// Len is the maximum number of values of a tuple.
	Len int
}

// scalarString is the descriptor used for unannotated and fallback
// parameters.
var scalarString = TypeDescriptor{Base: BaseString, Arity: Single, Container: ContainerNone}

func (d TypeDescriptor) String() string {
	s := d.Base.String()
	if d.Container != ContainerNone {
		s = d.Container.String() + "[" + s + "]"
	}
	if d.Optional {
		s = "optional[" + s + "]"
	}
	return s
}

// flagType is what option usage shows as the value placeholder.
func (d TypeDescriptor) flagType() string {
	switch d.Container {
	case ContainerNone:
		return d.Base.flagType()
	case ContainerDict:
		return "key=" + d.Base.flagType()
	default:
		return d.Base.flagType() + "s"
	}
}

// ParameterSpec is one field of a command's argument struct.
type ParameterSpec struct {
	// Name is the snake_case parameter name, also the ArgDesc key.
	Name string
	// Field is the Go field name.
	Field string
	// GoType is the declared field type.
	GoType reflect.Type
	Type   TypeDescriptor

	Default     reflect.Value
	HasDefault  bool
	DefaultText string

	Description string
	// Flag is set for scalar boolean parameters.
	Flag *FlagPlan

	index    []int
	fallback bool
}

// Required reports whether the option must be given on the command line.
func (p *ParameterSpec) Required() bool {
	if p.HasDefault || p.Flag != nil || p.Type.Optional || p.fallback {
		return false
	}
	return true
}

// OptionKind tells how an option affects its destination.
type OptionKind int

const (
	// OptionValue takes one or more values.
	OptionValue OptionKind = iota
	// OptionOn sets a boolean destination to true.
	OptionOn
	// OptionOff sets a boolean destination to false.
	OptionOff
)

func (k OptionKind) String() string {
	switch k {
	case OptionOn:
		return "on"
	case OptionOff:
		return "off"
	default:
		return "value"
	}
}

// Option is one registered command-line option.
type Option struct {
	Long     string
	Short    string
	Dest     string
	Kind     OptionKind
	Required bool
	Default  string
	Help     string
	Type     TypeDescriptor

	param int
}
