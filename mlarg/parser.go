package mlarg

import (
	"reflect"
)

// Parser is embedded (by value) in every parser type. It gives command
// methods access to their place in the dispatch chain.
//
//	type App struct {
//		mlarg.Parser
//		Remote *RemoteCmds `cmd:"remote"`
//	}
//
//	func (a *App) Run(args RunArgs) error { ... }
type Parser struct {
	inst *Instance
}

// Level is 1 for the top-level parser and grows by one per subcommand.
func (p *Parser) Level() int {
	if p.inst == nil {
		return 0
	}
	return p.inst.level
}

// Parent returns the parser value one level up, or nil at the top.
func (p *Parser) Parent() any {
	if p.inst == nil || p.inst.parent == nil {
		return nil
	}
	return p.inst.parent.Value()
}

// Top returns the top-level parser value.
func (p *Parser) Top() any {
	if p.inst == nil || p.inst.top == nil {
		return nil
	}
	return p.inst.top.Value()
}

// Instance returns the dispatch instance bound to this parser value.
func (p *Parser) Instance() *Instance {
	return p.inst
}

func (p *Parser) bind(inst *Instance) {
	p.inst = inst
}

type binder interface {
	bind(inst *Instance)
}

var parserType = reflect.TypeOf(Parser{})

// Class is the per-type configuration of a parser. Parser types adjust it
// by implementing Configurer.
type Class struct {
	// Name replaces the program name of a top-level parser.
	Name string
	// Description heads the help output of this level.
	Description string
	// ArgDesc documents parameters by snake_case name. It is merged over
	// the mapping of the enclosing parser.
	ArgDesc map[string]string
	// AutoDisableFlags adds --no-x to boolean parameters defaulting to true.
	AutoDisableFlags bool
	// CaseSensitiveCommands keeps the case of command names.
	CaseSensitiveCommands bool
	// StrictValidation makes naming collisions fatal.
	StrictValidation bool
	// StrictTypes makes unresolvable types and signatures fatal.
	StrictTypes bool

	docs map[string]string
}

func defaultClass() *Class {
	return &Class{
		ArgDesc:          make(map[string]string),
		AutoDisableFlags: true,
		StrictValidation: true,
		StrictTypes:      true,
		docs:             make(map[string]string),
	}
}

// Doc documents a command method or subparser field by its Go name.
func (c *Class) Doc(goName, text string) *Class {
	c.docs[goName] = text
	return c
}

// Configurer is implemented by parser types that adjust their Class.
type Configurer interface {
	Configure(c *Class)
}

var configurerType = reflect.TypeOf((*Configurer)(nil)).Elem()

// reservedMethods are never commands.
var reservedMethods = func() map[string]bool {
	m := map[string]bool{"Configure": true}
	pt := reflect.PointerTo(parserType)
	for i := 0; i < pt.NumMethod(); i++ {
		m[pt.Method(i).Name] = true
	}
	return m
}()

// loadClass runs the Configure hook of t on a zero value.
func loadClass(t reflect.Type) *Class {
	c := defaultClass()
	if reflect.PointerTo(t).Implements(configurerType) {
		reflect.New(t).Interface().(Configurer).Configure(c)
	}
	if c.ArgDesc == nil {
		c.ArgDesc = make(map[string]string)
	}
	if c.docs == nil {
		c.docs = make(map[string]string)
	}
	return c
}

// parserStruct reports whether struct type t embeds Parser.
func parserStruct(t reflect.Type) (bool, error) {
	if t.Kind() != reflect.Struct {
		return false, nil
	}
	f, ok := t.FieldByName("Parser")
	if !ok || !f.Anonymous {
		return false, nil
	}
	switch f.Type {
	case parserType:
		return true, nil
	case reflect.PointerTo(parserType):
		return false, &ResolutionError{
			Node:   t.String(),
			Type:   t.String(),
			Reason: "embed mlarg.Parser by value, not by pointer",
		}
	}
	return false, nil
}
