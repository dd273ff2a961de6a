package mlarg

import (
	"reflect"
	"strings"
)

const undocumented = "FIXME: UNDOCUMENTED"

// Node is one level of a compiled command tree: the commands and subparsers
// of one parser type.
type Node struct {
	Name        string
	Path        string
	Description string
	Class       Class
	// ArgDesc is the effective parameter documentation of this level.
	ArgDesc  map[string]string
	Commands []*CommandSpec
	Children []*Node
	// Warnings lists the non-fatal problems found while compiling this level.
	Warnings []string

	typ    reflect.Type
	goName string
	field  []int
	ptr    bool
}

// Command returns the command with the given name, or nil.
func (n *Node) Command(name string) *CommandSpec {
	for _, c := range n.Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Child returns the subparser with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Names lists the commands and subparsers of this level in declaration order.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Commands)+len(n.Children))
	for _, c := range n.Commands {
		names = append(names, c.Name)
	}
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

// Type returns the parser type this level was compiled from.
func (n *Node) Type() reflect.Type { return n.typ }

// CommandSpec is a compiled command method.
type CommandSpec struct {
	Name   string
	Method string
	Doc    string
	Path   string
	Params []*ParameterSpec
	// Options is the option table registered with the parsing library.
	Options []*Option
	// Shorts lists the claimed short letters in claim order.
	Shorts []string

	method       reflect.Method
	takesContext bool
	argsType     reflect.Type
	argsPtr      bool
	returnsValue bool
	returnsError bool
}

// Param returns the parameter with the given name, or nil.
func (c *CommandSpec) Param(name string) *ParameterSpec {
	for _, p := range c.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Option returns the option with the given long name, or nil.
func (c *CommandSpec) Option(long string) *Option {
	for _, o := range c.Options {
		if o.Long == long {
			return o
		}
	}
	return nil
}

func (c *CommandSpec) hasShort(letter string) bool {
	for _, s := range c.Shorts {
		if s == letter {
			return true
		}
	}
	return false
}

// summary is the first line of a doc text.
func summary(doc string) string {
	first, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSpace(first)
}
