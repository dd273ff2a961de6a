package mlarg

import (
	"gopkg.in/yaml.v3"
)

type nodeSnapshot struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Commands    []commandSnapshot `yaml:"commands,omitempty"`
	Children    []nodeSnapshot    `yaml:"children,omitempty"`
	Warnings    []string          `yaml:"warnings,omitempty"`
}

type commandSnapshot struct {
	Name    string           `yaml:"name"`
	Method  string           `yaml:"method"`
	Help    string           `yaml:"help"`
	Options []optionSnapshot `yaml:"options,omitempty"`
}

type optionSnapshot struct {
	Long     string `yaml:"long"`
	Short    string `yaml:"short,omitempty"`
	Dest     string `yaml:"dest"`
	Kind     string `yaml:"kind"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
	Default  string `yaml:"default,omitempty"`
	Help     string `yaml:"help"`
}

// Describe renders the compiled tree as YAML: every level, command and
// option in declaration order. Compiling the same type twice yields the
// same document.
func (n *Node) Describe() ([]byte, error) {
	return yaml.Marshal(n.snapshot())
}

func (n *Node) snapshot() nodeSnapshot {
	s := nodeSnapshot{
		Name:        n.Name,
		Description: n.Description,
		Warnings:    n.Warnings,
	}
	for _, c := range n.Commands {
		cs := commandSnapshot{Name: c.Name, Method: c.Method, Help: c.Doc}
		for _, o := range c.Options {
			cs.Options = append(cs.Options, optionSnapshot{
				Long:     o.Long,
				Short:    o.Short,
				Dest:     o.Dest,
				Kind:     o.Kind.String(),
				Type:     o.Type.String(),
				Required: o.Required,
				Default:  o.Default,
				Help:     o.Help,
			})
		}
		s.Commands = append(s.Commands, cs)
	}
	for _, child := range n.Children {
		s.Children = append(s.Children, child.snapshot())
	}
	return s
}
