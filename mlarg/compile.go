package mlarg

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/dzonerzy/go-mlarg/internal/fuzzy"
)

// Compile builds the command tree of a parser type without parsing any
// command line. proto is a parser value or a pointer to one. Every problem
// of the pass is collected; fatal ones are returned as a *CompileError,
// the rest are logged and kept in Node.Warnings.
func Compile(proto any, opts ...Setting) (*Node, error) {
	s := newSettings(opts)
	t, err := protoType(proto)
	if err != nil {
		return nil, err
	}
	return compile(t, s)
}

func protoType(proto any) (reflect.Type, error) {
	t := reflect.TypeOf(proto)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, &ResolutionError{Reason: "nil parser"}
	}
	ok, err := parserStruct(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ResolutionError{Node: t.String(), Type: t.String(), Reason: "parser types must embed mlarg.Parser"}
	}
	return t, nil
}

type compiler struct {
	s    *settings
	errs []error
}

func compile(t reflect.Type, s *settings) (*Node, error) {
	c := &compiler{s: s}

	class := loadClass(t)
	name := s.name
	if name == "" {
		name = class.Name
	}
	if name == "" {
		name = filepath.Base(os.Args[0])
	}

	root := c.node(t, class, name, name, nil, nil)
	if len(c.errs) > 0 {
		return nil, &CompileError{Errors: c.errs}
	}
	return root, nil
}

// report records err as fatal or as a warning of n.
func (c *compiler) report(n *Node, err error, fatal bool) {
	if fatal {
		c.errs = append(c.errs, err)
		return
	}
	n.Warnings = append(n.Warnings, err.Error())
	c.s.log().Warn(err.Error(), "parser", n.Path)
}

type entry struct {
	name   string
	goName string
	cmd    *CommandSpec
	child  *Node
}

func (c *compiler) node(t reflect.Type, class *Class, name, path string, parent *Node, stack []reflect.Type) *Node {
	if c.s.strictTypes != nil {
		class.StrictTypes = *c.s.strictTypes
	}

	n := &Node{
		Name:        name,
		Path:        path,
		Description: class.Description,
		Class:       *class,
		ArgDesc:     make(map[string]string),
		typ:         t,
	}
	if parent != nil {
		for k, v := range parent.ArgDesc {
			n.ArgDesc[k] = v
		}
	}
	for k, v := range class.ArgDesc {
		n.ArgDesc[k] = v
	}
	stack = append(stack[:len(stack):len(stack)], t)

	var entries []*entry
	byName := make(map[string]int)
	taken := func(s string) bool {
		_, ok := byName[s]
		return ok
	}
	add := func(e *entry) {
		i, ok := byName[e.name]
		if !ok {
			byName[e.name] = len(entries)
			entries = append(entries, e)
			return
		}
		prev := entries[i]
		c.report(n, &CollisionError{
			Node:        path,
			Name:        e.name,
			Existing:    prev.goName,
			Conflicting: e.goName,
			Suggestion:  fuzzy.Nearest(e.name, collisionCandidates(e.name, e.goName, class.CaseSensitiveCommands), taken),
		}, class.StrictValidation)
		entries[i] = e
	}

	known := make([]string, 0)
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if reservedMethods[m.Name] {
			continue
		}
		known = append(known, m.Name)

		cmdName := CommandName(m.Name, class.CaseSensitiveCommands)
		cmd, err := c.command(n, m, cmdName)
		if err != nil {
			c.report(n, err, class.StrictTypes)
			continue
		}
		cmd.Doc = class.docs[m.Name]
		if cmd.Doc == "" {
			cmd.Doc = undocumented
		}
		add(&entry{name: cmdName, goName: m.Name, cmd: cmd})
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		ft, ptr := f.Type, false
		if ft.Kind() == reflect.Pointer {
			ft, ptr = ft.Elem(), true
		}
		isParser, err := parserStruct(ft)
		if err != nil {
			c.report(n, err, class.StrictTypes)
			continue
		}
		if !isParser {
			continue
		}
		known = append(known, f.Name)

		tag := f.Tag.Get("cmd")
		if tag == "-" {
			continue
		}
		childName := CommandName(f.Name, class.CaseSensitiveCommands)
		if tag != "" {
			childName = CommandName(tag, class.CaseSensitiveCommands)
		}
		if slices.Contains(stack, ft) {
			c.report(n, &ResolutionError{
				Node:   path,
				Type:   ft.String(),
				Reason: fmt.Sprintf("field %s makes the parser tree recursive", f.Name),
			}, class.StrictTypes)
			continue
		}

		childClass := loadClass(ft)
		child := c.node(ft, childClass, childName, path+" "+childName, n, stack)
		child.goName, child.field, child.ptr = f.Name, f.Index, ptr
		if child.Description == "" {
			child.Description = class.docs[f.Name]
		}
		add(&entry{name: childName, goName: f.Name, child: child})
	}

	for _, e := range entries {
		if e.cmd != nil {
			n.Commands = append(n.Commands, e.cmd)
		} else {
			n.Children = append(n.Children, e.child)
		}
	}

	c.checkDocs(n, class, known)
	return n
}

// checkDocs warns about Doc entries naming no method or subparser field.
func (c *compiler) checkDocs(n *Node, class *Class, known []string) {
	keys := make([]string, 0, len(class.docs))
	for k := range class.docs {
		if !slices.Contains(known, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		msg := fmt.Sprintf("%s: documentation for unknown command %q", n.Path, k)
		if best := fuzzy.NewMatcher(2).FindBest(k, known); best != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", best)
		}
		n.Warnings = append(n.Warnings, msg)
		c.s.log().Warn(msg)
	}
}

// command checks a method signature and compiles its argument struct.
func (c *compiler) command(n *Node, m reflect.Method, name string) (*CommandSpec, error) {
	path := n.Path + " " + name
	bad := func(reason string) error {
		return &ResolutionError{Node: n.Path, Command: m.Name, Type: m.Type.String(), Reason: reason}
	}

	mt := m.Type
	if mt.IsVariadic() {
		return nil, bad("variadic methods cannot be commands")
	}

	spec := &CommandSpec{Name: name, Method: m.Name, Path: path, method: m}

	in := 1
	if in < mt.NumIn() && mt.In(in) == contextType {
		spec.takesContext = true
		in++
	}
	if in < mt.NumIn() {
		at := mt.In(in)
		st := at
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
			spec.argsPtr = true
		}
		if st.Kind() != reflect.Struct {
			return nil, bad("the argument must be a struct or a pointer to a struct")
		}
		spec.argsType = st
		in++
	}
	if in < mt.NumIn() {
		return nil, bad("commands take at most a context.Context and one argument struct")
	}

	switch mt.NumOut() {
	case 0:
	case 1:
		if mt.Out(0) == errorType {
			spec.returnsError = true
		} else {
			spec.returnsValue = true
		}
	case 2:
		if mt.Out(1) != errorType || mt.Out(0) == errorType {
			return nil, bad("two results must be (value, error)")
		}
		spec.returnsValue, spec.returnsError = true, true
	default:
		return nil, bad("commands return at most a value and an error")
	}

	if spec.argsType != nil {
		c.params(n, spec, spec.argsType, nil)
	}
	for _, err := range checkFlagPairs(path, spec.Params) {
		c.report(n, err, n.Class.StrictValidation)
	}
	c.options(n, spec)
	return spec, nil
}

// params appends the parameters declared by struct type st, flattening
// embedded structs.
func (c *compiler) params(n *Node, spec *CommandSpec, st reflect.Type, index []int) {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		fieldIndex := append(index[:len(index):len(index)], i)

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				if !f.IsExported() {
					continue
				}
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				c.params(n, spec, ft, fieldIndex)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("arg")
		if tag == "-" {
			continue
		}
		name := tag
		if name == "" {
			name = ParamName(f.Name)
		}
		if prev := spec.Param(name); prev != nil {
			c.report(n, &CollisionError{
				Command:     spec.Path,
				Name:        name,
				Existing:    prev.Field,
				Conflicting: f.Name,
				Suggestion:  name + "2",
			}, n.Class.StrictValidation)
			continue
		}

		if p := c.param(n, spec, f, name, fieldIndex); p != nil {
			spec.Params = append(spec.Params, p)
		}
	}
}

func (c *compiler) param(n *Node, spec *CommandSpec, f reflect.StructField, name string, index []int) *ParameterSpec {
	p := &ParameterSpec{
		Name:   name,
		Field:  f.Name,
		GoType: f.Type,
		index:  index,
	}

	d, err := ResolveType(name, f.Type)
	if err != nil {
		if re, ok := err.(*ResolutionError); ok {
			re.Node, re.Command = n.Path, spec.Path
		}
		c.report(n, err, n.Class.StrictTypes)
		d, p.fallback = scalarString, true
	}
	p.Type = d

	if text, ok := f.Tag.Lookup("default"); ok {
		p.DefaultText, p.HasDefault = text, true
		v, err := parseDefault(p)
		if err != nil {
			c.report(n, &ResolutionError{
				Node:    n.Path,
				Command: spec.Path,
				Param:   name,
				Type:    f.Type.String(),
				Reason:  "bad default: " + err.Error(),
			}, n.Class.StrictTypes)
			p.DefaultText, p.HasDefault = "", false
		} else {
			p.Default = v
		}
	}

	if !p.fallback && d.Base == BaseBoolean && d.Container == ContainerNone {
		def := p.HasDefault && p.Default.IsValid() && boolOf(p.Default)
		p.Flag = DeriveFlag(name, def, p.HasDefault, n.Class.AutoDisableFlags)
		if p.Flag.Kind == OffOnly {
			p.Default, p.DefaultText, p.HasDefault = reflect.Value{}, "", false
		}
	}

	p.Description = n.ArgDesc[name]
	if p.Description == "" {
		p.Description = undocumented
	}
	return p
}

func boolOf(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.Bool && v.Bool()
}

// options derives the option table of spec and claims short letters in
// parameter order.
func (c *compiler) options(n *Node, spec *CommandSpec) {
	shorts := make(shortSet)
	longs := make(map[string]string)

	register := func(i int, p *ParameterSpec, opt *Option, dest string, wantShort bool) {
		opt.param = i
		if opt.Long == "help" {
			c.report(n, &CollisionError{
				Command:    spec.Path,
				Name:       p.Name,
				Reason:     "uses the reserved option name --help",
				Suggestion: p.Name + "_topic",
			}, n.Class.StrictValidation)
			return
		}
		if owner, ok := longs[opt.Long]; ok {
			c.report(n, &CollisionError{
				Command:     spec.Path,
				Name:        "--" + opt.Long,
				Existing:    owner,
				Conflicting: p.Name,
			}, n.Class.StrictValidation)
			return
		}
		longs[opt.Long] = p.Name
		if wantShort {
			opt.Short = shorts.claim(dest)
			if opt.Short != "" {
				spec.Shorts = append(spec.Shorts, opt.Short)
			}
		}
		spec.Options = append(spec.Options, opt)
	}

	for i, p := range spec.Params {
		if p.Flag == nil {
			opt := &Option{
				Long:     LongName(p.Name),
				Dest:     p.Name,
				Kind:     OptionValue,
				Required: p.Required(),
				Help:     p.Description,
				Type:     p.Type,
			}
			if p.HasDefault {
				opt.Default = p.DefaultText
				opt.Help += fmt.Sprintf(" [default: %q]", p.DefaultText)
			}
			register(i, p, opt, p.Name, true)
			continue
		}

		plan := p.Flag
		if plan.On != "" {
			help := p.Description
			if p.HasDefault {
				if plan.Default {
					help += " [enabled by default]"
				} else {
					help += " [disabled by default]"
				}
			}
			register(i, p, &Option{
				Long:    plan.On,
				Dest:    plan.Dest,
				Kind:    OptionOn,
				Default: fmt.Sprint(plan.Default),
				Help:    help,
				Type:    p.Type,
			}, plan.Dest, true)
		}
		if plan.Off != "" {
			help := p.Description
			if plan.Kind == OnWithAutoOff && help != undocumented {
				help = "Explicitly disable " + strings.ReplaceAll(plan.Dest, "_", " ")
			}
			register(i, p, &Option{
				Long:    plan.Off,
				Dest:    plan.Dest,
				Kind:    OptionOff,
				Default: fmt.Sprint(plan.Default),
				Help:    help,
				Type:    p.Type,
			}, plan.Dest, plan.Kind == OffOnly)
		}
	}
}
