package mlarg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// collector accumulates the tokens given to one value option.
type collector struct {
	typ      reflect.Type
	desc     TypeDescriptor
	fallback bool

	v     reflect.Value
	n     int
	given bool
}

func newCollector(p *ParameterSpec) *collector {
	t := p.GoType
	if p.Type.Optional {
		t = t.Elem()
	}
	return &collector{typ: t, desc: p.Type, fallback: p.fallback}
}

func (c *collector) add(s string) error {
	if c.fallback {
		c.v, c.given = reflect.ValueOf(s), true
		return nil
	}

	switch c.desc.Container {
	case ContainerNone:
		v, err := parseScalar(c.typ, s)
		if err != nil {
			return err
		}
		c.v = v
	case ContainerList:
		e, err := parseScalar(c.typ.Elem(), s)
		if err != nil {
			return err
		}
		if !c.given {
			c.v = reflect.MakeSlice(c.typ, 0, 4)
		}
		c.v = reflect.Append(c.v, e)
	case ContainerSet:
		k, err := parseScalar(c.typ.Key(), s)
		if err != nil {
			return err
		}
		if !c.given {
			c.v = reflect.MakeMap(c.typ)
		}
		c.v.SetMapIndex(k, reflect.New(c.typ.Elem()).Elem())
	case ContainerTuple:
		if c.n >= c.typ.Len() {
			return fmt.Errorf("takes at most %d values", c.typ.Len())
		}
		e, err := parseScalar(c.typ.Elem(), s)
		if err != nil {
			return err
		}
		if !c.given {
			c.v = reflect.New(c.typ).Elem()
		}
		c.v.Index(c.n).Set(e)
		c.n++
	case ContainerDict:
		key, val, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return fmt.Errorf("%q is not a key=value pair", s)
		}
		e, err := parseScalar(c.typ.Elem(), val)
		if err != nil {
			return err
		}
		if !c.given {
			c.v = reflect.MakeMap(c.typ)
		}
		c.v.SetMapIndex(reflect.ValueOf(key).Convert(c.typ.Key()), e)
	}

	c.given = true
	return nil
}

// fieldValue converts the collected value to field type ft. ok is false
// when a fallback parameter's field cannot hold its string.
func (c *collector) fieldValue(ft reflect.Type) (v reflect.Value, ok bool) {
	if !c.given {
		return reflect.Zero(ft), true
	}
	if c.fallback {
		if !c.v.Type().AssignableTo(ft) {
			return reflect.Value{}, false
		}
		return c.v, true
	}
	if c.desc.Optional {
		p := reflect.New(c.typ)
		p.Elem().Set(c.v)
		return p, true
	}
	return c.v, true
}

// parseDefault converts a default tag to the parameter's field type.
// Container defaults are whitespace-separated tokens. A fallback default
// that the field cannot hold yields an invalid Value.
func parseDefault(p *ParameterSpec) (reflect.Value, error) {
	c := newCollector(p)
	tokens := []string{p.DefaultText}
	if p.Type.Container != ContainerNone && !p.fallback {
		tokens = strings.Fields(p.DefaultText)
	}
	for _, tok := range tokens {
		if err := c.add(tok); err != nil {
			return reflect.Value{}, err
		}
	}
	v, _ := c.fieldValue(p.GoType)
	return v, nil
}

// valueOption is the pflag.Value of an option taking values.
type valueOption struct {
	c   *collector
	typ string
}

func (o *valueOption) Set(s string) error { return o.c.add(s) }
func (o *valueOption) String() string     { return "" }
func (o *valueOption) Type() string       { return o.typ }

// flagState is the destination shared by the on and off options of one
// boolean parameter.
type flagState struct {
	value bool
	given bool
}

// boolOption is the pflag.Value of an on or off option.
type boolOption struct {
	state *flagState
	on    bool
}

func (o *boolOption) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return scalarError(s, BaseBoolean, err)
	}
	o.state.value = v == o.on
	o.state.given = true
	return nil
}

func (o *boolOption) String() string   { return "" }
func (o *boolOption) Type() string     { return "bool" }
func (o *boolOption) IsBoolFlag() bool { return true }

// invocation holds the parsed values of one command run.
type invocation struct {
	spec   *CommandSpec
	values []*collector
	flags  []*flagState
}

func newInvocation(spec *CommandSpec) *invocation {
	inv := &invocation{
		spec:   spec,
		values: make([]*collector, len(spec.Params)),
		flags:  make([]*flagState, len(spec.Params)),
	}
	for i, p := range spec.Params {
		if p.Flag != nil {
			inv.flags[i] = &flagState{value: p.Flag.Default}
		} else {
			inv.values[i] = newCollector(p)
		}
	}
	return inv
}

// value returns the pflag.Value that writes opt into this invocation.
func (inv *invocation) value(opt *Option) pflag.Value {
	switch opt.Kind {
	case OptionOn:
		return &boolOption{state: inv.flags[opt.param], on: true}
	case OptionOff:
		return &boolOption{state: inv.flags[opt.param], on: false}
	default:
		return &valueOption{c: inv.values[opt.param], typ: opt.Type.flagType()}
	}
}

// given reports whether parameter i appeared on the command line.
func (inv *invocation) given(i int) bool {
	if f := inv.flags[i]; f != nil {
		return f.given
	}
	return inv.values[i].given
}

// build fills a new argument struct: the parsed value when given, else the
// default, else the zero value. It returns a pointer to the struct, or an
// invalid Value for commands without arguments.
func (inv *invocation) build(logger *log.Logger) reflect.Value {
	if inv.spec.argsType == nil {
		return reflect.Value{}
	}
	argv := reflect.New(inv.spec.argsType)

	for i, p := range inv.spec.Params {
		field := fieldByIndex(argv.Elem(), p.index)

		if f := inv.flags[i]; f != nil {
			if f.given {
				setBool(field, p.Flag.fieldValue(f.value))
			} else if p.HasDefault {
				setBool(field, p.Flag.fieldValue(p.Flag.Default))
			}
			continue
		}

		c := inv.values[i]
		switch {
		case c.given:
			v, ok := c.fieldValue(field.Type())
			if !ok {
				logger.Warn("dropping value of unresolved parameter",
					"command", inv.spec.Path, "param", p.Name, "type", p.GoType.String())
				continue
			}
			field.Set(v)
		case p.HasDefault:
			// Parsed per run: containers must not be shared between runs.
			if v, err := parseDefault(p); err == nil && v.IsValid() {
				field.Set(v)
			}
		}
	}
	return argv
}

// params maps parameter names to the values built into argv.
func (inv *invocation) params(argv reflect.Value) (map[string]any, map[string]bool) {
	values := make(map[string]any, len(inv.spec.Params))
	given := make(map[string]bool, len(inv.spec.Params))
	if !argv.IsValid() {
		return values, given
	}
	for i, p := range inv.spec.Params {
		values[p.Name] = fieldByIndex(argv.Elem(), p.index).Interface()
		given[p.Name] = inv.given(i)
	}
	return values, given
}

func setBool(field reflect.Value, b bool) {
	if field.Kind() == reflect.Pointer {
		p := reflect.New(field.Type().Elem())
		p.Elem().SetBool(b)
		field.Set(p)
		return
	}
	field.SetBool(b)
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// struct pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// expandGreedy rewrites "--opt a b c" into "--opt=a --opt=b --opt=c" for
// options taking multiple values. A token counts as a value unless it looks
// like an option; negative numbers are values. "--" ends the rewrite.
func expandGreedy(spec *CommandSpec, args []string) []string {
	multi := make(map[string]string)
	for _, o := range spec.Options {
		if o.Kind != OptionValue || o.Type.Arity != Multiple {
			continue
		}
		multi["--"+o.Long] = o.Long
		if o.Short != "" {
			multi["-"+o.Short] = o.Long
		}
	}
	if len(multi) == 0 {
		return args
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}
		long, ok := multi[tok]
		if !ok {
			out = append(out, tok)
			continue
		}
		j := i + 1
		for j < len(args) && isValueToken(args[j]) {
			out = append(out, "--"+long+"="+args[j])
			j++
		}
		if j == i+1 {
			out = append(out, tok)
		}
		i = j - 1
	}
	return out
}

func isValueToken(s string) bool {
	if s == "--" {
		return false
	}
	if !strings.HasPrefix(s, "-") || s == "-" {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
