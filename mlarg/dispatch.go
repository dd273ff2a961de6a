package mlarg

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-mlarg/internal/fuzzy"
	"github.com/dzonerzy/go-mlarg/middleware"
)

// Instance is a parser value bound to its compiled level of the command
// tree. Dispatch creates one instance per level it walks through.
type Instance struct {
	node   *Node
	value  reflect.Value
	level  int
	parent *Instance
	top    *Instance
	s      *settings
	result any
}

// New compiles the parser type of proto, binds proto (or a fresh value when
// proto is not a pointer) and, unless NoParse is given, dispatches the
// command line.
func New(proto any, opts ...Setting) (*Instance, error) {
	s := newSettings(opts)
	t, err := protoType(proto)
	if err != nil {
		return nil, err
	}
	node, err := compile(t, s)
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(proto)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		fresh := reflect.New(t)
		if v.Kind() == reflect.Struct {
			fresh.Elem().Set(v)
		}
		v = fresh
	}

	inst := newInstance(node, v, s.level, s.parent, s.top, s)
	if s.noParse {
		return inst, nil
	}
	_, err = inst.Run(s.ctx, s.argv())
	return inst, err
}

func newInstance(node *Node, v reflect.Value, level int, parent, top *Instance, s *settings) *Instance {
	inst := &Instance{node: node, value: v, level: level, parent: parent, top: top, s: s}
	if inst.top == nil {
		inst.top = inst
	}
	v.Interface().(binder).bind(inst)
	return inst
}

// Node returns the compiled level this instance dispatches.
func (in *Instance) Node() *Node { return in.node }

// Value returns the bound parser value (a pointer).
func (in *Instance) Value() any { return in.value.Interface() }

// Level is 1 for the top-level instance.
func (in *Instance) Level() int { return in.level }

// Parent returns the instance one level up, or nil.
func (in *Instance) Parent() *Instance { return in.parent }

// Top returns the top-level instance.
func (in *Instance) Top() *Instance { return in.top }

// Result returns what the last dispatched command returned.
func (in *Instance) Result() any { return in.result }

// dispatch records what happened during one Run.
type dispatch struct {
	invoked bool
	result  any
	first   string
	rest    []string
}

// Run parses args at this level and invokes the chosen command, or hands the
// remaining tokens to the chosen subparser. It returns the command's result.
// When help was printed instead, the error is ErrHelpShown.
func (in *Instance) Run(ctx context.Context, args []string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	d := &dispatch{}
	args = in.prepare(d, args)
	in.s.log().Debug("dispatch", "parser", in.node.Path, "level", in.level, "args", args)

	root := in.rootCommand(d)
	root.SetArgs(args)
	root.SetOut(in.s.out)
	root.SetErr(in.s.errOut)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		return nil, in.translate(d, root, cmd, err)
	}
	if !d.invoked {
		return nil, ErrHelpShown
	}
	in.result = d.result
	return d.result, nil
}

// prepare normalizes the command token and expands greedy options of the
// chosen command. The result is never nil.
func (in *Instance) prepare(d *dispatch, args []string) []string {
	out := make([]string, 0, len(args))
	out = append(out, args...)
	if len(out) == 0 || strings.HasPrefix(out[0], "-") {
		return out
	}

	if !in.node.Class.CaseSensitiveCommands {
		out[0] = strings.ToLower(out[0])
	}
	d.first = out[0]
	d.rest = append([]string{}, out[1:]...)
	if spec := in.node.Command(out[0]); spec != nil {
		rest := expandGreedy(spec, out[1:])
		out = append(out[:1], rest...)
	}
	return out
}

func (in *Instance) rootCommand(d *dispatch) *cobra.Command {
	n := in.node
	root := &cobra.Command{
		Use:   n.Name,
		Short: summary(n.Description),
		Long:  n.Description,
		Annotations: map[string]string{
			cobra.CommandDisplayNameAnnotation: n.Path,
		},
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewUsageError(ErrorTypeMissingCommand, "missing command").
				WithSuggestion("Available commands: " + strings.Join(n.Names(), ", "))
		},
	}
	if n.Command("help") != nil || n.Child("help") != nil {
		root.SetHelpCommand(&cobra.Command{Use: "__help", Hidden: true})
	}

	for _, spec := range n.Commands {
		root.AddCommand(in.leafCommand(d, spec))
	}
	for _, child := range n.Children {
		root.AddCommand(in.childCommand(d, child))
	}
	return root
}

func (in *Instance) leafCommand(d *dispatch, spec *CommandSpec) *cobra.Command {
	inv := newInvocation(spec)
	cmd := &cobra.Command{
		Use:   spec.Name,
		Short: summary(spec.Doc),
		Long:  spec.Doc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return in.invoke(cmd.Context(), d, inv)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	if spec.hasShort("h") {
		flags.Bool("help", false, "help for "+spec.Name)
	}
	for _, opt := range spec.Options {
		f := flags.VarPF(inv.value(opt), opt.Long, opt.Short, opt.Help)
		f.DefValue = ""
		if opt.Kind != OptionValue {
			f.NoOptDefVal = "true"
		}
		if opt.Required {
			f.Annotations = map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}
		}
	}
	return cmd
}

func (in *Instance) childCommand(d *dispatch, child *Node) *cobra.Command {
	short := summary(child.Description)
	if short == "" {
		short = undocumented
	}
	return &cobra.Command{
		Use:                child.Name,
		Short:              short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d.invoked = true
			res, err := in.spawn(child).Run(cmd.Context(), args)
			if err != nil {
				return &passthrough{err: err}
			}
			d.result = res
			return nil
		},
	}
}

// spawn binds a fresh value of child's type, stored in this level's field.
func (in *Instance) spawn(child *Node) *Instance {
	f := in.value.Elem().FieldByIndex(child.field)
	var v reflect.Value
	if child.ptr {
		v = reflect.New(child.typ)
		f.Set(v)
	} else {
		f.Set(reflect.Zero(f.Type()))
		v = f.Addr()
	}
	return newInstance(child, v, in.level+1, in, in.top, in.s)
}

type argsValidator interface {
	Validate() error
}

// invoke builds the argument struct and calls the command method through
// the middleware chain.
func (in *Instance) invoke(ctx context.Context, d *dispatch, inv *invocation) error {
	spec := inv.spec
	argv := inv.build(in.s.log())

	if argv.IsValid() {
		if v, ok := argv.Interface().(argsValidator); ok {
			if err := v.Validate(); err != nil {
				return NewUsageError(ErrorTypeValidation, err.Error()).WithCause(err)
			}
		}
	}

	values, given := inv.params(argv)
	call := &callContext{
		ctx:    ctx,
		spec:   spec,
		args:   d.rest,
		values: values,
		given:  given,
	}

	action := func(mc middleware.Context) error {
		ins := []reflect.Value{in.value}
		if spec.takesContext {
			ins = append(ins, reflect.ValueOf(mc.Context()))
		}
		if spec.argsType != nil {
			if spec.argsPtr {
				ins = append(ins, argv)
			} else {
				ins = append(ins, argv.Elem())
			}
		}

		outs := spec.method.Func.Call(ins)
		if spec.returnsValue {
			d.result = outs[0].Interface()
		}
		if spec.returnsError {
			if e := outs[len(outs)-1]; !e.IsNil() {
				return e.Interface().(error)
			}
		}
		return nil
	}

	in.s.log().Debug("invoking", "command", spec.Path, "method", spec.Method)
	d.invoked = true
	if err := in.s.chain().Apply(action)(call); err != nil {
		return &passthrough{err: err}
	}
	return nil
}

// translate turns what cobra returned into the error Run reports.
func (in *Instance) translate(d *dispatch, root, cmd *cobra.Command, err error) error {
	var pt *passthrough
	if errors.As(err, &pt) {
		return pt.err
	}

	var ue *UsageError
	if !errors.As(err, &ue) {
		ue = NewUsageError(classify(err), err.Error()).WithCause(err)
	}
	if cmd == nil {
		cmd = root
	}
	if ue.Usage == "" {
		ue.WithUsage(cmd.CommandPath(), cmd.UsageString())
	}

	if ue.Type == ErrorTypeUnknownCommand {
		if cmd != root {
			ue.Type = ErrorTypeUnexpectedArgument
		} else if d.first != "" {
			for _, s := range fuzzy.FindSuggestions(d.first, in.node.Names(), 2, 3) {
				ue.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", s))
			}
		}
	}
	return ue
}

// callContext is the middleware.Context of one command invocation.
type callContext struct {
	ctx    context.Context
	spec   *CommandSpec
	args   []string
	values map[string]any
	given  map[string]bool
	meta   map[string]any
}

func (c *callContext) Context() context.Context      { return c.ctx }
func (c *callContext) SetContext(ctx context.Context) { c.ctx = ctx }
func (c *callContext) Args() []string                { return c.args }

func (c *callContext) Param(name string) (any, bool) {
	v, ok := c.values[name]
	if !ok {
		return nil, false
	}
	return v, c.given[name]
}

func (c *callContext) Set(key string, value any) {
	if c.meta == nil {
		c.meta = make(map[string]any)
	}
	c.meta[key] = value
}

func (c *callContext) Get(key string) any {
	return c.meta[key]
}

func (c *callContext) Command() middleware.Command { return commandRef{c.spec} }

// commandRef exposes a CommandSpec to middleware.
type commandRef struct{ spec *CommandSpec }

func (r commandRef) Name() string        { return r.spec.Path }
func (r commandRef) Description() string { return r.spec.Doc }
