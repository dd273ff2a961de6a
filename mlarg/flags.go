package mlarg

import (
	"strings"
)

// FlagKind is the shape of the options derived from a boolean parameter.
type FlagKind int

const (
	// SimpleOn registers --name, which sets the destination to true.
	SimpleOn FlagKind = iota
	// OnWithAutoOff registers --name and --no-name.
	OnWithAutoOff
	// OffOnly registers --no-base for a parameter named no_base.
	OffOnly
)

func (k FlagKind) String() string {
	switch k {
	case OnWithAutoOff:
		return "on-with-auto-off"
	case OffOnly:
		return "off-only"
	default:
		return "simple-on"
	}
}

const negPrefix = "no_"

// FlagPlan describes the options of one boolean parameter.
type FlagPlan struct {
	Kind FlagKind
	// Dest is the destination the options write to. For OffOnly it is the
	// parameter name without the no_ prefix.
	Dest string
	// On and Off are long option names; either may be empty.
	On  string
	Off string
	// Default is the destination's value when no option is given.
	Default bool
}

// DeriveFlag plans the options for boolean parameter name. def is the
// declared default and only matters when hasDefault is set. The default of
// a no_ parameter is ignored.
func DeriveFlag(name string, def, hasDefault, autoDisable bool) *FlagPlan {
	if base, ok := strings.CutPrefix(name, negPrefix); ok {
		return &FlagPlan{
			Kind:    OffOnly,
			Dest:    base,
			Off:     LongName(name),
			Default: true,
		}
	}

	plan := &FlagPlan{
		Kind:    SimpleOn,
		Dest:    name,
		On:      LongName(name),
		Default: hasDefault && def,
	}
	if plan.Default && autoDisable {
		plan.Kind = OnWithAutoOff
		plan.Off = LongName(negPrefix + name)
	}
	return plan
}

// fieldValue is the value a boolean parameter receives when its
// destination holds dest.
func (p *FlagPlan) fieldValue(dest bool) bool {
	if p.Kind == OffOnly {
		return !dest
	}
	return dest
}

// checkFlagPairs rejects no_no_ parameters and commands declaring a boolean
// no_x next to a parameter x of any type.
func checkFlagPairs(command string, params []*ParameterSpec) []error {
	var errs []error

	names := make(map[string]bool, len(params))
	for _, p := range params {
		names[p.Name] = true
	}

	for _, p := range params {
		if p.Flag == nil {
			continue
		}
		if strings.HasPrefix(p.Name, negPrefix+negPrefix) {
			errs = append(errs, &CollisionError{
				Command:    command,
				Name:       p.Name,
				Reason:     "is a double negative",
				Suggestion: strings.TrimPrefix(p.Name, negPrefix+negPrefix),
			})
			continue
		}
		if p.Flag.Kind == OffOnly && names[p.Flag.Dest] {
			errs = append(errs, &CollisionError{
				Command:     command,
				Name:        p.Name,
				Existing:    p.Flag.Dest,
				Conflicting: p.Name,
				Reason:      "and " + p.Flag.Dest + " form an ambiguous flag pair",
				Suggestion:  p.Flag.Dest,
			})
		}
	}
	return errs
}
