package mlarg

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-mlarg/middleware"
)

// ExitError requests a specific exit code from inside a command method.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
	DefinitionError int // default: 70
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3, DefinitionError: 70}
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByType     map[reflect.Type]int
	typeOrder       []reflect.Type
	codesByCategory map[ErrorType]int
	defaults        ExitCodeDefaults
}

// NewExitCodeManager returns a manager with the default mappings: usage
// errors exit 2, validation failures 3, broken parser definitions 70 and
// everything else 1.
func NewExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType:     make(map[reflect.Type]int),
		codesByCategory: make(map[ErrorType]int),
		defaults:        defaultExitDefaults(),
	}
	m.prewire()
	return m
}

func (e *ExitCodeManager) prewire() {
	for _, t := range []ErrorType{
		ErrorTypeUnknownCommand, ErrorTypeUnknownFlag, ErrorTypeMissingCommand,
		ErrorTypeInvalidValue, ErrorTypeMissingValue, ErrorTypeMissingRequired,
		ErrorTypeUnexpectedArgument, ErrorTypeUsage,
	} {
		e.codesByCategory[t] = e.defaults.MisusageError
	}
	e.codesByCategory[ErrorTypeValidation] = e.defaults.ValidationError
	e.codesByCategory[ErrorTypeResolution] = e.defaults.DefinitionError
	e.codesByCategory[ErrorTypeCollision] = e.defaults.DefinitionError

	e.setType(reflect.TypeOf(&middleware.TimeoutError{}), e.defaults.GeneralError)
	e.setType(reflect.TypeOf(&middleware.ValidationError{}), e.defaults.ValidationError)
	e.setType(reflect.TypeOf(&middleware.RecoveryError{}), e.defaults.GeneralError)
}

// setType records code for t, keeping the order in which types were first
// defined.
func (e *ExitCodeManager) setType(t reflect.Type, code int) {
	if _, ok := e.codesByType[t]; !ok {
		e.typeOrder = append(e.typeOrder, t)
	}
	e.codesByType[t] = code
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. It is consulted after ExitError and error categories; when an error
// chain matches several defined types, the earliest definition wins.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.setType(reflect.TypeOf(err), code)
	return e
}

// DefineCategory overrides the exit code of an error category.
func (e *ExitCodeManager) DefineCategory(typ ErrorType, code int) *ExitCodeManager {
	e.codesByCategory[typ] = code
	return e
}

// Default replaces the default codes and the mappings derived from them.
// Call it before DefineCategory.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	e.prewire()
	return e
}

// Resolve converts an error to an exit code.
// Precedence:
//  1. nil and ErrHelpShown (success)
//  2. ExitError (requested code)
//  3. error category (UsageError, ResolutionError, CollisionError)
//  4. concrete error type mapping (DefineError)
//  5. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil || errors.Is(err, ErrHelpShown) {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var typed typedError
	if errors.As(err, &typed) {
		if code, ok := e.codesByCategory[typed.ErrorType()]; ok {
			return code
		}
	}

	for _, t := range e.typeOrder {
		if errors.As(err, reflect.New(t).Interface()) {
			return e.codesByType[t]
		}
	}

	return e.defaults.GeneralError
}
