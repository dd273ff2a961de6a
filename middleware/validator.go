package middleware

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ValidatorFunc checks an invocation before the command method runs.
// Use it for checks that need external state, such as the file system;
// type conversion and required parameters are handled by mlarg itself.
type ValidatorFunc func(ctx Context) error

// Validator runs the validators registered with WithCustomValidators, in
// name order, and stops at the first failure.
func Validator(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	names := make([]string, 0, len(config.CustomValidators))
	for name := range config.CustomValidators {
		names = append(names, name)
	}
	sort.Strings(names)

	validators := make([]NamedValidator, 0, len(names))
	for _, name := range names {
		validators = append(validators, NamedValidator{Name: name, Fn: config.CustomValidators[name]})
	}
	return Validate(validators...)
}

// NamedValidator associates a name with a ValidatorFunc for error reporting.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File ensures the named parameters, when given, point to existing files.
func File(params ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(params...)}
}

// Dir ensures the named parameters, when given, point to existing directories.
func Dir(params ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(params...)}
}

// Validate runs validators in order before the command.
//
// Example:
//
//	mlarg.New(&App{}, mlarg.Use(middleware.Validate(
//	    middleware.Custom("port_range", checkPort),
//	    middleware.File("config"),
//	)))
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ctx); err != nil {
					var validationErr *ValidationError
					if errors.As(err, &validationErr) {
						return validationErr
					}
					return &ValidationError{
						Param:   v.Name,
						Message: "validation failed",
						Cause:   err,
					}
				}
			}
			return next(ctx)
		}
	}
}

// ConditionalRequired makes params mandatory whenever condition returns nil.
func ConditionalRequired(condition ValidatorFunc, params ...string) ValidatorFunc {
	return func(ctx Context) error {
		if err := condition(ctx); err != nil {
			return nil
		}
		var missing []string
		for _, name := range params {
			if _, given := ctx.Param(name); !given {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Param:   strings.Join(missing, ", "),
				Message: "parameters required when condition is met: " + strings.Join(missing, ", "),
			}
		}
		return nil
	}
}

// FileExists checks that string parameters name existing regular files.
func FileExists(params ...string) ValidatorFunc {
	return pathValidator("file", validateFileExists, params)
}

// DirectoryExists checks that string parameters name existing directories.
func DirectoryExists(params ...string) ValidatorFunc {
	return pathValidator("directory", validateDirectoryExists, params)
}

func pathValidator(kind string, check func(string) error, params []string) ValidatorFunc {
	return func(ctx Context) error {
		for _, name := range params {
			for _, path := range stringValues(ctx, name) {
				if err := check(path); err != nil {
					return &ValidationError{
						Param:   name,
						Value:   path,
						Message: fmt.Sprintf("%s validation failed for parameter '%s'", kind, name),
						Cause:   err,
					}
				}
			}
		}
		return nil
	}
}

// stringValues returns the non-empty string values a parameter was given,
// whether it holds one string, a *string or a []string.
func stringValues(ctx Context, name string) []string {
	v, given := ctx.Param(name)
	if !given {
		return nil
	}
	switch v := v.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case *string:
		if v != nil && *v != "" {
			return []string{*v}
		}
	case []string:
		return v
	}
	return nil
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// NoopValidator passes every invocation through.
func NoopValidator() Middleware {
	return func(next ActionFunc) ActionFunc {
		return next
	}
}
