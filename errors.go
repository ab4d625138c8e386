package singleton

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

const (
	constructorTemplateStr string = "func(T1, ...) [T|(T, error)|(T, func(), error)]"

	accessorOpLookup string = "lookup"
	accessorOpStore  string = "store"
	accessorOpDetach string = "detach"
)

var (
	errorInterface   = reflect.TypeOf((*error)(nil)).Elem()
	cleanUpType      = reflect.TypeOf((*func())(nil)).Elem()
	contextInterface = reflect.TypeOf((*context.Context)(nil)).Elem()

	ErrVariadicConstructor     = fmt.Errorf("variadic constructor is not supported")
	ErrConstructorNotAFunction = fmt.Errorf("constructor must be a function")
	ErrContextConstructor      = fmt.Errorf("construction is not context-scoped, constructor cannot take context.Context")
)

func newConstructorUnsupportedError(constructorType reflect.Type) error {
	return newBadConstructorError(
		&ConstructorTemplateError{
			SupportedConstructorTemplates: constructorTemplateStr,
		},
		constructorType,
	)
}

type ConstructorTemplateError struct {
	SupportedConstructorTemplates string
}

func (err *ConstructorTemplateError) Error() string {
	return fmt.Sprintf("only %s can be used as a singleton constructor", err.SupportedConstructorTemplates)
}

func newBadConstructorError(cause error, constructorType reflect.Type) error {
	return &BadConstructorError{
		cause:           cause,
		ConstructorType: constructorType,
	}
}

type BadConstructorError struct {
	cause           error
	ConstructorType reflect.Type
}

func (err *BadConstructorError) Error() string {
	return fmt.Sprintf("bad constructor %s: %s", err.ConstructorType, err.cause)
}

func (err *BadConstructorError) Unwrap() error {
	return err.cause
}

func newAccessorImplError(t reflect.Type, defined, missing []string) error {
	return &AccessorImplError{
		Type:    t,
		Defined: defined,
		Missing: missing,
	}
}

// AccessorImplError reports a governed type that defines some but not all of
// the reference accessor methods, or defines all of them with wrong shapes.
type AccessorImplError struct {
	Type    reflect.Type
	Defined []string
	Missing []string
}

func (err *AccessorImplError) Error() string {
	if len(err.Missing) == 0 {
		return fmt.Sprintf(
			"%s defines %s with unsupported signatures",
			err.Type,
			strings.Join(err.Defined, ", "),
		)
	}

	return fmt.Sprintf(
		"%s must define all or none of LookupRef, StoreRef and DetachRef: missing %s",
		err.Type,
		strings.Join(err.Missing, ", "),
	)
}

func newAccessorError(op, typeName string, cause error) error {
	return &AccessorError{
		cause:    cause,
		Op:       op,
		TypeName: typeName,
	}
}

type AccessorError struct {
	cause    error
	Op       string
	TypeName string
}

func (err *AccessorError) Error() string {
	return fmt.Sprintf("%s accessor failed for %s: %s", err.Op, err.TypeName, err.cause)
}

func (err *AccessorError) Unwrap() error {
	return err.cause
}

func newConstructionError(cause error, typeName string) error {
	return &ConstructionError{
		cause:    cause,
		TypeName: typeName,
	}
}

type ConstructionError struct {
	cause    error
	TypeName string
}

func (err *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s: %s", err.TypeName, err.cause)
}

func (err *ConstructionError) Unwrap() error {
	return err.cause
}

func newConstructorError(cause error) error {
	return &ConstructorError{
		cause: cause,
	}
}

type ConstructorError struct {
	cause error
}

func (err *ConstructorError) Error() string {
	return fmt.Sprintf("constructor returned an error: %s", err.cause)
}

func (err *ConstructorError) Unwrap() error {
	return err.cause
}

type ArgumentCountError struct {
	ConstructorType reflect.Type
	Want            int
	Got             int
}

func (err *ArgumentCountError) Error() string {
	return fmt.Sprintf("constructor %s takes %d arguments, got %d", err.ConstructorType, err.Want, err.Got)
}

type ArgumentError struct {
	ConstructorType reflect.Type
	Expected        reflect.Type
	Got             reflect.Type
	Position        int
}

func (err *ArgumentError) Error() string {
	got := "untyped nil"
	if err.Got != nil {
		got = err.Got.String()
	}

	return fmt.Sprintf(
		"constructor %s argument %d must be %s, got %s",
		err.ConstructorType,
		err.Position,
		err.Expected,
		got,
	)
}

func newResultTypeError(requested, actual reflect.Type) error {
	return &ResultTypeError{
		Requested: requested,
		Actual:    actual,
	}
}

type ResultTypeError struct {
	Requested reflect.Type
	Actual    reflect.Type
}

func (err *ResultTypeError) Error() string {
	return fmt.Sprintf("requested %s, constructor builds %s", err.Requested, err.Actual)
}
