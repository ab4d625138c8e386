package singleton

import (
	"fmt"
	"reflect"
)

type constructorType int

const (
	onlyService constructorType = iota
	withError
	withErrorAndCleanUp
)

type record struct {
	constructor     any
	fn              reflect.Value
	typeName        string
	governedType    reflect.Type
	constructorType constructorType
}

func newRecord(constructor any) (*record, error) {
	t := reflect.TypeOf(constructor)

	cType, err := getConstructorType(t)
	if err != nil {
		return nil, err
	}

	governedType := t.Out(0)

	return &record{
		constructor:     constructor,
		fn:              reflect.ValueOf(constructor),
		typeName:        governedType.String(),
		governedType:    governedType,
		constructorType: cType,
	}, nil
}

func getConstructorType(t reflect.Type) (constructorType, error) {
	cType := onlyService

	if t == nil || t.Kind() != reflect.Func {
		return cType, newBadConstructorError(ErrConstructorNotAFunction, t)
	}

	if t.IsVariadic() {
		return cType, newBadConstructorError(ErrVariadicConstructor, t)
	}

	for i := 0; i < t.NumIn(); i++ {
		if t.In(i).Implements(contextInterface) {
			return cType, newBadConstructorError(ErrContextConstructor, t)
		}
	}

	switch t.NumOut() {
	case 1:
		if out := t.Out(0); out.Implements(errorInterface) {
			return cType, newConstructorUnsupportedError(t)
		}
	case 2:
		cType = withError

		if errType := t.Out(1); !errType.Implements(errorInterface) {
			return cType, newConstructorUnsupportedError(t)
		}
	case 3:
		cType = withErrorAndCleanUp

		if cleanupType := t.Out(1); !cleanupType.AssignableTo(cleanUpType) {
			return cType, newConstructorUnsupportedError(t)
		}

		if errType := t.Out(2); !errType.Implements(errorInterface) {
			return cType, newConstructorUnsupportedError(t)
		}
	default:
		return cType, newConstructorUnsupportedError(t)
	}

	return cType, nil
}

// checkArgs validates caller arguments against the constructor's parameter
// list before the reflective call, so a mismatch surfaces as a typed error
// instead of a reflect.Call panic.
func (rec *record) checkArgs(args []any) error {
	t := rec.fn.Type()

	if t.NumIn() != len(args) {
		return &ArgumentCountError{ConstructorType: t, Want: t.NumIn(), Got: len(args)}
	}

	for i, arg := range args {
		in := t.In(i)

		if arg == nil {
			switch in.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
				continue
			default:
				return &ArgumentError{ConstructorType: t, Expected: in, Got: nil, Position: i}
			}
		}

		if at := reflect.TypeOf(arg); !at.AssignableTo(in) {
			return &ArgumentError{ConstructorType: t, Expected: in, Got: at, Position: i}
		}
	}

	return nil
}

// call runs the real allocation and initialization step. It is invoked only
// on the miss path while the governed type's lock is held.
func (rec *record) call(args []any) (instance any, cleanup Cleanup, err error) {
	defer func() {
		if rp := recover(); rp != nil {
			instance, cleanup = nil, nil
			err = newConstructionError(
				newConstructorError(fmt.Errorf("recovered from panic: %v", rp)),
				rec.typeName,
			)
		}
	}()

	t := rec.fn.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(t.In(i))
			continue
		}

		in[i] = reflect.ValueOf(arg)
	}

	values := rec.fn.Call(in)

	switch rec.constructorType {
	case onlyService:
		return values[0].Interface(), nil, nil
	case withError:
		if err, ok := (values[1].Interface()).(error); ok && err != nil {
			return nil, nil, newConstructionError(newConstructorError(err), rec.typeName)
		}

		return values[0].Interface(), nil, nil
	case withErrorAndCleanUp:
		if err, ok := (values[2].Interface()).(error); ok && err != nil {
			return nil, nil, newConstructionError(newConstructorError(err), rec.typeName)
		}

		fn, _ := (values[1].Interface()).(func())

		return values[0].Interface(), fn, nil
	default:
		return nil, nil, newConstructionError(newConstructorUnsupportedError(t), rec.typeName)
	}
}
