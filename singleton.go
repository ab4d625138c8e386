package singleton

import "reflect"

// Construct routes a construction call for T through the interceptor.
// On a hit the existing instance is returned and constructor is not called.
func Construct[T any](in *Interceptor, constructor any, args ...any) (T, error) {
	var zero T

	instance, err := in.GetOrCreate(constructor, args...)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, newResultTypeError(typeOf[T](), reflect.TypeOf(instance))
	}

	return result, nil
}

// MustConstruct is Construct that panics on error.
func MustConstruct[T any](in *Interceptor, constructor any, args ...any) T {
	result, err := Construct[T](in, constructor, args...)
	if err != nil {
		panic(err)
	}

	return result
}

// CheckType validates T's accessor configuration eagerly: a type defining
// some but not all of the accessor method trio fails here instead of at the
// first construction attempt. Call it at startup for every governed type.
func CheckType[T any](in *Interceptor) error {
	return in.Check(typeOf[T]())
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
