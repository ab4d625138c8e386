package singleton

import "reflect"

// ReferenceAccessor defines identity and storage semantics for a governed
// type: where an existing instance is looked up, how a freshly built one is
// registered, and how an instance is detached so a later construction call
// may build a replacement.
//
// A governed type opts into custom semantics by implementing all three
// methods, on its value or pointer receiver. LookupRef and StoreRef are
// invoked on a zero-value receiver before any instance exists, so they must
// not depend on receiver state; state comes through the type and arguments.
// DetachRef is invoked on the live instance when possible.
//
// LookupRef must be idempotent and side-effect-free. A nil instance means
// absent. The interceptor's per-type lock serializes StoreRef with the
// locked re-check, but the optimistic first LookupRef runs unlocked, so
// custom storage must be safe for concurrent reads (sync.Map, atomics, or
// equivalent safe publication).
type ReferenceAccessor interface {
	LookupRef(t reflect.Type, args ...any) (any, error)
	StoreRef(t reflect.Type, instance any, args ...any) error
	DetachRef(instance any) error
}

var (
	accessorMethodNames = [...]string{"LookupRef", "StoreRef", "DetachRef"}

	referenceAccessorInterface = reflect.TypeOf((*ReferenceAccessor)(nil)).Elem()
)

// resolveAccessor inspects the governed type for the accessor method trio.
// A nil accessor with a nil error means the type defines none of the methods
// and falls back to the default per-type slot adapter.
func resolveAccessor(t reflect.Type) (ReferenceAccessor, error) {
	pt := accessorProbe(t)
	if pt == nil {
		return nil, nil
	}

	defined := make([]string, 0, len(accessorMethodNames))
	missing := make([]string, 0, len(accessorMethodNames))

	for _, name := range accessorMethodNames {
		if _, ok := pt.MethodByName(name); ok {
			defined = append(defined, name)
		} else {
			missing = append(missing, name)
		}
	}

	if len(defined) == 0 {
		return nil, nil
	}

	if len(missing) > 0 {
		return nil, newAccessorImplError(t, defined, missing)
	}

	if !pt.Implements(referenceAccessorInterface) {
		return nil, newAccessorImplError(t, defined, nil)
	}

	acc, ok := zeroReceiver(t).(ReferenceAccessor)
	if !ok {
		return nil, newAccessorImplError(t, defined, nil)
	}

	return acc, nil
}

// accessorProbe returns the type whose method set is inspected: *S for a
// governed type S or *S, covering both value and pointer receivers.
// Interface-typed governed types cannot carry accessor methods of their own
// and always use the default adapter.
func accessorProbe(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Interface:
		return nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Interface {
			return nil
		}

		return t
	default:
		return reflect.PointerTo(t)
	}
}

// zeroReceiver builds the classmethod-equivalent receiver the accessor
// methods are called on before any instance exists.
func zeroReceiver(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}

	return reflect.New(t).Interface()
}
