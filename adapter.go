package singleton

import (
	"reflect"
	"sync"
)

// defaultAdapter is the ReferenceAccessor used when a governed type defines
// no accessor methods: one slot per exact governed type, constructor
// arguments ignored. sync.Map gives the unlocked lookup path safe
// publication against the lock-protected store path.
type defaultAdapter struct {
	slots sync.Map // reflect.Type -> instance
}

var _ ReferenceAccessor = new(defaultAdapter)

func (d *defaultAdapter) LookupRef(t reflect.Type, _ ...any) (any, error) {
	if instance, ok := d.slots.Load(t); ok {
		return instance, nil
	}

	return nil, nil
}

func (d *defaultAdapter) StoreRef(t reflect.Type, instance any, _ ...any) error {
	d.slots.Store(t, instance)

	return nil
}

func (d *defaultAdapter) DetachRef(instance any) error {
	d.detach(instance)

	return nil
}

// detach clears the slot currently holding instance and reports whether a
// slot was cleared. An instance that was never stored, was already detached,
// or has been replaced after an earlier detach leaves the registry untouched.
func (d *defaultAdapter) detach(instance any) bool {
	detached := false

	d.slots.Range(func(key, value any) bool {
		if !identical(value, instance) {
			return true
		}

		if reflect.TypeOf(value).Comparable() {
			detached = d.slots.CompareAndDelete(key, value)
		} else {
			d.slots.Delete(key)
			detached = true
		}

		return false
	})

	return detached
}

// clear drops every slot and returns the instances that were registered.
func (d *defaultAdapter) clear() []any {
	instances := make([]any, 0)

	d.slots.Range(func(key, value any) bool {
		d.slots.Delete(key)
		instances = append(instances, value)

		return true
	})

	return instances
}

// identical reports whether a and b are the same instance. Comparable values
// use plain equality; reference kinds that Go forbids comparing fall back to
// their referent pointer.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	if ta.Comparable() {
		return a == b
	}

	switch ta.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	default:
		return false
	}
}
