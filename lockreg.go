package singleton

import (
	"reflect"
	"sync"
)

// lockRegistry hands out exactly one mutex per governed type. LoadOrStore is
// the atomic insert-if-absent that keeps two goroutines racing on a
// never-before-seen type from ending up with different locks. Entries live
// for the process lifetime; the set of governed types is bounded by the
// program's type set, not by runtime data.
type lockRegistry struct {
	mus sync.Map // reflect.Type -> *sync.Mutex
}

func (lr *lockRegistry) of(t reflect.Type) *sync.Mutex {
	mu, _ := lr.mus.LoadOrStore(t, new(sync.Mutex))

	return mu.(*sync.Mutex)
}
